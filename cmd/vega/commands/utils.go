package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/coko7/vegapull/internal/pipeline"
	"github.com/coko7/vegapull/internal/scrapeerr"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func printBanner(out io.Writer) {
	border := color.New(color.FgYellow)
	title := color.New(color.FgBlue, color.Bold)
	version := color.New(color.FgWhite, color.Bold)

	const width = 35
	border.Fprintln(out, "+"+strings.Repeat("-", width)+"+")
	fmt.Fprintf(out, "%s %s %s\n",
		border.Sprint("|"),
		title.Sprintf("%-*s", width-2, "vega - One Piece TCG Data Scraper"),
		border.Sprint("|"),
	)
	fmt.Fprintf(out, "%s %s %s\n",
		border.Sprint("|"),
		version.Sprintf("%-*s", width-2, "version: "+Version),
		border.Sprint("|"),
	)
	border.Fprintln(out, "+"+strings.Repeat("-", width)+"+")
	fmt.Fprintln(out)
}

// progressPrinter rewrites a single status line on stderr as units complete.
type progressPrinter struct {
	mutex sync.Mutex
	out   io.Writer
	stage string
}

func newProgressPrinter() *progressPrinter {
	return &progressPrinter{out: os.Stderr}
}

func (p *progressPrinter) Update(s pipeline.Snapshot) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.stage != "" && p.stage != s.Stage {
		fmt.Fprintln(p.out)
	}
	p.stage = s.Stage

	failed := ""
	if s.Failed > 0 {
		failed = color.RedString(" (%d failed)", s.Failed)
	}
	fmt.Fprintf(p.out, "\r%s %d/%d%s", color.CyanString("[%s]", s.Stage), s.Done, s.Total, failed)
}

func (p *progressPrinter) Done() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.stage != "" {
		fmt.Fprintln(p.out)
	}
	p.stage = ""
}

func printFailures(failures []*scrapeerr.UnitError) {
	if len(failures) == 0 {
		return
	}

	fmt.Fprintln(os.Stderr, color.RedString("%d unit(s) failed:", len(failures)))
	t := NewTable()
	t.SetOutputMirror(os.Stderr)
	t.AppendHeader(table.Row{"Stage", "Key", "Error"})
	for _, failure := range failures {
		t.AppendRow(table.Row{failure.Stage, failure.Key, failure.Err.Error()})
	}
	t.Render()
}
