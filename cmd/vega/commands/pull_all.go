package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/coko7/vegapull/internal/pipeline"
	"github.com/coko7/vegapull/internal/storage"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var pullAllFlags struct {
	outputDir string
	images    bool
	database  string
	force     bool
}

var pullAllCmd = &cobra.Command{
	Use:     "all",
	Aliases: []string{"a"},
	Short:   "Download the complete dataset of a language: packs, cards and optionally images",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()

		p, err := newPuller(cmd)
		if err != nil {
			return err
		}
		store, err := p.dataStore(pullAllFlags.outputDir, pullAllFlags.force)
		if err != nil {
			return err
		}

		printBanner(cmd.ErrOrStderr())
		slog.Info("pulling dataset", "language", p.language, "output", store.Root(), "images", pullAllFlags.images)

		result, err := p.pipeline.Run(ctx, pipeline.RunOptions{
			Images: pullAllFlags.images,
			Sink:   store,
		})
		p.progress.Done()
		if err != nil {
			return err
		}

		err = store.WritePacks(result.Packs)
		if err != nil {
			return err
		}
		written, err := writeCardOutcomes(store, result.Cards)
		if err != nil {
			return err
		}

		failures := result.Failures()
		stats := storage.NewMetaStats(p.language.String(), storage.MODE_ALL, start)
		stats.ImagesIncluded = pullAllFlags.images
		stats.Finish(time.Now(), written, len(failures))
		err = store.WriteMeta(stats)
		if err != nil {
			return err
		}

		err = p.mirror(ctx, pullAllFlags.database, result, stats)
		if err != nil {
			slog.Error("failed to mirror the dataset to the database", "err", err)
		}

		printSummary(store, result)
		printFailures(failures)
		if err != nil {
			return err
		}
		if len(failures) > 0 {
			return fmt.Errorf("%d unit(s) failed, the data of the other units was saved", len(failures))
		}
		return nil
	},
}

func printSummary(store storage.DataStore, result pipeline.Result) {
	var imageBytes int
	for _, outcome := range result.Images {
		imageBytes += outcome.Value
	}

	t := NewTable()
	t.SetTitle(store.Root())
	t.AppendHeader(table.Row{"Language", "Packs", "Cards", "Images", "Image bytes"})
	t.AppendRow(table.Row{
		store.Language(),
		len(result.Packs),
		len(result.AllCards()),
		len(result.Images),
		imageBytes,
	})
	t.Render()
}

func init() {
	flags := pullAllCmd.Flags()
	flags.StringVarP(&pullAllFlags.outputDir, "output-dir", "o", "", "Directory to write the dataset to (defaults to ./data-<timestamp>)")
	flags.BoolVar(&pullAllFlags.images, "images", false, "Also download the image of every card")
	flags.StringVar(&pullAllFlags.database, "db", "", "Also store the dataset in this sqlite file or libsql url")
	flags.BoolVar(&pullAllFlags.force, "force", false, "Write into the output directory even if it is not empty")

	pullCmd.AddCommand(pullAllCmd)
}
