package commands

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/coko7/vegapull/internal/catalog"
	"github.com/coko7/vegapull/internal/pipeline"
	"github.com/coko7/vegapull/internal/storage"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const (
	CARDS_MODE_DATA  = "data"
	CARDS_MODE_IMAGE = "image"
	CARDS_MODE_ALL   = "all"
)

var pullCardsFlags struct {
	outputPath string
	mode       string
	force      bool
}

var pullCardsCmd = &cobra.Command{
	Use:     "cards <pack_id>",
	Aliases: []string{"c"},
	Short:   "Get all cards within the given pack",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()
		packID := args[0]

		mode := pullCardsFlags.mode
		switch mode {
		case CARDS_MODE_DATA, CARDS_MODE_IMAGE, CARDS_MODE_ALL:
		default:
			return fmt.Errorf("unknown mode `%s`, expected one of data, image, all", mode)
		}

		p, err := newPuller(cmd)
		if err != nil {
			return err
		}
		store, err := p.dataStore(pullCardsFlags.outputPath, pullCardsFlags.force)
		if err != nil {
			return err
		}

		result := pipeline.Result{
			Cards: p.pipeline.ExtractCards(ctx, []string{packID}),
		}
		cards := result.AllCards()
		if len(cards) == 0 {
			p.progress.Done()
			printFailures(result.Failures())
			return fmt.Errorf("no cards found for pack `%s`", packID)
		}

		if mode != CARDS_MODE_DATA {
			result.Images = p.pipeline.DownloadImages(ctx, cards, store)
		}
		p.progress.Done()

		if mode != CARDS_MODE_IMAGE {
			err = store.WriteCards(packID, cards)
			if err != nil {
				return err
			}
		}

		failures := result.Failures()
		stats := storage.NewMetaStats(p.language.String(), storage.MODE_CARDS, start)
		stats.ImagesIncluded = mode != CARDS_MODE_DATA
		stats.Finish(time.Now(), []string{packID}, len(failures))
		err = store.WriteMeta(stats)
		if err != nil {
			return err
		}

		slog.Info("pulled pack", "pack", packID, "cards", len(cards), "images", len(result.Images), "output", store.Root())
		printCards(cards)
		printFailures(failures)
		if len(failures) > 0 {
			return fmt.Errorf("%d unit(s) failed for pack `%s`", len(failures), packID)
		}
		return nil
	},
}

func printCards(cards []catalog.Card) {
	t := NewTable()
	t.AppendHeader(table.Row{"ID", "Name", "Category", "Rarity", "Colors"})
	for _, card := range cards {
		t.AppendRow(table.Row{card.ID, card.Name, card.Category, card.Rarity, joinColors(card.Colors)})
	}
	t.Render()
}

func joinColors(colors []catalog.Color) string {
	names := make([]string, len(colors))
	for i, color := range colors {
		names[i] = string(color)
	}
	return strings.Join(names, "/")
}

func init() {
	flags := pullCardsCmd.Flags()
	flags.StringVarP(&pullCardsFlags.outputPath, "output-path", "o", "", "Dataset directory to write to (defaults to ./data-<timestamp>)")
	flags.StringVarP(&pullCardsFlags.mode, "mode", "m", CARDS_MODE_DATA, "What to download: data, image or all")
	flags.BoolVar(&pullCardsFlags.force, "force", false, "Write into the output directory even if it is not empty")

	pullCmd.AddCommand(pullCardsCmd)
}
