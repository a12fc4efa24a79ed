package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/coko7/vegapull/internal/storage"

	"github.com/spf13/cobra"
)

var pullPacksFlags struct {
	out       string
	outputDir string
	force     bool
}

var pullPacksCmd = &cobra.Command{
	Use:     "packs",
	Aliases: []string{"pk"},
	Short:   "Get the list of all existing packs",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		start := time.Now()

		p, err := newPuller(cmd)
		if err != nil {
			return err
		}

		packs, err := p.pipeline.DiscoverPacks(ctx)
		p.progress.Done()
		if err != nil {
			return err
		}

		switch pullPacksFlags.out {
		case "":
		case "-":
			data, err := json.MarshalIndent(packs, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		default:
			data, err := json.Marshal(packs)
			if err != nil {
				return err
			}
			err = os.WriteFile(pullPacksFlags.out, data, storage.FILE_PERM)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d packs written to %s\n", len(packs), pullPacksFlags.out)
			return nil
		}

		store, err := p.dataStore(pullPacksFlags.outputDir, pullPacksFlags.force)
		if err != nil {
			return err
		}
		err = store.WritePacks(packs)
		if err != nil {
			return err
		}

		ids := make([]string, len(packs))
		for i, pack := range packs {
			ids[i] = pack.ID
		}
		stats := storage.NewMetaStats(p.language.String(), storage.MODE_PACKS, start)
		stats.Finish(time.Now(), ids, 0)
		err = store.WriteMeta(stats)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d packs written to %s\n", len(packs), store.PacksPath())
		return nil
	},
}

func init() {
	flags := pullPacksCmd.Flags()
	flags.StringVar(&pullPacksFlags.out, "out", "", "Write the packs to FILE instead of a dataset directory, - for stdout")
	flags.StringVarP(&pullPacksFlags.outputDir, "output-dir", "o", "", "Dataset directory to write to (defaults to ./data-<timestamp>)")
	flags.BoolVar(&pullPacksFlags.force, "force", false, "Write into the output directory even if it is not empty")

	pullCmd.AddCommand(pullPacksCmd)
}
