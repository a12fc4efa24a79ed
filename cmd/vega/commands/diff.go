package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/coko7/vegapull/internal/storage"

	"github.com/spf13/cobra"
)

var diffPacks bool

var diffCmd = &cobra.Command{
	Use:     "diff --packs <before> <after>",
	Aliases: []string{"df"},
	Short:   "Compare two pulled datasets",
	Long: "Compare two packs.json files. Every pack present in only one of them, or\n" +
		"present in both with different values, is printed as JSON.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !diffPacks {
			return errors.New("missing arguments: only --packs comparisons are supported")
		}

		before, err := storage.LoadPacks(args[0])
		if err != nil {
			return err
		}
		after, err := storage.LoadPacks(args[1])
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(storage.DiffPacks(before, after), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	diffCmd.Flags().BoolVar(&diffPacks, "packs", false, "Compare two packs.json files")
	rootCmd.AddCommand(diffCmd)
}
