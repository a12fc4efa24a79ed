package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/coko7/vegapull/internal/config"
	"github.com/coko7/vegapull/internal/localizer"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:     "config",
	Aliases: []string{"conf"},
	Short:   "Show the configuration directory and the files installed in it",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "config directory: %s\n", configDir)

		files, err := localizer.ListInstalled(configDir)
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(out, "nothing installed yet, run `vega config init`")
			return nil
		}
		if err != nil {
			return err
		}

		_, err = os.Stat(filepath.Join(configDir, config.CONFIG_FILE))
		if err == nil {
			files = append(files, config.CONFIG_FILE)
		}

		t := NewTable()
		t.SetOutputMirror(out)
		t.AppendHeader(table.Row{"File", "Path"})
		for _, name := range files {
			t.AppendRow(table.Row{name, filepath.Join(configDir, name)})
		}
		t.Render()
		return nil
	},
}

var configInitForce bool

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Install the built-in locale definitions into the configuration directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		written, err := localizer.InstallDefaults(configDir, configInitForce)
		if err != nil {
			return err
		}
		if len(written) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "every locale definition is already installed in %s, use --force to replace them\n", configDir)
			return nil
		}
		for _, name := range written {
			fmt.Fprintf(cmd.OutOrStdout(), "installed %s\n", filepath.Join(configDir, name))
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "Replace locale definitions that are already installed")

	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
