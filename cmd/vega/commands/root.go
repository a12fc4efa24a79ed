package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/coko7/vegapull/internal/components/telemetry"
	"github.com/coko7/vegapull/internal/config"
	"github.com/coko7/vegapull/internal/localizer"
	"github.com/coko7/vegapull/lib/serviceutil"
	libtelemetry "github.com/coko7/vegapull/lib/telemetry"

	"github.com/spf13/cobra"
)

// set at build time with -ldflags "-X github.com/coko7/vegapull/cmd/vega/commands.Version=..."
var Version = "dev"

const PERF_STATS_INTERVAL = 5 * time.Second

var (
	verbosity int
	configDir string

	otelTelemetry *libtelemetry.Telemetry
	tel           telemetry.API = telemetry.SlogAPI{}
)

var rootCmd = &cobra.Command{
	Use:           "vega",
	Short:         "Scrape cards data from the official One Piece TCG website",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		libtelemetry.InitSlog(libtelemetry.VerbosityLevel(verbosity))

		// a broken config is reported by the commands that need it
		cfg, err := config.Load(configDir)
		if err != nil {
			return nil
		}
		t, err := libtelemetry.Setup(cmd.Context(), "vega", cfg.Telemetry)
		if err != nil {
			slog.Warn("failed to setup telemetry, continuing without it", "err", err)
			return nil
		}
		if t != nil {
			otelTelemetry = t
			libtelemetry.InstrumentPerfStats(cmd.Context(), PERF_STATS_INTERVAL)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase logging verbosity, repeat for more (-vv)")
	rootCmd.PersistentFlags().StringVarP(
		&configDir,
		"config-dir", "c",
		localizer.DefaultConfigDir(),
		"Path to the config directory (where locales and vega.json5 are stored)",
	)
}

func shutdownTelemetry() {
	if otelTelemetry == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := otelTelemetry.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to flush telemetry", "err", err)
	}
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	shutdownTelemetry()
	if err != nil {
		serviceutil.Fatal("command failed", err)
	}
}
