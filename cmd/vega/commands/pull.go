package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/coko7/vegapull/internal/catalog"
	"github.com/coko7/vegapull/internal/config"
	"github.com/coko7/vegapull/internal/localizer"
	"github.com/coko7/vegapull/internal/pipeline"
	"github.com/coko7/vegapull/internal/scrapers/optcg"
	"github.com/coko7/vegapull/internal/storage"
	"github.com/coko7/vegapull/lib/restyutil"

	"github.com/spf13/cobra"
)

var pullFlags struct {
	language    string
	userAgent   string
	workers     int
	requestRate float64
	dumpDir     string
}

var pullCmd = &cobra.Command{
	Use:     "pull",
	Aliases: []string{"p", "fetch"},
	Short:   "Download datasets from the official site",
}

func init() {
	flags := pullCmd.PersistentFlags()
	flags.StringVarP(&pullFlags.language, "language", "l", "", "Dataset to use, e.g. english, japanese, fr, zh_tw")
	flags.StringVarP(&pullFlags.userAgent, "user-agent", "A", "", "Send User-Agent <NAME> to server")
	flags.IntVarP(&pullFlags.workers, "workers", "w", 0, "Number of concurrent requests")
	flags.Float64Var(&pullFlags.requestRate, "rate", 0, "Fixed request rate per second, 0 is unlimited")
	flags.StringVar(&pullFlags.dumpDir, "dump-dir", "", "Write a transcript of every HTTP exchange to this directory (with -vv)")

	rootCmd.AddCommand(pullCmd)
}

// puller is everything a pull subcommand needs, resolved from the config
// layers and the flags.
type puller struct {
	config   config.Config
	language localizer.Language
	client   *optcg.Client
	pipeline pipeline.Pipeline
	progress *progressPrinter
}

func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("language") {
		cfg.Language = pullFlags.language
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = pullFlags.userAgent
	} else if cfg.UserAgent == config.Default().UserAgent {
		cfg.UserAgent += "/" + Version
	}
	if flags.Changed("workers") {
		cfg.Workers = pullFlags.workers
	}
	if flags.Changed("rate") {
		cfg.RequestRate = pullFlags.requestRate
	}
	if flags.Changed("dump-dir") {
		cfg.DumpDir = pullFlags.dumpDir
	}
	return cfg, cfg.Validate()
}

// loadLocalizer reads the installed locale definition, falling back to the
// embedded one when nothing was installed and no locale dir was asked for.
func loadLocalizer(cfg config.Config, lang localizer.Language) (*localizer.Localizer, error) {
	dir := cfg.LocaleDir
	explicit := dir != ""
	if !explicit {
		dir = configDir
	}

	labels, err := localizer.Load(lang, dir)
	if err == nil {
		return labels, nil
	}
	if !explicit && errors.Is(err, os.ErrNotExist) {
		slog.Info("no installed locale definition, using the embedded one", "language", lang, "dir", dir)
		return localizer.Default(lang)
	}
	return nil, err
}

func newPuller(cmd *cobra.Command) (*puller, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	lang, err := cfg.ParsedLanguage()
	if err != nil {
		return nil, err
	}

	labels, err := loadLocalizer(cfg, lang)
	if err != nil {
		return nil, err
	}

	opts := optcg.Options{
		UserAgent:       cfg.UserAgent,
		Timeout:         cfg.Timeout.Std(),
		RequestRate:     cfg.RequestRate,
		ImageAttempts:   cfg.ImageAttempts,
		ImageRetryDelay: cfg.ImageRetryDelay.Std(),
	}
	if cfg.DumpDir != "" {
		dump, err := restyutil.NewFilesystemOutput(cfg.DumpDir)
		if err != nil {
			return nil, fmt.Errorf("create dump dir: %w", err)
		}
		opts.Dump = dump
	}

	client, err := optcg.NewClient(labels, opts, tel)
	if err != nil {
		return nil, err
	}

	progress := newProgressPrinter()
	return &puller{
		config:   cfg,
		language: lang,
		client:   client,
		pipeline: pipeline.New(client, pipeline.Options{
			Workers:    cfg.Workers,
			OnProgress: progress.Update,
		}, tel),
		progress: progress,
	}, nil
}

// dataStore picks the output directory: the flag, then the config, then a
// fresh timestamped directory in the cwd. Writing into a directory that
// already holds files needs force.
func (p *puller) dataStore(outputDir string, force bool) (storage.DataStore, error) {
	if outputDir == "" {
		outputDir = p.config.OutputDir
	}
	if outputDir == "" {
		outputDir = storage.DefaultDataDir(time.Now())
	}

	entries, err := os.ReadDir(outputDir)
	if err == nil && len(entries) > 0 && !force {
		return storage.DataStore{}, fmt.Errorf(
			"directory `%s` already exists and is not empty, use --force to write into it",
			outputDir,
		)
	}
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return storage.DataStore{}, err
	}

	abs, err := filepath.Abs(outputDir)
	if err != nil {
		abs = outputDir
	}
	return storage.NewDataStore(abs, p.language), nil
}

// mirror writes packs, cards and run stats to the configured database, a
// database failure is reported but never loses the files already written.
func (p *puller) mirror(ctx context.Context, target string, result pipeline.Result, stats storage.MetaStats) error {
	if target == "" {
		target = p.config.Database
	}
	if target == "" {
		return nil
	}

	store, err := storage.OpenSQLStore(target, string(p.language), tel)
	if err != nil {
		return err
	}
	defer store.Close()

	if len(result.Packs) > 0 {
		err = store.WritePacks(ctx, result.Packs)
		if err != nil {
			return err
		}
	}
	for _, outcome := range result.Cards {
		if len(outcome.Value) == 0 {
			continue
		}
		err = store.WriteCards(ctx, outcome.Key, outcome.Value)
		if err != nil {
			return err
		}
	}
	return store.WriteRun(ctx, stats)
}

// writeCardOutcomes stores every pack that yielded cards, including packs
// where only part of the cards extracted, and returns the ids it wrote.
func writeCardOutcomes(store storage.DataStore, outcomes []pipeline.Outcome[[]catalog.Card]) ([]string, error) {
	var written []string
	for _, outcome := range outcomes {
		if outcome.Failed() && len(outcome.Value) == 0 {
			continue
		}
		err := store.WriteCards(outcome.Key, outcome.Value)
		if err != nil {
			return written, err
		}
		written = append(written, outcome.Key)
	}
	return written, nil
}
