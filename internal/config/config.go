// Package config resolves the settings of a pull. Values are layered, later
// ones win:
//
//  1. built-in defaults
//  2. <config dir>/vega.json5 and vega.local.json5
//  3. VEGA_* environment variables
//  4. command line flags (applied by the caller)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/coko7/vegapull/internal/localizer"
	"github.com/coko7/vegapull/internal/scrapeerr"
	"github.com/coko7/vegapull/lib/configutil"
	"github.com/coko7/vegapull/lib/telemetry"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

const (
	CONFIG_FILE = "vega.json5"
	ENV_PREFIX  = "VEGA_"
)

// Duration reads "30s" style strings from both json5 and the environment.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

type Config struct {
	Language string `json:"language" env:"LANGUAGE"`
	// LocaleDir holds the <code>.toml locale definitions, empty means the
	// config directory.
	LocaleDir string `json:"locale_dir" env:"LOCALE_DIR"`
	OutputDir string `json:"output_dir" env:"OUTPUT_DIR"`
	UserAgent string `json:"user_agent" env:"USER_AGENT"`

	Workers     int      `json:"workers" env:"WORKERS"`
	Timeout     Duration `json:"timeout" env:"TIMEOUT"`
	RequestRate float64  `json:"request_rate" env:"REQUEST_RATE"`

	ImageAttempts   int      `json:"image_attempts" env:"IMAGE_ATTEMPTS"`
	ImageRetryDelay Duration `json:"image_retry_delay" env:"IMAGE_RETRY_DELAY"`

	// DumpDir receives a transcript of every HTTP exchange at debug level.
	DumpDir string `json:"dump_dir" env:"DUMP_DIR"`
	// Database is a sqlite path or libsql url that records are mirrored to.
	Database string `json:"database" env:"DATABASE"`

	Telemetry telemetry.Config `json:"telemetry" envPrefix:"TELEMETRY_"`
}

func Default() Config {
	return Config{
		Language:        string(localizer.LANGUAGE_ENGLISH),
		UserAgent:       "vegapull",
		Workers:         8,
		Timeout:         Duration(30 * time.Second),
		ImageAttempts:   3,
		ImageRetryDelay: Duration(100 * time.Millisecond),
	}
}

// Load layers the config file found in dir and the environment on top of
// the defaults. A missing config file is not an error.
func Load(dir string) (Config, error) {
	out := Default()

	path := filepath.Join(dir, CONFIG_FILE)
	fromFile, err := configutil.ReadConfig[Config](path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return out, &scrapeerr.ConfigError{Path: path, Err: err}
	default:
		err = mergo.Merge(&out, fromFile, mergo.WithOverride)
		if err != nil {
			return out, &scrapeerr.ConfigError{Path: path, Err: err}
		}
	}

	err = env.ParseWithOptions(&out, env.Options{Prefix: ENV_PREFIX})
	if err != nil {
		return out, &scrapeerr.ConfigError{Path: "environment", Err: err}
	}
	return out, nil
}

func (c Config) ParsedLanguage() (localizer.Language, error) {
	return localizer.ParseLanguage(c.Language)
}

// Validate reports the first setting that cannot be used for a pull.
func (c Config) Validate() error {
	fail := func(field string, err error) error {
		return &scrapeerr.ConfigError{Path: field, Err: err}
	}

	_, err := c.ParsedLanguage()
	if err != nil {
		return fail("language", err)
	}
	if c.Workers < 1 {
		return fail("workers", fmt.Errorf("must be at least 1, got %d", c.Workers))
	}
	if c.Timeout <= 0 {
		return fail("timeout", fmt.Errorf("must be positive, got %s", c.Timeout.Std()))
	}
	if c.RequestRate < 0 {
		return fail("request_rate", fmt.Errorf("must not be negative, got %v", c.RequestRate))
	}
	if c.ImageAttempts < 1 {
		return fail("image_attempts", fmt.Errorf("must be at least 1, got %d", c.ImageAttempts))
	}
	if c.ImageRetryDelay < 0 {
		return fail("image_retry_delay", fmt.Errorf("must not be negative, got %s", c.ImageRetryDelay.Std()))
	}
	err = c.Telemetry.Validate()
	if err != nil {
		return fail("telemetry", err)
	}
	return nil
}
