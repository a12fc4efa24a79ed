package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coko7/vegapull/internal/localizer"
	"github.com/coko7/vegapull/internal/scrapeerr"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	err := os.WriteFile(path, []byte(content), 0644)
	require.NoError(t, err)
}

func TestLoadDefaults(t *testing.T) {
	config, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, Default(), config)
	require.NoError(t, config.Validate())

	lang, err := config.ParsedLanguage()
	require.NoError(t, err)
	require.Equal(t, localizer.LANGUAGE_ENGLISH, lang)
}

func TestLoadLayers(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, CONFIG_FILE), `{
		// shared settings
		language: "jp",
		workers: 4,
		timeout: "10s",
		image_retry_delay: "250ms",
	}`)
	writeFile(t, filepath.Join(dir, "vega.local.json5"), `{
		workers: 2,
		database: "vega.db",
	}`)

	t.Setenv("VEGA_WORKERS", "16")
	t.Setenv("VEGA_REQUEST_RATE", "2.5")

	config, err := Load(dir)
	require.NoError(t, err)

	require.Equal(t, "jp", config.Language)
	require.Equal(t, 16, config.Workers)
	require.Equal(t, 10*time.Second, config.Timeout.Std())
	require.Equal(t, 250*time.Millisecond, config.ImageRetryDelay.Std())
	require.Equal(t, 2.5, config.RequestRate)
	require.Equal(t, "vega.db", config.Database)
	// untouched by every layer
	require.Equal(t, 3, config.ImageAttempts)
	require.Equal(t, "vegapull", config.UserAgent)

	require.NoError(t, config.Validate())
}

func TestLoadErrors(t *testing.T) {
	t.Run("malformed file", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, CONFIG_FILE), `{ workers: `)

		_, err := Load(dir)
		var configErr *scrapeerr.ConfigError
		require.ErrorAs(t, err, &configErr)
		require.Equal(t, filepath.Join(dir, CONFIG_FILE), configErr.Path)
	})

	t.Run("bad environment", func(t *testing.T) {
		t.Setenv("VEGA_TIMEOUT", "soon")

		_, err := Load(t.TempDir())
		var configErr *scrapeerr.ConfigError
		require.ErrorAs(t, err, &configErr)
		require.Equal(t, "environment", configErr.Path)
	})
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		field  string
		mutate func(c *Config)
	}{
		{field: "language", mutate: func(c *Config) { c.Language = "klingon" }},
		{field: "workers", mutate: func(c *Config) { c.Workers = 0 }},
		{field: "timeout", mutate: func(c *Config) { c.Timeout = 0 }},
		{field: "request_rate", mutate: func(c *Config) { c.RequestRate = -1 }},
		{field: "image_attempts", mutate: func(c *Config) { c.ImageAttempts = 0 }},
		{field: "image_retry_delay", mutate: func(c *Config) { c.ImageRetryDelay = Duration(-time.Second) }},
		{field: "telemetry", mutate: func(c *Config) { c.Telemetry.Traces.Protocol = "udp" }},
	}

	for _, test := range testCases {
		t.Run(test.field, func(t *testing.T) {
			config := Default()
			test.mutate(&config)

			var configErr *scrapeerr.ConfigError
			require.ErrorAs(t, config.Validate(), &configErr)
			require.Equal(t, test.field, configErr.Path)
		})
	}
}

func TestLoadTelemetry(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, CONFIG_FILE), `{
		telemetry: {
			traces: { endpoint: "http://localhost:4318/v1/traces" },
			metrics: { endpoint: "http://collector:4317", protocol: "grpc" },
		},
	}`)
	t.Setenv("VEGA_TELEMETRY_TRACES_HEADERS", "authorization:Bearer abc")
	t.Setenv("VEGA_TELEMETRY_METRICS_ENDPOINT", "http://localhost:4317")

	config, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	require.True(t, config.Telemetry.Enabled())
	require.Equal(t, "http://localhost:4318/v1/traces", config.Telemetry.Traces.Endpoint)
	require.Equal(t, map[string]string{"authorization": "Bearer abc"}, config.Telemetry.Traces.Headers)
	require.Equal(t, "http://localhost:4317", config.Telemetry.Metrics.Endpoint)
	require.Equal(t, "grpc", config.Telemetry.Metrics.Protocol)
}
