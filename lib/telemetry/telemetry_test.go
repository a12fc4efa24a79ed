package telemetry

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestVerbosityLevel(t *testing.T) {
	require.Equal(t, slog.LevelWarn, VerbosityLevel(-1))
	require.Equal(t, slog.LevelWarn, VerbosityLevel(0))
	require.Equal(t, slog.LevelInfo, VerbosityLevel(1))
	require.Equal(t, slog.LevelDebug, VerbosityLevel(2))
	require.Equal(t, slog.LevelDebug, VerbosityLevel(5))
}

func TestNilTelemetryShutdown(t *testing.T) {
	var tel *Telemetry
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupDisabled(t *testing.T) {
	tel, err := Setup(context.Background(), "vega-test", Config{})
	require.NoError(t, err)
	require.Nil(t, tel)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestConfigValidate(t *testing.T) {
	testCases := []struct {
		name   string
		config Config
		fail   bool
	}{
		{name: "empty"},
		{name: "grpc traces", config: Config{Traces: Exporter{Endpoint: "http://localhost:4317", Protocol: PROTOCOL_GRPC}}},
		{name: "default protocol", config: Config{Metrics: Exporter{Endpoint: "http://localhost:4318/v1/metrics"}}},
		{name: "unknown protocol", config: Config{Metrics: Exporter{Endpoint: "http://localhost:4318", Protocol: "udp"}}, fail: true},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			err := test.config.Validate()
			if test.fail {
				require.ErrorContains(t, err, "metrics")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestSetupTracesOnly(t *testing.T) {
	tel, err := Setup(context.Background(), "vega-test", Config{
		Traces: Exporter{Endpoint: "http://127.0.0.1:4318/v1/traces"},
	})
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, tel.Shutdown(ctx))
}
