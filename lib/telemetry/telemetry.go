// Package telemetry sets up OpenTelemetry tracing and metrics exported over
// OTLP, and the process wide slog handler.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

const (
	PROTOCOL_GRPC = "grpc"
	PROTOCOL_HTTP = "http"
)

// Exporter is where one signal is sent. An empty endpoint turns the signal
// off.
type Exporter struct {
	// Endpoint is a full url, e.g. http://localhost:4318/v1/traces
	Endpoint string `json:"endpoint" env:"ENDPOINT"`
	// Protocol is grpc or http, empty means http.
	Protocol string            `json:"protocol" env:"PROTOCOL"`
	Headers  map[string]string `json:"headers" env:"HEADERS"`
}

func (e Exporter) protocol() string {
	if e.Protocol == "" {
		return PROTOCOL_HTTP
	}
	return e.Protocol
}

func (e Exporter) validate() error {
	switch e.protocol() {
	case PROTOCOL_GRPC, PROTOCOL_HTTP:
		return nil
	}
	return fmt.Errorf("unknown protocol `%s`, expected grpc or http", e.Protocol)
}

// Config is read from the `telemetry` section of vega.json5 or from
// VEGA_TELEMETRY_* variables.
type Config struct {
	Traces  Exporter `json:"traces" envPrefix:"TRACES_"`
	Metrics Exporter `json:"metrics" envPrefix:"METRICS_"`
}

func (c Config) Enabled() bool {
	return c.Traces.Endpoint != "" || c.Metrics.Endpoint != ""
}

func (c Config) Validate() error {
	err := c.Traces.validate()
	if err != nil {
		return fmt.Errorf("traces: %w", err)
	}
	err = c.Metrics.validate()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	return nil
}

// Telemetry holds the providers that were enabled, either may be nil.
type Telemetry struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

// Shutdown flushes and stops the providers.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	var errlist []error
	if t.TracerProvider != nil {
		errlist = append(errlist, t.TracerProvider.Shutdown(ctx))
	}
	if t.MeterProvider != nil {
		errlist = append(errlist, t.MeterProvider.Shutdown(ctx))
	}
	return errors.Join(errlist...)
}

// Setup installs the global tracer and meter providers for every signal that
// has an endpoint. A config without any endpoint returns nil, telemetry
// stays off.
func Setup(ctx context.Context, serviceName string, config Config) (*Telemetry, error) {
	if !config.Enabled() {
		return nil, nil
	}
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*15)
	defer cancel()

	r, err := newResource(serviceName)
	if err != nil {
		return nil, err
	}

	out := &Telemetry{}
	if config.Traces.Endpoint != "" {
		out.TracerProvider, err = newTraceProvider(ctx, r, config.Traces)
		if err != nil {
			return nil, err
		}
		otel.SetTracerProvider(out.TracerProvider)
	}
	if config.Metrics.Endpoint != "" {
		out.MeterProvider, err = newMetricProvider(ctx, r, config.Metrics)
		if err != nil {
			out.Shutdown(ctx)
			return nil, err
		}
		otel.SetMeterProvider(out.MeterProvider)
	}
	return out, nil
}
