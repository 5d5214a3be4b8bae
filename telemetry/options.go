// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package telemetry

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Exporter names a built-in telemetry backend.
type Exporter string

// Supported exporters.
const (
	ExporterNone       Exporter = "none"       // No-op providers
	ExporterPrometheus Exporter = "prometheus" // Metrics on a private registry, see [Recorder.Handler]
	ExporterOTLP       Exporter = "otlp"       // Traces and metrics over OTLP/HTTP
	ExporterStdout     Exporter = "stdout"     // Traces and metrics written as JSON
)

// DefaultExportInterval is how often pushed metrics are exported.
const DefaultExportInterval = 30 * time.Second

// ParseExporter parses an exporter name. The empty string is [ExporterNone].
func ParseExporter(s string) (Exporter, error) {
	switch e := Exporter(strings.ToLower(strings.TrimSpace(s))); e {
	case "", ExporterNone:
		return ExporterNone, nil
	case ExporterPrometheus, ExporterOTLP, ExporterStdout:
		return e, nil
	default:
		return "", fmt.Errorf("%w: unknown exporter %q", ErrInvalidConfig, s)
	}
}

// Option configures a [Recorder].
type Option func(*config)

type config struct {
	serviceName    string
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	exporter       Exporter
	endpoint       string
	writer         io.Writer
	exportInterval time.Duration
	logger         *slog.Logger
}

func defaultConfig() *config {
	return &config{
		serviceName:    "extract",
		exporter:       ExporterNone,
		exportInterval: DefaultExportInterval,
		logger:         slog.New(slog.DiscardHandler),
	}
}

func (c *config) validate() error {
	if c.serviceName == "" {
		return fmt.Errorf("%w: service name must not be empty", ErrInvalidConfig)
	}
	if c.exportInterval <= 0 {
		return fmt.Errorf("%w: export interval must be positive", ErrInvalidConfig)
	}

	switch c.exporter {
	case ExporterNone:
	case ExporterPrometheus:
		if c.meterProvider != nil {
			return fmt.Errorf("%w: WithPrometheus and WithMeterProvider are mutually exclusive", ErrInvalidConfig)
		}
	case ExporterOTLP, ExporterStdout:
		if c.meterProvider != nil || c.tracerProvider != nil {
			return fmt.Errorf("%w: exporter %s cannot be combined with a custom provider", ErrInvalidConfig, c.exporter)
		}
	default:
		return fmt.Errorf("%w: unknown exporter %q", ErrInvalidConfig, c.exporter)
	}

	return nil
}

// WithServiceName sets the instrumentation scope and service attribute.
func WithServiceName(name string) Option {
	return func(c *config) {
		c.serviceName = name
	}
}

// WithTracerProvider uses tp instead of the no-op tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		c.tracerProvider = tp
	}
}

// WithMeterProvider uses mp instead of the no-op meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		c.meterProvider = mp
	}
}

// WithExporter selects a built-in exporter. The last exporter option wins.
func WithExporter(e Exporter) Option {
	return func(c *config) {
		c.exporter = e
	}
}

// WithPrometheus backs the meter with a private Prometheus registry.
// The registry is served by [Recorder.Handler].
func WithPrometheus() Option {
	return WithExporter(ExporterPrometheus)
}

// WithOTLP exports traces and metrics over OTLP/HTTP.
//
// The endpoint is "host:port" or a URL; an "http://" scheme disables TLS.
// An empty endpoint leaves the exporters to the OTEL_EXPORTER_OTLP_*
// environment variables.
func WithOTLP(endpoint string) Option {
	return func(c *config) {
		c.exporter = ExporterOTLP
		c.endpoint = endpoint
	}
}

// WithStdout writes traces and metrics to standard output.
func WithStdout() Option {
	return WithExporter(ExporterStdout)
}

// WithStdoutWriter is like [WithStdout] but writes to w.
func WithStdoutWriter(w io.Writer) Option {
	return func(c *config) {
		c.exporter = ExporterStdout
		c.writer = w
	}
}

// WithExportInterval sets how often OTLP and stdout metrics are pushed.
func WithExportInterval(d time.Duration) Option {
	return func(c *config) {
		c.exportInterval = d
	}
}

// WithLogger sets the logger used for provider lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
