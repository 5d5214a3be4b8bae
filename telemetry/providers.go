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
	"context"
	"fmt"
	"os"
	"strings"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// initProviders resolves the tracer and meter providers for cfg. Providers
// created here are owned by r and stopped by [Recorder.Shutdown].
func (r *Recorder) initProviders(cfg *config) (trace.TracerProvider, metric.MeterProvider, error) {
	var (
		tp trace.TracerProvider = tracenoop.NewTracerProvider()
		mp metric.MeterProvider = metricnoop.NewMeterProvider()
	)
	if cfg.tracerProvider != nil {
		tp = cfg.tracerProvider
	}
	if cfg.meterProvider != nil {
		mp = cfg.meterProvider
	}

	var err error
	switch cfg.exporter {
	case ExporterPrometheus:
		err = r.initPrometheus(cfg)
	case ExporterOTLP:
		err = r.initOTLP(cfg)
	case ExporterStdout:
		err = r.initStdout(cfg)
	}
	if err != nil {
		return nil, nil, err
	}

	if r.tracerProvider != nil {
		tp = r.tracerProvider
	}
	if r.meterProvider != nil {
		mp = r.meterProvider
	}

	return tp, mp, nil
}

func (r *Recorder) initPrometheus(cfg *config) error {
	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return fmt.Errorf("failed to create Prometheus exporter: %w", err)
	}

	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(serviceResource(cfg)),
	)
	r.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	cfg.logger.Debug("telemetry meter provider ready", "provider", ExporterPrometheus)

	return nil
}

func (r *Recorder) initOTLP(cfg *config) error {
	endpoint, insecure := otlpEndpoint(cfg.endpoint)

	var (
		traceOpts  []otlptracehttp.Option
		metricOpts []otlpmetrichttp.Option
	)
	if endpoint != "" {
		traceOpts = append(traceOpts, otlptracehttp.WithEndpoint(endpoint))
		metricOpts = append(metricOpts, otlpmetrichttp.WithEndpoint(endpoint))
	}
	if insecure {
		traceOpts = append(traceOpts, otlptracehttp.WithInsecure())
		metricOpts = append(metricOpts, otlpmetrichttp.WithInsecure())
	}

	// Neither exporter dials until the first export.
	traceExporter, err := otlptracehttp.New(context.Background(), traceOpts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}
	metricExporter, err := otlpmetrichttp.New(context.Background(), metricOpts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	r.setPushProviders(cfg, traceExporter, metricExporter)
	cfg.logger.Info("telemetry initialized", "provider", ExporterOTLP, "endpoint", endpoint)

	return nil
}

func (r *Recorder) initStdout(cfg *config) error {
	w := cfg.writer
	if w == nil {
		w = os.Stdout
	}

	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return fmt.Errorf("failed to create stdout trace exporter: %w", err)
	}
	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return fmt.Errorf("failed to create stdout metric exporter: %w", err)
	}

	r.setPushProviders(cfg, traceExporter, metricExporter)
	cfg.logger.Debug("telemetry initialized", "provider", ExporterStdout)

	return nil
}

func (r *Recorder) setPushProviders(cfg *config, spans sdktrace.SpanExporter, metrics sdkmetric.Exporter) {
	res := serviceResource(cfg)

	r.tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spans),
		sdktrace.WithResource(res),
	)
	r.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metrics, sdkmetric.WithInterval(cfg.exportInterval))),
		sdkmetric.WithResource(res),
	)
}

func serviceResource(cfg *config) *resource.Resource {
	return resource.NewSchemaless(attribute.String("service.name", cfg.serviceName))
}

// otlpEndpoint reduces a URL to the "host:port" form the exporters take.
// A plain "http://" scheme reports insecure.
func otlpEndpoint(raw string) (endpoint string, insecure bool) {
	endpoint = strings.TrimSpace(raw)
	if trimmed, ok := strings.CutPrefix(endpoint, "http://"); ok {
		endpoint, insecure = trimmed, true
	} else if trimmed, ok := strings.CutPrefix(endpoint, "https://"); ok {
		endpoint = trimmed
	}
	if i := strings.IndexByte(endpoint, '/'); i >= 0 {
		endpoint = endpoint[:i]
	}

	return endpoint, insecure
}
