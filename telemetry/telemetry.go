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
	"errors"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	apierrors "rivaas.dev/extract/errors"
	"rivaas.dev/extract/telemetry/semconv"
)

// Span names.
const (
	SpanTypedBody   = "extract.typed_body"
	SpanUntypedBody = "extract.untyped_body"
	SpanPathParams  = "extract.path_params"
)

// Instrument names.
const (
	MetricBodyBytes = "extract.body.bytes"
	MetricOversize  = "extract.body.oversize"
	MetricFailures  = "extract.failures"
)

// Attribute keys set on spans and measurements.
const (
	AttrContentType = attribute.Key(semconv.ContentType)
	AttrBodyBytes   = attribute.Key(semconv.BodyBytes)
	AttrBodyLimit   = attribute.Key(semconv.BodyLimit)
	AttrErrorCode   = attribute.Key(semconv.ErrorCode)
	AttrExtractor   = attribute.Key(semconv.Extractor)
)

// ErrInvalidConfig is returned by [New] for inconsistent options.
var ErrInvalidConfig = errors.New("invalid telemetry configuration")

// Recorder records spans and metrics for extraction. Safe for concurrent use.
type Recorder struct {
	tracer    trace.Tracer
	bodyBytes metric.Int64Histogram
	oversize  metric.Int64Counter
	failures  metric.Int64Counter

	// Owned providers, nil unless a built-in exporter is selected.
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
	handler        http.Handler
}

// New creates a Recorder.
func New(opts ...Option) (*Recorder, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	r := &Recorder{handler: http.NotFoundHandler()}

	tp, mp, err := r.initProviders(cfg)
	if err != nil {
		return nil, err
	}
	r.tracer = tp.Tracer(cfg.serviceName)

	if err := r.initInstruments(mp.Meter(cfg.serviceName)); err != nil {
		return nil, err
	}

	return r, nil
}

// MustNew is like [New] but panics on error.
func MustNew(opts ...Option) *Recorder {
	r, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("telemetry.MustNew: %v", err))
	}

	return r
}

func (r *Recorder) initInstruments(meter metric.Meter) error {
	var err error

	r.bodyBytes, err = meter.Int64Histogram(MetricBodyBytes,
		metric.WithDescription("Size of accepted request bodies"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", MetricBodyBytes, err)
	}

	r.oversize, err = meter.Int64Counter(MetricOversize,
		metric.WithDescription("Request bodies rejected for exceeding the size cap"),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", MetricOversize, err)
	}

	r.failures, err = meter.Int64Counter(MetricFailures,
		metric.WithDescription("Failed extractions by error code"),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", MetricFailures, err)
	}

	return nil
}

// Handler serves the Prometheus registry when [WithPrometheus] was used,
// and 404 otherwise.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}

	return r.handler
}

// Shutdown flushes and stops the owned providers.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r == nil {
		return nil
	}

	var errs []error
	if r.tracerProvider != nil {
		if err := r.tracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if r.meterProvider != nil {
		if err := r.meterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}

	return errors.Join(errs...)
}

// Start opens an extraction span. The returned Span must be ended.
func (r *Recorder) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	if r == nil {
		return ctx, &Span{}
	}

	ctx, span := r.tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)

	return ctx, &Span{rec: r, ctx: ctx, span: span, name: name}
}

// Span tracks one extraction.
type Span struct {
	rec  *Recorder
	ctx  context.Context //nolint:containedctx // Measurements need the span context
	span trace.Span
	name string
}

// SetAttributes adds attributes to the span.
func (s *Span) SetAttributes(attrs ...attribute.KeyValue) {
	if s.span != nil {
		s.span.SetAttributes(attrs...)
	}
}

// BodyRead records an accepted body of n bytes read under limit.
func (s *Span) BodyRead(n, limit int64) {
	if s.rec == nil {
		return
	}

	s.span.SetAttributes(AttrBodyBytes.Int64(n), AttrBodyLimit.Int64(limit))
	s.rec.bodyBytes.Record(s.ctx, n, metric.WithAttributes(AttrExtractor.String(s.name)))
}

// Oversize records a body rejected for exceeding limit.
func (s *Span) Oversize(limit int64) {
	if s.rec == nil {
		return
	}

	s.span.SetAttributes(AttrBodyLimit.Int64(limit))
	s.rec.oversize.Add(s.ctx, 1, metric.WithAttributes(AttrExtractor.String(s.name)))
}

// Fail records err on the span and counts it by error code.
func (s *Span) Fail(err error) {
	if s.rec == nil || err == nil {
		return
	}

	code := apierrors.CodeOf(err)
	if code == "" {
		code = "unknown"
	}

	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, code)
	s.span.SetAttributes(AttrErrorCode.String(code))
	s.rec.failures.Add(s.ctx, 1, metric.WithAttributes(
		AttrExtractor.String(s.name),
		AttrErrorCode.String(code),
	))
}

// End finishes the span.
func (s *Span) End() {
	if s.span != nil {
		s.span.End()
	}
}
