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
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type codedErr struct{}

func (codedErr) Error() string { return "too big" }
func (codedErr) Code() string  { return "body_too_large" }

func newTestRecorder(t *testing.T) (*Recorder, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		_ = mp.Shutdown(context.Background())
	})

	rec, err := New(WithTracerProvider(tp), WithMeterProvider(mp))
	require.NoError(t, err)

	return rec, spans, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Aggregation {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := map[string]metricdata.Aggregation{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}

	return out
}

func TestRecorder_Success(t *testing.T) {
	t.Parallel()

	rec, spans, reader := newTestRecorder(t)

	_, span := rec.Start(context.Background(), SpanTypedBody, AttrContentType.String("application/json"))
	span.BodyRead(42, 1024)
	span.End()

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, SpanTypedBody, ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), AttrBodyBytes.Int64(42))
	assert.Contains(t, ended[0].Attributes(), AttrContentType.String("application/json"))

	data := collect(t, reader)
	hist, ok := data[MetricBodyBytes].(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(1), hist.DataPoints[0].Count)
	assert.Equal(t, int64(42), hist.DataPoints[0].Sum)
}

func TestRecorder_Failure(t *testing.T) {
	t.Parallel()

	rec, spans, reader := newTestRecorder(t)

	_, span := rec.Start(context.Background(), SpanUntypedBody)
	span.Oversize(10)
	span.Fail(codedErr{})
	span.End()

	_, span = rec.Start(context.Background(), SpanUntypedBody)
	span.Fail(errors.New("plain"))
	span.End()

	ended := spans.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "body_too_large", ended[0].Status().Description)

	data := collect(t, reader)

	oversize, ok := data[MetricOversize].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, oversize.DataPoints, 1)
	assert.Equal(t, int64(1), oversize.DataPoints[0].Value)

	failures, ok := data[MetricFailures].(metricdata.Sum[int64])
	require.True(t, ok)
	byCode := map[string]int64{}
	for _, dp := range failures.DataPoints {
		code, _ := dp.Attributes.Value(AttrErrorCode)
		byCode[code.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"body_too_large": 1, "unknown": 1}, byCode)
}

func TestRecorder_Nil(t *testing.T) {
	t.Parallel()

	var rec *Recorder
	ctx, span := rec.Start(context.Background(), SpanPathParams)
	assert.NotNil(t, ctx)

	span.SetAttributes(attribute.Bool("x", true))
	span.BodyRead(1, 2)
	span.Oversize(2)
	span.Fail(codedErr{})
	span.End()

	require.NoError(t, rec.Shutdown(context.Background()))

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecorder_Prometheus(t *testing.T) {
	t.Parallel()

	rec, err := New(WithServiceName("orders"), WithPrometheus())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rec.Shutdown(context.Background()) })

	_, span := rec.Start(context.Background(), SpanTypedBody)
	span.Oversize(10)
	span.End()

	w := httptest.NewRecorder()
	rec.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "extract_body_oversize")
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(WithServiceName(""))
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(WithPrometheus(), WithMeterProvider(sdkmetric.NewMeterProvider()))
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(WithStdout(), WithTracerProvider(sdktrace.NewTracerProvider()))
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(WithOTLP("localhost:4318"), WithExportInterval(0))
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = New(WithExporter("zipkin"))
	require.ErrorIs(t, err, ErrInvalidConfig)

	assert.Panics(t, func() { MustNew(WithServiceName("")) })
}

func TestParseExporter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Exporter
		wantErr bool
	}{
		{in: "", want: ExporterNone},
		{in: "none", want: ExporterNone},
		{in: " OTLP ", want: ExporterOTLP},
		{in: "prometheus", want: ExporterPrometheus},
		{in: "stdout", want: ExporterStdout},
		{in: "jaeger", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, err := ParseExporter(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// lockedBuffer is written by the span batcher and the metric reader.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func TestRecorder_Stdout(t *testing.T) {
	t.Parallel()

	var out lockedBuffer
	rec, err := New(WithServiceName("orders"), WithStdoutWriter(&out))
	require.NoError(t, err)

	_, span := rec.Start(context.Background(), SpanTypedBody)
	span.BodyRead(12, 64)
	span.End()

	require.NoError(t, rec.Shutdown(context.Background()))

	got := out.String()
	assert.Contains(t, got, SpanTypedBody)
	assert.Contains(t, got, MetricBodyBytes)
	assert.Contains(t, got, "orders")
}

func TestRecorder_OTLP(t *testing.T) {
	t.Parallel()

	var (
		mu    sync.Mutex
		paths = map[string]int{}
	)
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths[r.URL.Path]++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(collector.Close)

	rec, err := New(WithServiceName("orders"), WithOTLP(collector.URL+"/ignored"))
	require.NoError(t, err)

	_, span := rec.Start(context.Background(), SpanUntypedBody)
	span.BodyRead(3, 64)
	span.End()

	require.NoError(t, rec.Shutdown(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Positive(t, paths["/v1/traces"])
	assert.Positive(t, paths["/v1/metrics"])
}

func TestOTLPEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw          string
		wantEndpoint string
		wantInsecure bool
	}{
		{raw: "", wantEndpoint: ""},
		{raw: "collector:4318", wantEndpoint: "collector:4318"},
		{raw: "http://collector:4318/v1/traces", wantEndpoint: "collector:4318", wantInsecure: true},
		{raw: "https://collector.example.com", wantEndpoint: "collector.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			endpoint, insecure := otlpEndpoint(tt.raw)
			assert.Equal(t, tt.wantEndpoint, endpoint)
			assert.Equal(t, tt.wantInsecure, insecure)
		})
	}
}
