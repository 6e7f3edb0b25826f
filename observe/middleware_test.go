package observe

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestMiddleware_WrapPassesOutcomeThrough(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := newMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("newMetrics: %v", err)
	}
	var buf bytes.Buffer
	mw := NewMiddleware(newTracer(tp.Tracer("test")), metrics, NewLoggerWithWriter("debug", &buf))

	wantErr := errors.New("unreachable")
	var sawSpan bool
	probe := mw.Wrap(func(ctx context.Context, meta ServiceMeta) ProbeOutcome {
		sawSpan = trace.SpanContextFromContext(ctx).IsValid()
		return ProbeOutcome{Status: "unhealthy", Latency: 3 * time.Millisecond, Err: wantErr}
	})

	out := probe(context.Background(), ServiceMeta{Name: "pdf"})
	if !errors.Is(out.Err, wantErr) {
		t.Errorf("Err = %v, want %v", out.Err, wantErr)
	}
	if out.Status != "unhealthy" {
		t.Errorf("Status = %q, want unhealthy", out.Status)
	}
	if !sawSpan {
		t.Error("probe context did not carry a span")
	}
	if len(sr.Ended()) != 1 {
		t.Errorf("ended spans = %d, want 1", len(sr.Ended()))
	}
	if findMetric(collect(t, reader), "health.probe.errors") == nil {
		t.Error("health.probe.errors not recorded")
	}
	if !strings.Contains(buf.String(), "probe failed") {
		t.Errorf("log output missing failure line: %s", buf.String())
	}
}

func TestMiddleware_CacheLookup(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := newMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("newMetrics: %v", err)
	}
	mw := NewMiddleware(newNoopTracer(), metrics, NopLogger())

	mw.CacheLookup(context.Background(), ServiceMeta{Name: "chat"}, true)

	found := findMetric(collect(t, reader), "health.cache.hits")
	if found == nil {
		t.Fatal("health.cache.hits not recorded")
	}
	if got := sumValue(t, found); got != 1 {
		t.Errorf("hits = %d, want 1", got)
	}
}

func TestNopMiddleware(t *testing.T) {
	mw := NopMiddleware()
	out := mw.Wrap(func(context.Context, ServiceMeta) ProbeOutcome {
		return ProbeOutcome{Status: "healthy"}
	})(context.Background(), ServiceMeta{Name: "chat"})
	if out.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", out.Status)
	}
	mw.CacheLookup(context.Background(), ServiceMeta{Name: "chat"}, false)
}
