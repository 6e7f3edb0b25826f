package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ServiceMeta identifies a probed subsystem for telemetry purposes.
type ServiceMeta struct {
	Name string // Registry name (required)
	Kind string // Implementation kind, e.g. "env", "runtime", "breaker" (optional)
}

// SpanName returns the deterministic span name for this subsystem.
// Format: health.probe.<name>
func (m ServiceMeta) SpanName() string {
	return "health.probe." + m.Name
}

// Tracer wraps OpenTelemetry tracing with probe-specific span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for one probe.
	StartSpan(ctx context.Context, meta ServiceMeta) (context.Context, trace.Span)

	// EndSpan records the derived status and any error, then ends the span.
	EndSpan(span trace.Span, status string, err error)
}

type tracerImpl struct {
	tracer trace.Tracer
}

func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

func (t *tracerImpl) StartSpan(ctx context.Context, meta ServiceMeta) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("health.service", meta.Name),
		attribute.Bool("health.error", false),
	}
	if meta.Kind != "" {
		attrs = append(attrs, attribute.String("health.service.kind", meta.Kind))
	}

	return t.tracer.Start(ctx, meta.SpanName(),
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

func (t *tracerImpl) EndSpan(span trace.Span, status string, err error) {
	if status != "" {
		span.SetAttributes(attribute.String("health.status", status))
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("health.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

type noopTracer struct {
	noop trace.Tracer
}

func newNoopTracer() Tracer {
	return &noopTracer{noop: tracenoop.NewTracerProvider().Tracer("noop")}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta ServiceMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, _ string, _ error) {
	span.End()
}
