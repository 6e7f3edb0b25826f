package observe

import (
	"context"
	"time"
)

// ProbeOutcome is what a probe reports back to the middleware.
type ProbeOutcome struct {
	Status  string
	Latency time.Duration
	Err     error
}

// ProbeFunc runs a single subsystem probe.
type ProbeFunc func(ctx context.Context, meta ServiceMeta) ProbeOutcome

// Middleware wraps probes with tracing, metrics and logging.
//
// Contract:
//   - Concurrency: Wrap returns a ProbeFunc safe for concurrent use.
//   - Context: the span context is propagated to the wrapped probe.
//   - Errors: outcomes are passed through unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps a ProbeFunc with tracing, metrics and logging.
func (m *Middleware) Wrap(fn ProbeFunc) ProbeFunc {
	return func(ctx context.Context, meta ServiceMeta) ProbeOutcome {
		ctx, span := m.tracer.StartSpan(ctx, meta)

		out := fn(ctx, meta)

		m.tracer.EndSpan(span, out.Status, out.Err)
		m.metrics.RecordProbe(ctx, meta, out.Status, out.Latency, out.Err)

		log := m.logger.WithService(meta)
		fields := []Field{
			{Key: "status", Value: out.Status},
			{Key: "latency_us", Value: out.Latency.Microseconds()},
		}
		if out.Err != nil {
			fields = append(fields, Field{Key: "error", Value: out.Err.Error()})
			log.Warn(ctx, "probe failed", fields...)
		} else {
			log.Debug(ctx, "probe completed", fields...)
		}

		return out
	}
}

// CacheLookup records a cache hit or miss.
func (m *Middleware) CacheLookup(ctx context.Context, meta ServiceMeta, hit bool) {
	m.metrics.RecordCacheLookup(ctx, meta, hit)
}

// Logger returns the middleware's logger.
func (m *Middleware) Logger() Logger {
	return m.logger
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}
	return NewMiddleware(newTracer(obs.Tracer()), metrics, obs.Logger()), nil
}

// NopMiddleware returns a Middleware that records nothing.
func NopMiddleware() *Middleware {
	return NewMiddleware(newNoopTracer(), noopMetrics{}, NopLogger())
}
