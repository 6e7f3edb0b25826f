package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records probe and cache metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordProbe records one executed probe.
	RecordProbe(ctx context.Context, meta ServiceMeta, status string, latency time.Duration, err error)

	// RecordCacheLookup records a cache hit or miss for a subsystem.
	RecordCacheLookup(ctx context.Context, meta ServiceMeta, hit bool)
}

type metricsImpl struct {
	probeTotal  metric.Int64Counter
	probeErrors metric.Int64Counter
	latencyHist metric.Float64Histogram
	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	probeTotal, err := meter.Int64Counter(
		"health.probe.total",
		metric.WithDescription("Total number of subsystem probes"),
		metric.WithUnit("{probe}"),
	)
	if err != nil {
		return nil, err
	}

	probeErrors, err := meter.Int64Counter(
		"health.probe.errors",
		metric.WithDescription("Total number of probes that raised an error"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	latencyHist, err := meter.Float64Histogram(
		"health.probe.latency_us",
		metric.WithDescription("Probe latency in microseconds"),
		metric.WithUnit("us"),
	)
	if err != nil {
		return nil, err
	}

	cacheHits, err := meter.Int64Counter(
		"health.cache.hits",
		metric.WithDescription("Probe results served from cache"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, err
	}

	cacheMisses, err := meter.Int64Counter(
		"health.cache.misses",
		metric.WithDescription("Probe lookups that required a fresh probe"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		probeTotal:  probeTotal,
		probeErrors: probeErrors,
		latencyHist: latencyHist,
		cacheHits:   cacheHits,
		cacheMisses: cacheMisses,
	}, nil
}

func (m *metricsImpl) RecordProbe(ctx context.Context, meta ServiceMeta, status string, latency time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("health.service", meta.Name),
		attribute.String("health.status", status),
	}
	opt := metric.WithAttributes(attrs...)

	m.probeTotal.Add(ctx, 1, opt)
	if err != nil {
		m.probeErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("health.service", meta.Name)))
	}
	m.latencyHist.Record(ctx, float64(latency.Microseconds()), opt)
}

func (m *metricsImpl) RecordCacheLookup(ctx context.Context, meta ServiceMeta, hit bool) {
	opt := metric.WithAttributes(attribute.String("health.service", meta.Name))
	if hit {
		m.cacheHits.Add(ctx, 1, opt)
		return
	}
	m.cacheMisses.Add(ctx, 1, opt)
}

type noopMetrics struct{}

func (noopMetrics) RecordProbe(context.Context, ServiceMeta, string, time.Duration, error) {}
func (noopMetrics) RecordCacheLookup(context.Context, ServiceMeta, bool)                  {}
