package health

import (
	"context"
	"time"

	"github.com/jonwraymond/svchealth/cache"
	"github.com/jonwraymond/svchealth/observe"
)

// MonitorConfig configures a Monitor.
type MonitorConfig struct {
	// CacheTTL is how long probe results stay fresh.
	// Default: 30 seconds
	CacheTTL time.Duration

	// ProbeTimeout bounds the capability calls of one probe.
	// Default: 5 seconds
	ProbeTimeout time.Duration

	// MaxConcurrency caps simultaneous probes during a snapshot.
	// Default: 16
	MaxConcurrency int

	// Process supplies uptime, version and environment.
	Process ProcessInfo

	// Middleware instruments probes. Its logger is also used for lifecycle events.
	Middleware *observe.Middleware

	// Now overrides the clock. Intended for tests.
	Now func() time.Time
}

// Monitor owns a Registry and a Cache and exposes the health operations
// over them. It is safe for concurrent use.
type Monitor struct {
	registry   *Registry
	cache      *Cache
	prober     *Prober
	aggregator *Aggregator
	logger     observe.Logger
}

// NewMonitor creates a Monitor with its own registry and cache.
func NewMonitor(cfg MonitorConfig) *Monitor {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Middleware == nil {
		cfg.Middleware = observe.NopMiddleware()
	}

	registry := NewRegistry()
	c := NewCache(cfg.CacheTTL, cache.WithClock(cfg.Now))
	prober := NewProber(registry, c, ProberConfig{
		Timeout:    cfg.ProbeTimeout,
		Now:        cfg.Now,
		Middleware: cfg.Middleware,
	})
	agg := NewAggregator(registry, prober, AggregatorConfig{
		MaxConcurrency: cfg.MaxConcurrency,
		Process:        cfg.Process,
		Now:            cfg.Now,
	})

	return &Monitor{
		registry:   registry,
		cache:      c,
		prober:     prober,
		aggregator: agg,
		logger:     cfg.Middleware.Logger(),
	}
}

// RegisterService binds name to svc. Re-registering a name replaces the
// previous Service and keeps any cached result.
func (m *Monitor) RegisterService(name string, svc Service) error {
	if err := m.registry.Register(name, svc); err != nil {
		return err
	}
	m.logger.Info(context.Background(), "service registered", observe.Field{Key: "subsystem", Value: name})
	return nil
}

// UnregisterService removes name and its cached result. Unknown names are ignored.
func (m *Monitor) UnregisterService(name string) {
	removed := m.registry.Unregister(name)
	m.cache.Evict(name)
	if removed {
		m.logger.Info(context.Background(), "service unregistered", observe.Field{Key: "subsystem", Value: name})
	}
}

// CheckServiceHealth returns the current result for name.
func (m *Monitor) CheckServiceHealth(ctx context.Context, name string) Result {
	return m.prober.Probe(ctx, name)
}

// CheckAllServices probes every registered service.
func (m *Monitor) CheckAllServices(ctx context.Context) Snapshot {
	return m.aggregator.Snapshot(ctx)
}

// GetHealthSummary takes a snapshot and summarizes it.
func (m *Monitor) GetHealthSummary(ctx context.Context) Summary {
	return m.aggregator.Summary(ctx)
}

// CheckCriticalServices reports whether every named service is healthy.
func (m *Monitor) CheckCriticalServices(ctx context.Context, names []string) bool {
	return m.aggregator.CheckCritical(ctx, names)
}

// GetPerformanceMetrics takes a snapshot and computes latency statistics
// over it. Fresh cached results make this cheap.
func (m *Monitor) GetPerformanceMetrics(ctx context.Context) PerformanceMetrics {
	return CalculateMetrics(m.aggregator.Snapshot(ctx).Services)
}

// LastSnapshot returns the most recent snapshot without probing.
func (m *Monitor) LastSnapshot() (Snapshot, bool) {
	return m.aggregator.Last()
}

// ClearCache drops every cached result.
func (m *Monitor) ClearCache() {
	m.cache.Clear()
	m.logger.Info(context.Background(), "health cache cleared")
}

// SetCacheTimeout changes the cache TTL. It applies to existing entries.
func (m *Monitor) SetCacheTimeout(d time.Duration) error {
	if err := m.cache.SetTTL(d); err != nil {
		return err
	}
	m.logger.Info(context.Background(), "cache timeout updated", observe.Field{Key: "ttl", Value: d.String()})
	return nil
}

// CacheTimeout returns the current cache TTL.
func (m *Monitor) CacheTimeout() time.Duration {
	return m.cache.TTL()
}

// CacheStats returns cache hit and miss counters.
func (m *Monitor) CacheStats() cache.Stats {
	return m.cache.Stats()
}

// RegisteredServices returns the registered names.
func (m *Monitor) RegisteredServices() []string {
	return m.registry.Names()
}
