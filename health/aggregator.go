package health

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxConcurrency caps simultaneous probes during a snapshot.
const DefaultMaxConcurrency = 16

// unhealthyMajority is the fraction of unhealthy services above which the
// whole system is unhealthy.
const unhealthyMajority = 0.5

// Snapshot is the state of every registered service at one point in time.
type Snapshot struct {
	ID          string        `json:"id"`
	Overall     Status        `json:"overall"`
	Services    []Result      `json:"services"`
	Timestamp   time.Time     `json:"timestamp"`
	Uptime      time.Duration `json:"-"`
	Version     string        `json:"version"`
	Environment string        `json:"environment"`
}

// UptimeSeconds returns Uptime in seconds.
func (s Snapshot) UptimeSeconds() float64 {
	return s.Uptime.Seconds()
}

// MarshalJSON encodes Uptime as fractional seconds under "uptime".
func (s Snapshot) MarshalJSON() ([]byte, error) {
	type alias Snapshot
	return json.Marshal(struct {
		alias
		Uptime float64 `json:"uptime"`
	}{alias(s), s.UptimeSeconds()})
}

// Summary is a compact view of a snapshot.
type Summary struct {
	Status          Status   `json:"status"`
	HealthyServices int      `json:"healthyServices"`
	TotalServices   int      `json:"totalServices"`
	CriticalIssues  []string `json:"criticalIssues"`
}

// AggregatorConfig configures the aggregator.
type AggregatorConfig struct {
	// MaxConcurrency caps simultaneous probes.
	// Default: 16
	MaxConcurrency int

	// Process supplies uptime, version and environment.
	// Default: NewProcessInfo("", "")
	Process ProcessInfo

	// Now stamps snapshots.
	// Default: time.Now
	Now func() time.Time
}

// Aggregator probes every registered service and combines the results.
type Aggregator struct {
	config   AggregatorConfig
	registry *Registry
	prober   *Prober

	mu   sync.RWMutex
	last *Snapshot
}

// NewAggregator creates an aggregator.
func NewAggregator(registry *Registry, prober *Prober, cfg AggregatorConfig) *Aggregator {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = DefaultMaxConcurrency
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Process == nil {
		cfg.Process = newProcessInfo("", "", cfg.Now)
	}
	return &Aggregator{
		config:   cfg,
		registry: registry,
		prober:   prober,
	}
}

// Snapshot probes all registered services concurrently. Results follow
// registration order.
func (a *Aggregator) Snapshot(ctx context.Context) Snapshot {
	results := a.probeAll(ctx, a.registry.Names())

	snap := Snapshot{
		ID:          uuid.NewString(),
		Overall:     OverallStatus(results),
		Services:    results,
		Timestamp:   a.config.Now(),
		Uptime:      a.config.Process.Uptime(),
		Version:     a.config.Process.Version(),
		Environment: a.config.Process.Environment(),
	}

	a.mu.Lock()
	a.last = &snap
	a.mu.Unlock()

	return snap
}

// Last returns the most recent snapshot, if any was taken.
func (a *Aggregator) Last() (Snapshot, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.last == nil {
		return Snapshot{}, false
	}
	return *a.last, true
}

// Summary takes a snapshot and summarizes it.
func (a *Aggregator) Summary(ctx context.Context) Summary {
	return Summarize(a.Snapshot(ctx))
}

// CheckCritical reports whether every named service is healthy.
// An empty list is trivially satisfied.
func (a *Aggregator) CheckCritical(ctx context.Context, names []string) bool {
	for _, r := range a.probeAll(ctx, names) {
		if r.Status != StatusHealthy {
			return false
		}
	}
	return true
}

func (a *Aggregator) probeAll(ctx context.Context, names []string) []Result {
	results := make([]Result, len(names))
	if len(names) == 0 {
		return results
	}

	var g errgroup.Group
	g.SetLimit(a.config.MaxConcurrency)
	for i, name := range names {
		g.Go(func() error {
			results[i] = a.prober.Probe(ctx, name)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// OverallStatus combines per-service results:
// no services is unhealthy; more than half unhealthy is unhealthy; any
// unhealthy or degraded service is degraded; otherwise healthy.
func OverallStatus(results []Result) Status {
	if len(results) == 0 {
		return StatusUnhealthy
	}

	var unhealthy, degraded int
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			unhealthy++
		case StatusDegraded:
			degraded++
		}
	}

	switch {
	case float64(unhealthy) > float64(len(results))*unhealthyMajority:
		return StatusUnhealthy
	case unhealthy > 0 || degraded > 0:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}

// Summarize counts healthy services and lists an issue per unhealthy one.
func Summarize(s Snapshot) Summary {
	sum := Summary{
		Status:         s.Overall,
		TotalServices:  len(s.Services),
		CriticalIssues: []string{},
	}
	for _, r := range s.Services {
		switch r.Status {
		case StatusHealthy:
			sum.HealthyServices++
		case StatusUnhealthy:
			msg := r.Error
			if msg == "" {
				msg = "Service unhealthy"
			}
			sum.CriticalIssues = append(sum.CriticalIssues, fmt.Sprintf("%s: %s", r.Service, msg))
		}
	}
	return sum
}
