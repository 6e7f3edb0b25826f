package health

import (
	"context"
	"runtime"
)

// RuntimeServiceConfig configures the process runtime subsystem.
type RuntimeServiceConfig struct {
	// WarningThreshold is the share of MaxAlloc reported as elevated in
	// capabilities. Value should be between 0 and 1. Default: 0.8 (80%)
	WarningThreshold float64

	// CriticalThreshold is the share of MaxAlloc above which the subsystem
	// reports itself unhealthy. Value should be between 0 and 1. Default: 0.95 (95%)
	CriticalThreshold float64

	// MaxAlloc is the maximum expected allocation in bytes.
	// If zero, the runtime's Sys figure is used.
	MaxAlloc uint64
}

// RuntimeService reports on the Go runtime of this process. It is always
// configured and healthy while heap allocation stays below the critical
// threshold.
type RuntimeService struct {
	config   RuntimeServiceConfig
	memStats func(*runtime.MemStats)
}

// NewRuntimeService creates a runtime subsystem.
func NewRuntimeService(config RuntimeServiceConfig) *RuntimeService {
	if config.WarningThreshold <= 0 || config.WarningThreshold >= 1 {
		config.WarningThreshold = 0.8
	}
	if config.CriticalThreshold <= 0 || config.CriticalThreshold >= 1 {
		config.CriticalThreshold = 0.95
	}
	if config.CriticalThreshold < config.WarningThreshold {
		config.CriticalThreshold = config.WarningThreshold + 0.1
		if config.CriticalThreshold > 1 {
			config.CriticalThreshold = 0.99
		}
	}
	return &RuntimeService{config: config, memStats: runtime.ReadMemStats}
}

// Kind implements Kinder.
func (s *RuntimeService) Kind() string { return "runtime" }

// IsConfigured always reports true.
func (s *RuntimeService) IsConfigured(context.Context) (bool, error) {
	return true, nil
}

// IsHealthy reports whether allocation is below the critical threshold.
func (s *RuntimeService) IsHealthy(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	ratio, _ := s.usage()
	return ratio < s.config.CriticalThreshold, nil
}

// Configuration implements ConfigurationDescriber.
func (s *RuntimeService) Configuration() map[string]any {
	return map[string]any{
		"warning_threshold":  s.config.WarningThreshold,
		"critical_threshold": s.config.CriticalThreshold,
		"max_alloc":          s.config.MaxAlloc,
	}
}

// Capabilities implements CapabilitiesDescriber with a memory snapshot.
func (s *RuntimeService) Capabilities() map[string]any {
	ratio, stats := s.usage()
	return map[string]any{
		"alloc_bytes":   stats.Alloc,
		"heap_in_use":   stats.HeapInuse,
		"heap_objects":  stats.HeapObjects,
		"num_gc":        stats.NumGC,
		"goroutines":    runtime.NumGoroutine(),
		"usage_percent": ratio * 100,
		"elevated":      ratio >= s.config.WarningThreshold,
	}
}

func (s *RuntimeService) usage() (float64, runtime.MemStats) {
	var stats runtime.MemStats
	s.memStats(&stats)

	maxAlloc := s.config.MaxAlloc
	if maxAlloc == 0 {
		maxAlloc = stats.Sys
	}
	if maxAlloc == 0 {
		return 0, stats
	}
	return float64(stats.Alloc) / float64(maxAlloc), stats
}
