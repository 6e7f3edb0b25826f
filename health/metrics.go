package health

import "math"

// PerformanceMetrics describes probe latency across one batch of results.
type PerformanceMetrics struct {
	AverageLatencyMicros int64  `json:"averageResponseTimeMicros"`
	SlowestService       string `json:"slowestService,omitempty"`
	FastestService       string `json:"fastestService,omitempty"`
	ServicesWithErrors   int    `json:"servicesWithErrors"`
	HasLatencies         bool   `json:"hasLatencies"`
}

// CalculateMetrics computes latency statistics over results that carry a
// latency. Ties for slowest and fastest go to the first result encountered.
// When no result has a latency every field is zero.
func CalculateMetrics(results []Result) PerformanceMetrics {
	var (
		m       PerformanceMetrics
		total   int64
		count   int64
		slowest int64
		fastest int64
	)

	for _, r := range results {
		if !r.HasLatency {
			continue
		}
		us := r.LatencyMicros()
		if count == 0 || us > slowest {
			slowest = us
			m.SlowestService = r.Service
		}
		if count == 0 || us < fastest {
			fastest = us
			m.FastestService = r.Service
		}
		total += us
		count++
	}

	if count == 0 {
		return PerformanceMetrics{}
	}

	m.HasLatencies = true
	m.AverageLatencyMicros = int64(math.Round(float64(total) / float64(count)))
	for _, r := range results {
		if r.Failed() {
			m.ServicesWithErrors++
		}
	}
	return m
}
