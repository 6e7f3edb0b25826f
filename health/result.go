package health

import (
	"encoding/json"
	"time"
)

// Metadata keys attached by the prober.
const (
	MetadataConfiguration = "configuration"
	MetadataCapabilities  = "capabilities"
	MetadataError         = "metadata_error"
)

// Result is the outcome of one probe. Results are values; Metadata must be
// treated as read-only because cached results are shared between callers.
type Result struct {
	// Service is the registry name that was probed.
	Service string

	// Status is the derived health status.
	Status Status

	// Configured reports the subsystem's IsConfigured answer. It is false
	// whenever the probe failed.
	Configured bool

	// CheckedAt is when the probe completed.
	CheckedAt time.Time

	// Latency is the time spent in capability calls. Only meaningful when
	// HasLatency is true.
	Latency    time.Duration
	HasLatency bool

	// Error is set only when the probe failed.
	Error string

	// Metadata holds opaque descriptive data.
	Metadata map[string]any
}

// LatencyMicros returns Latency in whole microseconds.
func (r Result) LatencyMicros() int64 {
	return r.Latency.Microseconds()
}

// Failed reports whether the probe failed.
func (r Result) Failed() bool {
	return r.Error != ""
}

type resultJSON struct {
	Service      string         `json:"service"`
	Status       Status         `json:"status"`
	Configured   bool           `json:"configured"`
	LastCheck    time.Time      `json:"lastCheck"`
	ResponseTime *int64         `json:"responseTimeMicros,omitempty"`
	Error        string         `json:"error,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// MarshalJSON encodes the result with latency in microseconds.
func (r Result) MarshalJSON() ([]byte, error) {
	out := resultJSON{
		Service:    r.Service,
		Status:     r.Status,
		Configured: r.Configured,
		LastCheck:  r.CheckedAt,
		Error:      r.Error,
		Metadata:   r.Metadata,
	}
	if r.HasLatency {
		us := r.LatencyMicros()
		out.ResponseTime = &us
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a result produced by MarshalJSON.
func (r *Result) UnmarshalJSON(b []byte) error {
	var in resultJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	*r = Result{
		Service:    in.Service,
		Status:     in.Status,
		Configured: in.Configured,
		CheckedAt:  in.LastCheck,
		Error:      in.Error,
		Metadata:   in.Metadata,
	}
	if in.ResponseTime != nil {
		r.Latency = time.Duration(*in.ResponseTime) * time.Microsecond
		r.HasLatency = true
	}
	return nil
}

func notRegistered(name string, now time.Time) Result {
	return Result{
		Service:    name,
		Status:     StatusUnhealthy,
		Configured: false,
		CheckedAt:  now,
		Error:      NotRegisteredMessage,
	}
}
