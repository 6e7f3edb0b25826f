package health

import "time"

// ProcessInfo supplies process-level metadata for snapshots.
type ProcessInfo interface {
	Uptime() time.Duration
	Version() string
	Environment() string
}

// Default process labels.
const (
	DefaultVersion     = "1.0.0"
	DefaultEnvironment = "development"
)

type processInfo struct {
	started     time.Time
	version     string
	environment string
	now         func() time.Time
}

// NewProcessInfo returns a ProcessInfo whose uptime counts from now.
// Empty labels fall back to DefaultVersion and DefaultEnvironment.
func NewProcessInfo(version, environment string) ProcessInfo {
	return newProcessInfo(version, environment, time.Now)
}

func newProcessInfo(version, environment string, now func() time.Time) *processInfo {
	if version == "" {
		version = DefaultVersion
	}
	if environment == "" {
		environment = DefaultEnvironment
	}
	return &processInfo{
		started:     now(),
		version:     version,
		environment: environment,
		now:         now,
	}
}

func (p *processInfo) Uptime() time.Duration { return p.now().Sub(p.started) }
func (p *processInfo) Version() string       { return p.version }
func (p *processInfo) Environment() string   { return p.environment }
