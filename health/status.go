package health

import "fmt"

// Status represents the health status of a subsystem or of the whole system.
type Status int

const (
	// StatusHealthy indicates the subsystem is configured and working.
	StatusHealthy Status = iota
	// StatusDegraded indicates the subsystem is configured but reports itself unhealthy.
	StatusDegraded
	// StatusUnhealthy indicates the subsystem is unconfigured, failing or unknown.
	StatusUnhealthy
)

// String returns the string representation of the status.
func (s Status) String() string {
	switch s {
	case StatusHealthy:
		return "healthy"
	case StatusDegraded:
		return "degraded"
	case StatusUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "healthy":
		*s = StatusHealthy
	case "degraded":
		*s = StatusDegraded
	case "unhealthy":
		*s = StatusUnhealthy
	default:
		return fmt.Errorf("health: unknown status %q", string(b))
	}
	return nil
}

// DeriveStatus maps the outcome of the two capability calls to a Status.
// A non-nil err always yields StatusUnhealthy.
func DeriveStatus(configured, healthy bool, err error) Status {
	switch {
	case err != nil:
		return StatusUnhealthy
	case !configured:
		return StatusUnhealthy
	case !healthy:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}
