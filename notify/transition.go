package notify

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/svchealth/health"
)

// EventType is the Pub/Sub attribute value identifying transition messages.
const EventType = "health.transition"

// Transition records a change of overall status between two snapshots.
type Transition struct {
	ID              string        `json:"id"`
	SnapshotID      string        `json:"snapshotId"`
	Previous        health.Status `json:"previous"`
	Current         health.Status `json:"current"`
	HealthyServices int           `json:"healthyServices"`
	TotalServices   int           `json:"totalServices"`
	Issues          []string      `json:"issues,omitempty"`
	Timestamp       time.Time     `json:"timestamp"`
}

// NewTransition builds the transition from previous to the status of snap.
func NewTransition(previous health.Status, snap health.Snapshot) Transition {
	summary := health.Summarize(snap)
	return Transition{
		ID:              uuid.NewString(),
		SnapshotID:      snap.ID,
		Previous:        previous,
		Current:         snap.Overall,
		HealthyServices: summary.HealthyServices,
		TotalServices:   summary.TotalServices,
		Issues:          summary.CriticalIssues,
		Timestamp:       snap.Timestamp,
	}
}

// Recovered reports whether the system returned to healthy.
func (t Transition) Recovered() bool {
	return t.Current == health.StatusHealthy && t.Previous != health.StatusHealthy
}
