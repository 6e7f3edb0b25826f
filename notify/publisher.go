package notify

import (
	"context"
	"errors"

	"github.com/jonwraymond/svchealth/observe"
)

// Publisher delivers transitions.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Publish returns delivery failures; callers decide whether to retry.
type Publisher interface {
	Publish(ctx context.Context, t Transition) error
	Close() error
}

// LogPublisher writes transitions to a logger. Degradations are logged at
// warn level, recoveries at info.
type LogPublisher struct {
	logger observe.Logger
}

// NewLogPublisher creates a LogPublisher. A nil logger discards output.
func NewLogPublisher(logger observe.Logger) *LogPublisher {
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &LogPublisher{logger: logger}
}

// Publish implements Publisher.
func (p *LogPublisher) Publish(ctx context.Context, t Transition) error {
	fields := []observe.Field{
		{Key: "transition_id", Value: t.ID},
		{Key: "snapshot_id", Value: t.SnapshotID},
		{Key: "previous", Value: t.Previous.String()},
		{Key: "current", Value: t.Current.String()},
		{Key: "healthy_services", Value: t.HealthyServices},
		{Key: "total_services", Value: t.TotalServices},
	}
	if len(t.Issues) > 0 {
		fields = append(fields, observe.Field{Key: "issues", Value: t.Issues})
	}
	if t.Recovered() {
		p.logger.Info(ctx, "overall health recovered", fields...)
	} else {
		p.logger.Warn(ctx, "overall health changed", fields...)
	}
	return nil
}

// Close implements Publisher.
func (p *LogPublisher) Close() error { return nil }

// Multi fans a transition out to every publisher and joins their errors.
type Multi []Publisher

// Publish implements Publisher.
func (m Multi) Publish(ctx context.Context, t Transition) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close implements Publisher.
func (m Multi) Close() error {
	var errs []error
	for _, p := range m {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ Publisher = (*LogPublisher)(nil)
	_ Publisher = Multi(nil)
)
