package schedule

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonwraymond/svchealth/health"
	"github.com/jonwraymond/svchealth/notify"
	"github.com/jonwraymond/svchealth/observe"
)

// DefaultInterval is the refresh period when no cron expression is set.
const DefaultInterval = 30 * time.Second

// Snapshotter produces a full health snapshot. *health.Monitor implements it.
type Snapshotter interface {
	CheckAllServices(ctx context.Context) health.Snapshot
}

// Config controls background refresh behavior.
type Config struct {
	// Monitor is checked on every run. Required.
	Monitor Snapshotter

	// Cron is a UTC cron expression. When set it takes precedence over Interval.
	Cron string

	// Interval is the fixed refresh period, rounded to whole seconds.
	// Default: 30 seconds
	Interval time.Duration

	// Publisher receives overall status transitions. Optional.
	Publisher notify.Publisher

	// Logger records refresh outcomes. Default: observe.NopLogger()
	Logger observe.Logger

	// Now returns the current time. Default: time.Now in UTC
	Now func() time.Time
}

// Refresher periodically checks every service and reports transitions.
type Refresher struct {
	monitor   Snapshotter
	schedule  cron.Schedule
	publisher notify.Publisher
	logger    observe.Logger
	now       func() time.Time

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	last    health.Status
	hasLast bool
}

// NewRefresher creates a refresher.
func NewRefresher(cfg Config) (*Refresher, error) {
	if cfg.Monitor == nil {
		return nil, errors.New("schedule: monitor is nil")
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}

	var sched cron.Schedule
	if cfg.Cron != "" {
		s, err := ParseCron(cfg.Cron)
		if err != nil {
			return nil, err
		}
		sched = s
	} else {
		if cfg.Interval < 0 {
			return nil, fmt.Errorf("%w: interval must be positive", ErrInvalidSchedule)
		}
		if cfg.Interval == 0 {
			cfg.Interval = DefaultInterval
		}
		sched = cron.Every(cfg.Interval)
	}

	return &Refresher{
		monitor:   cfg.Monitor,
		schedule:  sched,
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}, nil
}

// Next returns the next activation after t.
func (r *Refresher) Next(t time.Time) time.Time {
	return r.schedule.Next(t.UTC())
}

// Start runs a refresh immediately and then on every activation until Stop.
// Calling Start on a running refresher is a no-op.
func (r *Refresher) Start(context.Context) error {
	r.mu.Lock()
	if r.cancel != nil {
		r.mu.Unlock()
		return nil
	}
	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.mu.Unlock()

	go func() {
		defer close(done)
		_, _ = r.RunOnce(loopCtx)

		for {
			wait := r.Next(r.now()).Sub(r.now())
			timer := time.NewTimer(wait)
			select {
			case <-loopCtx.Done():
				timer.Stop()
				return
			case <-timer.C:
				_, _ = r.RunOnce(loopCtx)
			}
		}
	}()

	return nil
}

// Stop terminates the loop and waits for an in-flight run or ctx.
func (r *Refresher) Stop(ctx context.Context) error {
	r.mu.Lock()
	cancel := r.cancel
	done := r.done
	r.cancel = nil
	r.done = nil
	r.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce checks every service and publishes a transition when the overall
// status differs from the previous run. The first run never publishes.
func (r *Refresher) RunOnce(ctx context.Context) (health.Snapshot, error) {
	snap := r.monitor.CheckAllServices(ctx)

	r.mu.Lock()
	prev, hadPrev := r.last, r.hasLast
	r.last, r.hasLast = snap.Overall, true
	r.mu.Unlock()

	r.logger.Debug(ctx, "health refresh completed",
		observe.Field{Key: "snapshot_id", Value: snap.ID},
		observe.Field{Key: "overall", Value: snap.Overall.String()},
		observe.Field{Key: "services", Value: len(snap.Services)},
	)

	if !hadPrev || prev == snap.Overall || r.publisher == nil {
		return snap, nil
	}

	if err := r.publisher.Publish(ctx, notify.NewTransition(prev, snap)); err != nil {
		r.logger.Error(ctx, "publishing health transition failed",
			observe.Field{Key: "error", Value: err.Error()},
			observe.Field{Key: "snapshot_id", Value: snap.ID},
		)
		return snap, fmt.Errorf("publish transition: %w", err)
	}
	return snap, nil
}

// LastStatus returns the overall status of the most recent run.
func (r *Refresher) LastStatus() (health.Status, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last, r.hasLast
}
