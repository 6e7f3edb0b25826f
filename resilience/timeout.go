package resilience

import (
	"context"
	"errors"
	"time"
)

// DefaultTimeout is applied when TimeoutConfig.Timeout is unset.
const DefaultTimeout = 5 * time.Second

// TimeoutConfig configures the timeout wrapper.
type TimeoutConfig struct {
	// Timeout is the maximum duration for the operation.
	// Default: 5 seconds
	Timeout time.Duration
}

// Timeout wraps operations with a deadline.
type Timeout struct {
	config TimeoutConfig
}

// NewTimeout creates a new timeout wrapper.
func NewTimeout(config TimeoutConfig) *Timeout {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	return &Timeout{config: config}
}

// Config returns the timeout configuration.
func (t *Timeout) Config() TimeoutConfig {
	return t.config
}

// Execute runs op with the configured deadline.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	_, err := Run(ctx, t, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

type outcome[T any] struct {
	value T
	err   error
}

// Run executes op with the deadline of t and returns its value.
//
// op runs on its own goroutine. When the deadline passes first, Run returns
// ErrTimeout immediately and the late result of op is discarded.
func Run[T any](ctx context.Context, t *Timeout, op func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan outcome[T], 1)
	go func() {
		v, err := op(ctx)
		done <- outcome[T]{value: v, err: err}
	}()

	select {
	case out := <-done:
		if out.err != nil && errors.Is(out.err, context.DeadlineExceeded) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return out.value, ErrTimeout
		}
		return out.value, out.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	}
}

// ExecuteWithTimeout runs op with a one-off deadline.
func ExecuteWithTimeout(ctx context.Context, timeout time.Duration, op func(context.Context) error) error {
	return NewTimeout(TimeoutConfig{Timeout: timeout}).Execute(ctx, op)
}
