package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker/v2"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means calls flow normally.
	StateClosed State = iota
	// StateOpen means calls are rejected.
	StateOpen
	// StateHalfOpen means a limited number of trial calls are allowed.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

func fromGobreaker(s gobreaker.State) State {
	switch s {
	case gobreaker.StateOpen:
		return StateOpen
	case gobreaker.StateHalfOpen:
		return StateHalfOpen
	default:
		return StateClosed
	}
}

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// Name identifies the breaker, usually the upstream service name.
	Name string

	// MaxRequests is the number of trial calls allowed while half-open.
	// Default: 1
	MaxRequests uint32

	// Interval clears counts periodically while closed. Zero never clears.
	Interval time.Duration

	// ResetTimeout is how long the breaker stays open before half-opening.
	// Default: 30 seconds
	ResetTimeout time.Duration

	// ReadyToTrip decides when to open. Default: DefaultReadyToTrip.
	ReadyToTrip func(counts Counts) bool

	// OnStateChange is called on every transition.
	OnStateChange func(name string, from, to State)
}

// DefaultCircuitBreakerConfig returns the configuration used for upstream clients.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		ResetTimeout: 30 * time.Second,
		ReadyToTrip:  DefaultReadyToTrip,
	}
}

// DefaultReadyToTrip opens after at least 5 calls with a failure ratio of 50% or more.
func DefaultReadyToTrip(counts Counts) bool {
	if counts.Requests < 5 {
		return false
	}
	return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
}

// Counts holds call statistics for the current breaker generation.
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

func countsFrom(c gobreaker.Counts) Counts {
	return Counts{
		Requests:             c.Requests,
		TotalSuccesses:       c.TotalSuccesses,
		TotalFailures:        c.TotalFailures,
		ConsecutiveSuccesses: c.ConsecutiveSuccesses,
		ConsecutiveFailures:  c.ConsecutiveFailures,
	}
}

// CircuitBreaker guards calls to an upstream dependency.
type CircuitBreaker struct {
	name string
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.MaxRequests == 0 {
		config.MaxRequests = 1
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.ReadyToTrip == nil {
		config.ReadyToTrip = DefaultReadyToTrip
	}

	settings := gobreaker.Settings{
		Name:        config.Name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.ResetTimeout,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return config.ReadyToTrip(countsFrom(c))
		},
	}
	if config.OnStateChange != nil {
		onChange := config.OnStateChange
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			onChange(name, fromGobreaker(from), fromGobreaker(to))
		}
	}

	return &CircuitBreaker{
		name: config.Name,
		cb:   gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Name returns the breaker name.
func (c *CircuitBreaker) Name() string {
	return c.name
}

// Execute runs op unless the breaker is open.
// Rejections are reported as ErrCircuitOpen.
func (c *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	_, err := c.cb.Execute(func() (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %s", ErrCircuitOpen, c.name)
	}
	return err
}

// State returns the current breaker state.
func (c *CircuitBreaker) State() State {
	return fromGobreaker(c.cb.State())
}

// Counts returns statistics for the current generation.
func (c *CircuitBreaker) Counts() Counts {
	return countsFrom(c.cb.Counts())
}
