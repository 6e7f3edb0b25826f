package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var errUpstream = errors.New("upstream unavailable")

func failN(t *testing.T, cb *CircuitBreaker, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_ = cb.Execute(context.Background(), func(ctx context.Context) error {
			return errUpstream
		})
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultReadyToTrip(t *testing.T) {
	tests := []struct {
		name   string
		counts Counts
		want   bool
	}{
		{"too few requests", Counts{Requests: 4, TotalFailures: 4}, false},
		{"half failing", Counts{Requests: 10, TotalFailures: 5}, true},
		{"mostly passing", Counts{Requests: 10, TotalFailures: 2}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultReadyToTrip(tt.counts); got != tt.want {
				t.Errorf("DefaultReadyToTrip(%+v) = %v, want %v", tt.counts, got, tt.want)
			}
		})
	}
}

func TestCircuitBreaker_StartsClosed(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig("pdf"))

	if cb.State() != StateClosed {
		t.Errorf("State() = %v, want closed", cb.State())
	}
	if cb.Name() != "pdf" {
		t.Errorf("Name() = %v, want pdf", cb.Name())
	}
}

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:         "mistral",
		ResetTimeout: time.Minute,
		ReadyToTrip: func(c Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
	})

	failN(t, cb, 3)

	if cb.State() != StateOpen {
		t.Fatalf("State() = %v, want open", cb.State())
	}

	called := false
	err := cb.Execute(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Execute() error = %v, want ErrCircuitOpen", err)
	}
	if called {
		t.Error("open breaker must not call the operation")
	}
}

func TestCircuitBreaker_HalfOpenRecovers(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:         "drive",
		ResetTimeout: 20 * time.Millisecond,
		ReadyToTrip: func(c Counts) bool {
			return c.ConsecutiveFailures >= 1
		},
	})

	failN(t, cb, 1)
	time.Sleep(40 * time.Millisecond)

	if cb.State() != StateHalfOpen {
		t.Fatalf("State() = %v, want half-open", cb.State())
	}

	if err := cb.Execute(context.Background(), func(ctx context.Context) error { return nil }); err != nil {
		t.Fatalf("trial call error = %v", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("State() = %v, want closed after successful trial", cb.State())
	}
}

func TestCircuitBreaker_PassesErrorsThrough(t *testing.T) {
	cb := NewCircuitBreaker(DefaultCircuitBreakerConfig("calendar"))

	err := cb.Execute(context.Background(), func(ctx context.Context) error {
		return errUpstream
	})
	if err != errUpstream {
		t.Errorf("Execute() error = %v, want %v", err, errUpstream)
	}

	counts := cb.Counts()
	if counts.Requests != 1 || counts.TotalFailures != 1 {
		t.Errorf("Counts() = %+v, want 1 request, 1 failure", counts)
	}
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	var mu sync.Mutex
	var transitions []State

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name: "chat",
		ReadyToTrip: func(c Counts) bool {
			return c.ConsecutiveFailures >= 2
		},
		OnStateChange: func(name string, from, to State) {
			mu.Lock()
			transitions = append(transitions, to)
			mu.Unlock()
		},
	})

	failN(t, cb, 2)

	mu.Lock()
	defer mu.Unlock()
	if len(transitions) != 1 || transitions[0] != StateOpen {
		t.Errorf("transitions = %v, want [open]", transitions)
	}
}
