package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewTimeout(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{})

	if timeout.Config().Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", timeout.Config().Timeout, DefaultTimeout)
	}
}

func TestTimeout_ExecuteSuccess(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: time.Second})

	executed := false
	err := timeout.Execute(context.Background(), func(ctx context.Context) error {
		executed = true
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if !executed {
		t.Error("Operation was not executed")
	}
}

func TestTimeout_ExecuteError(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: time.Second})

	testErr := errors.New("credentials rejected")
	err := timeout.Execute(context.Background(), func(ctx context.Context) error {
		return testErr
	})

	if err != testErr {
		t.Errorf("Execute() error = %v, want %v", err, testErr)
	}
}

func TestTimeout_ExecuteTimeout(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: 10 * time.Millisecond})

	err := timeout.Execute(context.Background(), func(ctx context.Context) error {
		time.Sleep(100 * time.Millisecond)
		return nil
	})

	if err != ErrTimeout {
		t.Errorf("Execute() error = %v, want ErrTimeout", err)
	}
}

func TestTimeout_ParentCancelled(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := timeout.Execute(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestRun_ReturnsValue(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: time.Second})

	got, err := Run(context.Background(), timeout, func(ctx context.Context) (bool, error) {
		return true, nil
	})

	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !got {
		t.Error("Run() = false, want true")
	}
}

func TestRun_TimeoutReturnsZero(t *testing.T) {
	timeout := NewTimeout(TimeoutConfig{Timeout: 10 * time.Millisecond})

	got, err := Run(context.Background(), timeout, func(ctx context.Context) (bool, error) {
		time.Sleep(100 * time.Millisecond)
		return true, nil
	})

	if err != ErrTimeout {
		t.Errorf("Run() error = %v, want ErrTimeout", err)
	}
	if got {
		t.Error("Run() should return the zero value on timeout")
	}
}

func TestExecuteWithTimeout(t *testing.T) {
	err := ExecuteWithTimeout(context.Background(), 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	if err != ErrTimeout {
		t.Errorf("ExecuteWithTimeout() error = %v, want ErrTimeout", err)
	}
}
