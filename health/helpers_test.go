package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeService is a configurable Service that counts capability calls.
type fakeService struct {
	configured bool
	healthy    bool
	err        error
	panicWith  any
	block      chan struct{}
	calls      atomic.Int32
}

func (f *fakeService) IsConfigured(ctx context.Context) (bool, error) {
	f.calls.Add(1)
	if f.block != nil {
		<-f.block
	}
	if f.panicWith != nil {
		panic(f.panicWith)
	}
	if f.err != nil {
		return false, f.err
	}
	return f.configured, nil
}

func (f *fakeService) IsHealthy(context.Context) (bool, error) {
	return f.healthy, nil
}

type describedService struct {
	fakeService
	config map[string]any
	caps   map[string]any
	panics bool
}

func (d *describedService) Configuration() map[string]any {
	if d.panics {
		panic("describe failed")
	}
	return d.config
}

func (d *describedService) Capabilities() map[string]any { return d.caps }

func newTestMonitor(clock *fakeClock) *Monitor {
	return NewMonitor(MonitorConfig{Now: clock.Now})
}
