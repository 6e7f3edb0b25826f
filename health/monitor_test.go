package health

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/svchealth/observe"
)

func TestMonitor_UnregisterPurgesCache(t *testing.T) {
	m := newTestMonitor(newFakeClock())
	_ = m.RegisterService("drive", &fakeService{configured: true, healthy: true})
	m.CheckServiceHealth(context.Background(), "drive")

	m.UnregisterService("drive")

	if _, ok := m.cache.Get("drive"); ok {
		t.Error("cache entry survived unregister")
	}
	r := m.CheckServiceHealth(context.Background(), "drive")
	if r.Error != NotRegisteredMessage {
		t.Errorf("Error = %q, want %q", r.Error, NotRegisteredMessage)
	}
	m.UnregisterService("drive")
}

func TestMonitor_ReregisterKeepsCachedResult(t *testing.T) {
	m := newTestMonitor(newFakeClock())
	_ = m.RegisterService("chat", &fakeService{configured: true, healthy: true})
	first := m.CheckServiceHealth(context.Background(), "chat")

	replacement := &fakeService{configured: false}
	_ = m.RegisterService("chat", replacement)
	second := m.CheckServiceHealth(context.Background(), "chat")

	if second.Status != first.Status || !second.CheckedAt.Equal(first.CheckedAt) {
		t.Errorf("re-register invalidated cache: %+v", second)
	}
	if replacement.calls.Load() != 0 {
		t.Error("replacement probed while cached result was fresh")
	}
}

func TestMonitor_ClearCacheForcesReprobe(t *testing.T) {
	m := newTestMonitor(newFakeClock())
	svc := &fakeService{configured: true, healthy: true}
	_ = m.RegisterService("chat", svc)

	m.CheckServiceHealth(context.Background(), "chat")
	m.ClearCache()
	m.CheckServiceHealth(context.Background(), "chat")

	if got := svc.calls.Load(); got != 2 {
		t.Errorf("capability calls = %d, want 2", got)
	}
}

func TestMonitor_SetCacheTimeout(t *testing.T) {
	clock := newFakeClock()
	m := newTestMonitor(clock)
	svc := &fakeService{configured: true, healthy: true}
	_ = m.RegisterService("chat", svc)
	m.CheckServiceHealth(context.Background(), "chat")

	if err := m.SetCacheTimeout(0); !errors.Is(err, ErrInvalidTTL) {
		t.Errorf("SetCacheTimeout(0) = %v, want ErrInvalidTTL", err)
	}
	if err := m.SetCacheTimeout(time.Second); err != nil {
		t.Fatalf("SetCacheTimeout: %v", err)
	}
	if m.CacheTimeout() != time.Second {
		t.Errorf("CacheTimeout() = %v, want 1s", m.CacheTimeout())
	}

	clock.Advance(time.Second)
	m.CheckServiceHealth(context.Background(), "chat")
	if got := svc.calls.Load(); got != 2 {
		t.Errorf("capability calls = %d, want 2", got)
	}
}

func TestMonitor_PerformanceMetrics(t *testing.T) {
	m := newTestMonitor(newFakeClock())
	if pm := m.GetPerformanceMetrics(context.Background()); pm != (PerformanceMetrics{}) {
		t.Errorf("metrics on empty registry = %+v, want zero", pm)
	}

	_ = m.RegisterService("chat", &fakeService{configured: true, healthy: true})
	_ = m.RegisterService("pdf", &fakeService{err: errors.New("down")})

	pm := m.GetPerformanceMetrics(context.Background())
	if !pm.HasLatencies {
		t.Error("HasLatencies = false, want true")
	}
	if pm.ServicesWithErrors != 1 {
		t.Errorf("ServicesWithErrors = %d, want 1", pm.ServicesWithErrors)
	}
	// The fake clock does not move during a probe, so every latency is zero.
	if pm.SlowestService != "chat" || pm.FastestService != "chat" {
		t.Errorf("slowest/fastest = %s/%s, want chat/chat", pm.SlowestService, pm.FastestService)
	}
}

func TestMonitor_RegisterAll(t *testing.T) {
	m := newTestMonitor(newFakeClock())

	err := m.RegisterAll(
		Binding{Name: "chat", Service: Static(true, true)},
		Binding{Name: "", Service: Static(true, true)},
		Binding{Name: "pdf", Service: Static(true, true)},
	)
	if !errors.Is(err, ErrInvalidServiceName) {
		t.Errorf("RegisterAll() = %v, want ErrInvalidServiceName", err)
	}
	if got := m.RegisteredServices(); len(got) != 2 {
		t.Errorf("RegisteredServices() = %v, want [chat pdf]", got)
	}

	m.CheckAllServices(context.Background())
	m.UnregisterAll()
	if got := m.RegisteredServices(); len(got) != 0 {
		t.Errorf("RegisteredServices() after UnregisterAll = %v", got)
	}
	if m.CacheStats().Entries != 0 {
		t.Errorf("cache entries = %d, want 0", m.CacheStats().Entries)
	}
}

func TestMonitor_LogsLifecycle(t *testing.T) {
	var buf bytes.Buffer
	mw := observe.NewMiddleware(nil, nil, observe.NewLoggerWithWriter("info", &buf))
	m := NewMonitor(MonitorConfig{Middleware: mw})

	_ = m.RegisterService("chat", Static(true, true))
	m.UnregisterService("chat")
	m.ClearCache()

	out := buf.String()
	for _, want := range []string{"service registered", "service unregistered", "health cache cleared"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q: %s", want, out)
		}
	}
}
