package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Memory is an in-memory Store keyed by string.
type Memory[V any] struct {
	mu      sync.RWMutex
	entries map[string]entry[V]
	policy  Policy
	ttl     time.Duration
	now     func() time.Time

	hits   atomic.Int64
	misses atomic.Int64
}

type entry[V any] struct {
	value      V
	insertedAt time.Time
}

// Option configures a Memory store.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the time source used to stamp and expire entries.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// NewMemory creates an in-memory store with the given policy.
func NewMemory[V any](policy Policy, opts ...Option) *Memory[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	policy = policy.withDefaults()

	return &Memory[V]{
		entries: make(map[string]entry[V]),
		policy:  policy,
		ttl:     policy.TTL,
		now:     o.now,
	}
}

// Get returns the value under key if it was inserted less than TTL ago.
// Expired entries are removed lazily.
func (m *Memory[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	ttl := m.ttl
	m.mu.RUnlock()

	var zero V
	if !ok {
		m.misses.Add(1)
		return zero, false
	}

	if m.now().Sub(e.insertedAt) >= ttl {
		m.mu.Lock()
		// Only drop the entry we inspected; a concurrent Set may have replaced it.
		if cur, ok := m.entries[key]; ok && cur.insertedAt.Equal(e.insertedAt) {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		m.misses.Add(1)
		return zero, false
	}

	m.hits.Add(1)
	return e.value, true
}

// Set stores value under key, overwriting any previous entry.
func (m *Memory[V]) Set(key string, value V) {
	m.mu.Lock()
	m.entries[key] = entry[V]{value: value, insertedAt: m.now()}
	m.mu.Unlock()
}

// Delete removes key. Idempotent.
func (m *Memory[V]) Delete(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// Clear removes every entry.
func (m *Memory[V]) Clear() {
	m.mu.Lock()
	m.entries = make(map[string]entry[V])
	m.mu.Unlock()
}

// SetTTL changes the validity window. It applies to entries already stored.
func (m *Memory[V]) SetTTL(ttl time.Duration) error {
	if err := m.policy.Validate(ttl); err != nil {
		return err
	}
	m.mu.Lock()
	m.ttl = ttl
	m.mu.Unlock()
	return nil
}

// TTL returns the current validity window.
func (m *Memory[V]) TTL() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ttl
}

// Len returns the number of stored entries, expired or not.
func (m *Memory[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Stats returns hit and miss counters since creation.
func (m *Memory[V]) Stats() Stats {
	return Stats{
		Hits:    m.hits.Load(),
		Misses:  m.misses.Load(),
		Entries: m.Len(),
	}
}

// Stats contains store counters.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// Ensure Memory implements Store
var _ Store[int] = (*Memory[int])(nil)
