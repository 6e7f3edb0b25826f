package health

import (
	"fmt"
	"time"

	"github.com/jonwraymond/svchealth/cache"
)

// DefaultCacheTTL is how long a probe result stays fresh.
const DefaultCacheTTL = cache.DefaultTTL

// Cache holds the latest Result per service name for a bounded time.
// Entries are valid while now - insertedAt < TTL; expiry is checked on read.
type Cache struct {
	store *cache.Memory[Result]
}

// NewCache creates a result cache. A non-positive ttl selects DefaultCacheTTL.
func NewCache(ttl time.Duration, opts ...cache.Option) *Cache {
	return &Cache{
		store: cache.NewMemory[Result](cache.Policy{TTL: ttl}, opts...),
	}
}

// Get returns the cached result for name if it has not expired.
func (c *Cache) Get(name string) (Result, bool) {
	return c.store.Get(name)
}

// Put stores r under name, stamped with the current time.
func (c *Cache) Put(name string, r Result) {
	c.store.Set(name, r)
}

// Evict removes the entry for name.
func (c *Cache) Evict(name string) {
	c.store.Delete(name)
}

// Clear removes every entry.
func (c *Cache) Clear() {
	c.store.Clear()
}

// SetTTL changes the freshness window for all entries, including those
// already stored.
func (c *Cache) SetTTL(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTTL, d)
	}
	return c.store.SetTTL(d)
}

// TTL returns the current freshness window.
func (c *Cache) TTL() time.Duration {
	return c.store.TTL()
}

// Stats returns lookup counters.
func (c *Cache) Stats() cache.Stats {
	return c.store.Stats()
}
