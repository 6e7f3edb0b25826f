package cache

import (
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
	ErrInvalidTTL = errors.New("cache: ttl must be positive")
	ErrTTLTooLong = errors.New("cache: ttl exceeds policy maximum")
)

// Store is a keyed TTL store.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: Get never errors; it returns (zero, false) on miss or expiry.
// - Expiry: validity is evaluated at read time against the current TTL.
type Store[V any] interface {
	// Get returns the value if present and not expired.
	Get(key string) (V, bool)

	// Set stores value under key, stamped with the current time.
	Set(key string, value V)

	// Delete removes key. Idempotent.
	Delete(key string)

	// Clear removes every entry.
	Clear()

	// SetTTL changes the validity window for subsequent reads.
	SetTTL(ttl time.Duration) error

	// TTL returns the current validity window.
	TTL() time.Duration
}

// ValidateKey checks if a key is usable as a cache key.
func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}
