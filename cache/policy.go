package cache

import "time"

// DefaultTTL is the validity window used when none is configured.
const DefaultTTL = 30 * time.Second

// Policy configures TTL bounds for a store.
type Policy struct {
	// TTL is the initial validity window.
	// Default: 30 seconds
	TTL time.Duration

	// MaxTTL is the largest TTL SetTTL accepts.
	// If zero, no maximum is enforced.
	MaxTTL time.Duration
}

// DefaultPolicy returns a 30 second TTL with no maximum.
func DefaultPolicy() Policy {
	return Policy{TTL: DefaultTTL}
}

// Validate reports whether ttl is acceptable under this policy.
func (p Policy) Validate(ttl time.Duration) error {
	if ttl <= 0 {
		return ErrInvalidTTL
	}
	if p.MaxTTL > 0 && ttl > p.MaxTTL {
		return ErrTTLTooLong
	}
	return nil
}

// withDefaults fills unset fields.
func (p Policy) withDefaults() Policy {
	if p.TTL <= 0 {
		p.TTL = DefaultTTL
	}
	if p.MaxTTL > 0 && p.TTL > p.MaxTTL {
		p.TTL = p.MaxTTL
	}
	return p
}
