package health

import (
	"context"

	"github.com/jonwraymond/svchealth/resilience"
)

// BreakerService reports on an upstream dependency through the circuit
// breaker that guards it. It is healthy while the circuit is not open.
type BreakerService struct {
	breaker *resilience.CircuitBreaker
}

// NewBreakerService wraps cb.
func NewBreakerService(cb *resilience.CircuitBreaker) *BreakerService {
	return &BreakerService{breaker: cb}
}

// Kind implements Kinder.
func (s *BreakerService) Kind() string { return "breaker" }

// IsConfigured reports whether a breaker is attached.
func (s *BreakerService) IsConfigured(context.Context) (bool, error) {
	return s.breaker != nil, nil
}

// IsHealthy reports whether the circuit is closed or half-open.
func (s *BreakerService) IsHealthy(context.Context) (bool, error) {
	if s.breaker == nil {
		return false, nil
	}
	return s.breaker.State() != resilience.StateOpen, nil
}

// Capabilities implements CapabilitiesDescriber.
func (s *BreakerService) Capabilities() map[string]any {
	if s.breaker == nil {
		return nil
	}
	c := s.breaker.Counts()
	return map[string]any{
		"breaker":               s.breaker.Name(),
		"state":                 s.breaker.State().String(),
		"requests":              c.Requests,
		"consecutive_failures":  c.ConsecutiveFailures,
		"consecutive_successes": c.ConsecutiveSuccesses,
	}
}
