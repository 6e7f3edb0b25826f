package notify

import (
	"context"

	"github.com/jonwraymond/svchealth/resilience"
)

// GuardedPublisher routes Publish through a circuit breaker so a failing sink
// is skipped until it recovers. The breaker can be registered as a health
// subsystem with health.NewBreakerService.
type GuardedPublisher struct {
	next    Publisher
	breaker *resilience.CircuitBreaker
}

// WithBreaker guards next with cb.
func WithBreaker(next Publisher, cb *resilience.CircuitBreaker) *GuardedPublisher {
	return &GuardedPublisher{next: next, breaker: cb}
}

// Breaker returns the guarding circuit breaker.
func (g *GuardedPublisher) Breaker() *resilience.CircuitBreaker { return g.breaker }

// Publish implements Publisher. Rejections wrap resilience.ErrCircuitOpen.
func (g *GuardedPublisher) Publish(ctx context.Context, t Transition) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.next.Publish(ctx, t)
	})
}

// Close implements Publisher.
func (g *GuardedPublisher) Close() error { return g.next.Close() }

var _ Publisher = (*GuardedPublisher)(nil)
