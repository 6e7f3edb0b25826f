// Package resilience provides the guards placed around calls into monitored
// subsystems.
//
//   - Timeout: bounds a capability call so one stalled subsystem cannot hold a
//     probe forever. A deadline becomes ErrTimeout.
//
//   - Circuit Breaker: wraps an upstream client (OCR, Drive, LLM backends) and
//     stops calling it after repeated failures. The breaker state doubles as a
//     local health signal for the health package.
//
// # Usage
//
//	t := resilience.NewTimeout(resilience.TimeoutConfig{Timeout: 5 * time.Second})
//	ok, err := resilience.Run(ctx, t, func(ctx context.Context) (bool, error) {
//	    return svc.IsHealthy(ctx)
//	})
//
//	cb := resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("mistral"))
//	err := cb.Execute(ctx, func(ctx context.Context) error {
//	    return client.Ping(ctx)
//	})
package resilience
