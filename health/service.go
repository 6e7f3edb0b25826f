package health

import "context"

// Service is the capability every monitored subsystem exposes.
//
// Contract:
// - Concurrency: methods may be called concurrently from different probes.
// - Errors: a returned error or a panic marks the probe as failed.
// - Context: implementations should honor cancellation; the probe timeout
//   abandons calls that do not.
type Service interface {
	IsConfigured(ctx context.Context) (bool, error)
	IsHealthy(ctx context.Context) (bool, error)
}

// ConfigurationDescriber is implemented by services that can describe their
// configuration. The map is attached to results under "configuration".
type ConfigurationDescriber interface {
	Configuration() map[string]any
}

// CapabilitiesDescriber is implemented by services that can describe what
// they support. The map is attached to results under "capabilities".
type CapabilitiesDescriber interface {
	Capabilities() map[string]any
}

// Kinder is implemented by services that report an implementation kind for
// telemetry, e.g. "env" or "breaker".
type Kinder interface {
	Kind() string
}

// ServiceFuncs adapts plain functions to the Service interface.
// A nil function reports true.
type ServiceFuncs struct {
	Configured func(ctx context.Context) (bool, error)
	Healthy    func(ctx context.Context) (bool, error)
}

// IsConfigured calls f.Configured.
func (f ServiceFuncs) IsConfigured(ctx context.Context) (bool, error) {
	if f.Configured == nil {
		return true, nil
	}
	return f.Configured(ctx)
}

// IsHealthy calls f.Healthy.
func (f ServiceFuncs) IsHealthy(ctx context.Context) (bool, error) {
	if f.Healthy == nil {
		return true, nil
	}
	return f.Healthy(ctx)
}

// Static returns a Service with fixed answers. Useful for wiring and tests.
func Static(configured, healthy bool) Service {
	return ServiceFuncs{
		Configured: func(context.Context) (bool, error) { return configured, nil },
		Healthy:    func(context.Context) (bool, error) { return healthy, nil },
	}
}

func kindOf(svc Service) string {
	if k, ok := svc.(Kinder); ok {
		return k.Kind()
	}
	return ""
}
