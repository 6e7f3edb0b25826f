// Package health tracks the health of heterogeneous backend subsystems.
//
// Subsystems implement Service (IsConfigured and IsHealthy) and are bound to
// names in a Monitor. Probing a name runs both capability calls under a
// timeout, derives a Status, and caches the Result for a TTL so that repeated
// lookups do not hit slow upstreams.
//
// # Status Derivation
//
// A probe that errors, panics or times out is Unhealthy. A subsystem that is
// not configured is Unhealthy. One that is configured but reports itself
// unhealthy is Degraded. Otherwise it is Healthy. Failures are cached like
// successes.
//
// # Aggregation
//
// A Snapshot probes every registered name concurrently. The overall status is
// Unhealthy when nothing is registered or when more than half the services
// are unhealthy, Degraded when any service is unhealthy or degraded, and
// Healthy otherwise.
//
// # Basic Usage
//
//	m := health.NewMonitor(health.MonitorConfig{})
//	_ = m.RegisterService("chat", health.NewEnvService(health.EnvServiceConfig{
//	    Required: []string{"MISTRAL_API_KEY"},
//	}))
//	_ = m.RegisterService("runtime", health.NewRuntimeService(health.RuntimeServiceConfig{}))
//
//	snap := m.CheckAllServices(ctx)
//	if snap.Overall == health.StatusUnhealthy {
//	    log.Printf("system unhealthy: %v", m.GetHealthSummary(ctx).CriticalIssues)
//	}
//
// # HTTP Endpoints
//
// Routes mounts the JSON endpoints on a chi router:
//
//	r := chi.NewRouter()
//	r.Mount("/", health.Routes(m, health.RoutesConfig{}))
package health
