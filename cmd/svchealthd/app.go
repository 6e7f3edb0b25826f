package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/svchealth/config"
	"github.com/jonwraymond/svchealth/health"
	"github.com/jonwraymond/svchealth/notify"
	"github.com/jonwraymond/svchealth/observe"
	"github.com/jonwraymond/svchealth/resilience"
)

// notifierServiceName is the subsystem reporting the transition sink breaker.
const notifierServiceName = "notifier"

// app holds the components shared by serve and check.
type app struct {
	cfg        *config.Config
	configPath string
	observer   observe.Observer
	logger     observe.Logger
	monitor    *health.Monitor
	publisher  notify.Publisher
}

func loadConfig(cmd *cobra.Command) (*config.Config, string, error) {
	explicit, _ := cmd.Flags().GetString("config")
	cfg, path, err := config.Load(cmd.Context(), explicit)
	if err != nil {
		return nil, "", exitErrorf(exitConfig, "loading config: %v", err)
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Telemetry.Logging.Enabled = true
		cfg.Telemetry.Logging.Level = level
		if err := cfg.Validate(); err != nil {
			return nil, "", exitErrorf(exitConfig, "invalid --log-level: %v", err)
		}
	}
	return cfg, path, nil
}

// newApp builds the observer, monitor and declared subsystems. withNotify
// also connects the configured transition sinks.
func newApp(ctx context.Context, cfg *config.Config, configPath string, withNotify bool) (*app, error) {
	obs, err := observe.NewObserver(ctx, cfg.Telemetry)
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}
	mw, err := observe.MiddlewareFromObserver(obs)
	if err != nil {
		_ = obs.Shutdown(ctx)
		return nil, fmt.Errorf("initializing probe instrumentation: %w", err)
	}

	a := &app{
		cfg:        cfg,
		configPath: configPath,
		observer:   obs,
		logger:     obs.Logger(),
		monitor: health.NewMonitor(health.MonitorConfig{
			CacheTTL:       cfg.Health.CacheTTL,
			ProbeTimeout:   cfg.Health.ProbeTimeout,
			MaxConcurrency: cfg.Health.MaxConcurrency,
			Process:        health.NewProcessInfo(cfg.Process.Version, cfg.Process.Environment),
			Middleware:     mw,
		}),
	}

	bindings := cfg.Bindings(nil)
	if withNotify {
		pub, breaker, err := buildPublisher(ctx, cfg, a.logger)
		if err != nil {
			_ = obs.Shutdown(ctx)
			return nil, err
		}
		a.publisher = pub
		if breaker != nil {
			bindings = append(bindings, health.Binding{
				Name:    notifierServiceName,
				Service: health.NewBreakerService(breaker),
			})
		}
	}

	if err := a.monitor.RegisterAll(bindings...); err != nil {
		_ = a.close(ctx)
		return nil, fmt.Errorf("registering services: %w", err)
	}
	return a, nil
}

// buildPublisher returns nil when no sink is configured. The breaker guards
// the Pub/Sub sink when present.
func buildPublisher(ctx context.Context, cfg *config.Config, logger observe.Logger) (notify.Publisher, *resilience.CircuitBreaker, error) {
	var pubs notify.Multi
	var breaker *resilience.CircuitBreaker

	if cfg.Notify.Log {
		pubs = append(pubs, notify.NewLogPublisher(logger))
	}
	if ps := cfg.Notify.PubSub; ps != nil {
		p, err := notify.NewPubSubPublisher(ctx, *ps, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting pubsub: %w", err)
		}
		breaker = resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig("pubsub:" + ps.Topic))
		pubs = append(pubs, notify.WithBreaker(p, breaker))
	}

	switch len(pubs) {
	case 0:
		return nil, nil, nil
	case 1:
		return pubs[0], breaker, nil
	default:
		return pubs, breaker, nil
	}
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	a.monitor.UnregisterAll()
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	errs = append(errs, a.observer.Shutdown(ctx))
	return errors.Join(errs...)
}
