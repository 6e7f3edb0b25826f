package health

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/svchealth/observe"
	"github.com/jonwraymond/svchealth/resilience"
)

// DefaultProbeTimeout bounds the capability calls of one probe.
const DefaultProbeTimeout = resilience.DefaultTimeout

// ProberConfig configures a Prober.
type ProberConfig struct {
	// Timeout bounds IsConfigured and IsHealthy together.
	// Default: 5 seconds
	Timeout time.Duration

	// Now is the clock used for CheckedAt and latency.
	// Default: time.Now
	Now func() time.Time

	// Middleware instruments executed probes.
	// Default: observe.NopMiddleware()
	Middleware *observe.Middleware
}

// Prober resolves a name to a Result, consulting the cache first.
//
// Concurrent misses for the same binding share one execution. Probe never
// returns an error and never panics; every failure becomes a Result.
type Prober struct {
	registry *Registry
	cache    *Cache
	timeout  *resilience.Timeout
	now      func() time.Time
	mw       *observe.Middleware
	group    singleflight.Group
}

// NewProber creates a Prober over registry and cache.
func NewProber(registry *Registry, cache *Cache, cfg ProberConfig) *Prober {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Middleware == nil {
		cfg.Middleware = observe.NopMiddleware()
	}
	return &Prober{
		registry: registry,
		cache:    cache,
		timeout:  resilience.NewTimeout(resilience.TimeoutConfig{Timeout: cfg.Timeout}),
		now:      cfg.Now,
		mw:       cfg.Middleware,
	}
}

// Timeout returns the effective probe timeout.
func (p *Prober) Timeout() time.Duration {
	return p.timeout.Config().Timeout
}

// Probe returns the current Result for name.
func (p *Prober) Probe(ctx context.Context, name string) Result {
	b, ok := p.registry.lookup(name)
	if !ok {
		return notRegistered(name, p.now())
	}

	meta := observe.ServiceMeta{Name: name, Kind: kindOf(b.svc)}
	if r, ok := p.cache.Get(name); ok {
		p.mw.CacheLookup(ctx, meta, true)
		return r
	}
	p.mw.CacheLookup(ctx, meta, false)

	key := name + "#" + strconv.FormatUint(b.gen, 10)
	v, _, _ := p.group.Do(key, func() (any, error) {
		if r, ok := p.cache.Get(name); ok {
			return r, nil
		}
		// Shared by every waiter; one caller's cancellation must not become
		// a cached failure for the others. The probe timeout still applies.
		r := p.run(context.WithoutCancel(ctx), name, meta, b.svc)
		p.registry.ifCurrent(name, b.gen, func() { p.cache.Put(name, r) })
		return r, nil
	})
	return v.(Result)
}

func (p *Prober) run(ctx context.Context, name string, meta observe.ServiceMeta, svc Service) Result {
	var res Result
	probe := p.mw.Wrap(func(ctx context.Context, _ observe.ServiceMeta) observe.ProbeOutcome {
		var err error
		res, err = p.execute(ctx, name, svc)
		return observe.ProbeOutcome{
			Status:  res.Status.String(),
			Latency: res.Latency,
			Err:     err,
		}
	})
	probe(ctx, meta)
	return res
}

type verdict struct {
	configured bool
	healthy    bool
}

func (p *Prober) execute(ctx context.Context, name string, svc Service) (Result, error) {
	start := p.now()
	v, err := resilience.Run(ctx, p.timeout, func(ctx context.Context) (verdict, error) {
		return callCapabilities(ctx, svc)
	})
	end := p.now()

	if err != nil {
		if errors.Is(err, resilience.ErrTimeout) {
			err = fmt.Errorf("%w after %s", ErrProbeTimeout, p.Timeout())
		}
		return Result{
			Service:    name,
			Status:     StatusUnhealthy,
			Configured: false,
			CheckedAt:  end,
			Latency:    end.Sub(start),
			HasLatency: true,
			Error:      err.Error(),
		}, err
	}

	return Result{
		Service:    name,
		Status:     DeriveStatus(v.configured, v.healthy, nil),
		Configured: v.configured,
		CheckedAt:  end,
		Latency:    end.Sub(start),
		HasLatency: true,
		Metadata:   describe(svc),
	}, nil
}

func callCapabilities(ctx context.Context, svc Service) (v verdict, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrProbePanic, rec)
		}
	}()

	if v.configured, err = svc.IsConfigured(ctx); err != nil {
		return verdict{}, err
	}
	if v.healthy, err = svc.IsHealthy(ctx); err != nil {
		return verdict{}, err
	}
	return v, nil
}

func describe(svc Service) (md map[string]any) {
	md = make(map[string]any, 2)
	defer func() {
		if rec := recover(); rec != nil {
			md = map[string]any{MetadataError: fmt.Sprint(rec)}
		}
	}()

	if d, ok := svc.(ConfigurationDescriber); ok {
		if cfg := d.Configuration(); cfg != nil {
			md[MetadataConfiguration] = cfg
		}
	}
	if d, ok := svc.(CapabilitiesDescriber); ok {
		if caps := d.Capabilities(); caps != nil {
			md[MetadataCapabilities] = caps
		}
	}
	return md
}
