package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// RoutesConfig configures the HTTP binding.
type RoutesConfig struct {
	// CriticalServices gate /readyz. Empty means readiness follows the
	// overall status.
	CriticalServices []string

	// Admin guards mutating routes, typically an auth middleware.
	// Default: no guard
	Admin func(http.Handler) http.Handler

	// AdminRateLimit is the number of admin requests allowed per minute per IP.
	// Default: 10
	AdminRateLimit int

	// RequestTimeout bounds each request.
	// Default: 10 seconds
	RequestTimeout time.Duration
}

// Routes returns a router serving the health endpoints of m.
//
// Healthy and degraded responses use 200; unhealthy uses 503.
func Routes(m *Monitor, cfg RoutesConfig) chi.Router {
	if cfg.AdminRateLimit <= 0 {
		cfg.AdminRateLimit = 10
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	h := &handlers{monitor: m, critical: cfg.CriticalServices}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))

	r.Get("/healthz", LivenessHandler())
	r.Get("/readyz", h.readiness)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.overview)
		r.Get("/detailed", h.detailed)
		r.Get("/service/{name}", h.service)
		r.Get("/summary", h.summary)
		r.Get("/metrics", h.metrics)
		r.Get("/services", h.services)

		r.Group(func(r chi.Router) {
			r.Use(httprate.Limit(
				cfg.AdminRateLimit,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByRealIP),
				httprate.WithLimitHandler(rateLimited),
			))
			if cfg.Admin != nil {
				r.Use(cfg.Admin)
			}
			r.Post("/cache/clear", h.clearCache)
		})
	})

	return r
}

// LivenessHandler reports that the process is serving requests.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// StatusCode maps a status to its HTTP response code.
func StatusCode(s Status) int {
	if s == StatusUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

type handlers struct {
	monitor  *Monitor
	critical []string
}

// ServiceView is the per-service entry of the /health response.
type ServiceView struct {
	Name               string `json:"name"`
	Status             Status `json:"status"`
	Configured         bool   `json:"configured"`
	ResponseTimeMicros *int64 `json:"responseTimeMicros,omitempty"`
	Error              string `json:"error,omitempty"`
}

// OverviewResponse is the JSON body of GET /health.
type OverviewResponse struct {
	Status      Status        `json:"status"`
	Timestamp   time.Time     `json:"timestamp"`
	Uptime      float64       `json:"uptime"`
	Version     string        `json:"version"`
	Environment string        `json:"environment"`
	Services    []ServiceView `json:"services"`
}

// DetailedResponse is the JSON body of GET /health/detailed.
type DetailedResponse struct {
	Snapshot
	Performance PerformanceMetrics `json:"performance"`
	Cache       CacheView          `json:"cache"`
}

// MarshalJSON flattens the snapshot alongside the extra sections.
func (d DetailedResponse) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(d.Snapshot)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["performance"] = d.Performance
	fields["cache"] = d.Cache
	return json.Marshal(fields)
}

// CacheView describes the result cache.
type CacheView struct {
	TTLMillis int64 `json:"ttlMillis"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Entries   int   `json:"entries"`
}

func (h *handlers) cacheView() CacheView {
	st := h.monitor.CacheStats()
	return CacheView{
		TTLMillis: h.monitor.CacheTimeout().Milliseconds(),
		Hits:      st.Hits,
		Misses:    st.Misses,
		Entries:   st.Entries,
	}
}

func (h *handlers) overview(w http.ResponseWriter, r *http.Request) {
	snap := h.monitor.CheckAllServices(r.Context())

	resp := OverviewResponse{
		Status:      snap.Overall,
		Timestamp:   snap.Timestamp,
		Uptime:      snap.UptimeSeconds(),
		Version:     snap.Version,
		Environment: snap.Environment,
		Services:    make([]ServiceView, 0, len(snap.Services)),
	}
	for _, res := range snap.Services {
		view := ServiceView{
			Name:       res.Service,
			Status:     res.Status,
			Configured: res.Configured,
			Error:      res.Error,
		}
		if res.HasLatency {
			us := res.LatencyMicros()
			view.ResponseTimeMicros = &us
		}
		resp.Services = append(resp.Services, view)
	}

	writeJSON(w, StatusCode(snap.Overall), resp)
}

func (h *handlers) detailed(w http.ResponseWriter, r *http.Request) {
	snap := h.monitor.CheckAllServices(r.Context())
	writeJSON(w, StatusCode(snap.Overall), DetailedResponse{
		Snapshot:    snap,
		Performance: CalculateMetrics(snap.Services),
		Cache:       h.cacheView(),
	})
}

func (h *handlers) service(w http.ResponseWriter, r *http.Request) {
	res := h.monitor.CheckServiceHealth(r.Context(), chi.URLParam(r, "name"))
	writeJSON(w, StatusCode(res.Status), res)
}

func (h *handlers) summary(w http.ResponseWriter, r *http.Request) {
	sum := h.monitor.GetHealthSummary(r.Context())
	writeJSON(w, StatusCode(sum.Status), sum)
}

func (h *handlers) metrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.monitor.GetPerformanceMetrics(r.Context()))
}

func (h *handlers) services(w http.ResponseWriter, r *http.Request) {
	names := h.monitor.RegisteredServices()
	writeJSON(w, http.StatusOK, map[string]any{
		"services":  names,
		"count":     len(names),
		"timestamp": time.Now().UTC(),
	})
}

func (h *handlers) clearCache(w http.ResponseWriter, r *http.Request) {
	h.monitor.ClearCache()
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Health check cache cleared successfully",
		"timestamp": time.Now().UTC(),
	})
}

func (h *handlers) readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var ready bool
	if len(h.critical) > 0 {
		ready = h.monitor.CheckCriticalServices(ctx, h.critical)
	} else {
		ready = h.monitor.CheckAllServices(ctx).Overall != StatusUnhealthy
	}

	w.Header().Set("Content-Type", "text/plain")
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("NOT READY"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func rateLimited(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusTooManyRequests, map[string]string{
		"error": "rate limit exceeded",
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
