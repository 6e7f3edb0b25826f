package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/svchealth/health"
	"github.com/jonwraymond/svchealth/notify"
	"github.com/jonwraymond/svchealth/observe"
	"github.com/jonwraymond/svchealth/schedule"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the root of svchealth.yaml.
type Config struct {
	Server    ServerConfig         `yaml:"server"`
	Health    HealthConfig         `yaml:"health"`
	Services  []ServiceDeclaration `yaml:"services"`
	Auth      AuthConfig           `yaml:"auth"`
	Telemetry observe.Config       `yaml:"telemetry"`
	Notify    NotifyConfig         `yaml:"notify"`
	Process   ProcessConfig        `yaml:"process"`
	Secrets   SecretsConfig        `yaml:"secrets"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// AdminRateLimit is the number of admin requests allowed per minute per client.
	AdminRateLimit int `yaml:"admin_rate_limit"`
}

// HealthConfig tunes the monitor.
type HealthConfig struct {
	CacheTTL       time.Duration `yaml:"cache_ttl"`
	ProbeTimeout   time.Duration `yaml:"probe_timeout"`
	MaxConcurrency int           `yaml:"max_concurrency"`
	// Critical names the services gating /readyz.
	Critical []string      `yaml:"critical"`
	Refresh  RefreshConfig `yaml:"refresh"`
	Runtime  RuntimeConfig `yaml:"runtime"`
}

// RefreshConfig controls background refresh. Cron takes precedence over Interval.
type RefreshConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Cron     string        `yaml:"cron"`
	Interval time.Duration `yaml:"interval"`
}

// RuntimeConfig controls the built-in runtime memory subsystem.
type RuntimeConfig struct {
	Enabled           bool    `yaml:"enabled"`
	WarningThreshold  float64 `yaml:"warning_threshold"`
	CriticalThreshold float64 `yaml:"critical_threshold"`
	MaxAllocBytes     uint64  `yaml:"max_alloc_bytes"`
}

// ServiceDeclaration declares a subsystem whose configuration is a set of
// settings. Settings listed under Values are used first; the rest are read
// from the environment.
type ServiceDeclaration struct {
	Name     string            `yaml:"name"`
	Kind     string            `yaml:"kind"`
	Required []string          `yaml:"required"`
	Optional []string          `yaml:"optional"`
	Values   map[string]string `yaml:"values"`
}

// AuthConfig protects admin routes. With neither keys nor a JWT secret the
// admin routes are unauthenticated.
type AuthConfig struct {
	APIKeys   []APIKeyDeclaration `yaml:"api_keys"`
	JWT       JWTDeclaration      `yaml:"jwt"`
	AdminRole string              `yaml:"admin_role"`
}

// Enabled reports whether any authenticator is configured.
func (a AuthConfig) Enabled() bool {
	return len(a.APIKeys) > 0 || a.JWT.Secret != ""
}

// APIKeyDeclaration is one accepted API key.
type APIKeyDeclaration struct {
	ID        string   `yaml:"id"`
	Key       string   `yaml:"key"`
	Principal string   `yaml:"principal"`
	Roles     []string `yaml:"roles"`
}

// JWTDeclaration configures HMAC bearer tokens.
type JWTDeclaration struct {
	Secret   string `yaml:"secret"`
	Issuer   string `yaml:"issuer"`
	Audience string `yaml:"audience"`
}

// NotifyConfig selects transition sinks.
type NotifyConfig struct {
	Log    bool                 `yaml:"log"`
	PubSub *notify.PubSubConfig `yaml:"pubsub"`
}

// ProcessConfig identifies the running process in snapshots.
type ProcessConfig struct {
	Version     string `yaml:"version"`
	Environment string `yaml:"environment"`
}

// SecretsConfig selects secret providers for value resolution.
type SecretsConfig struct {
	Providers []string `yaml:"providers"`
	FileDir   string   `yaml:"file_dir"`
	Strict    bool     `yaml:"strict"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := seed()
	cfg.ApplyDefaults()
	return cfg
}

// seed returns the starting point for decoding: defaults that a zero value
// cannot express.
func seed() *Config {
	return &Config{
		Telemetry: observe.Config{
			Logging: observe.LoggingConfig{Enabled: true},
		},
	}
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15 * time.Second
	}
	if c.Server.AdminRateLimit == 0 {
		c.Server.AdminRateLimit = 10
	}

	if c.Health.CacheTTL == 0 {
		c.Health.CacheTTL = health.DefaultCacheTTL
	}
	if c.Health.ProbeTimeout == 0 {
		c.Health.ProbeTimeout = health.DefaultProbeTimeout
	}
	if c.Health.MaxConcurrency == 0 {
		c.Health.MaxConcurrency = health.DefaultMaxConcurrency
	}
	if c.Health.Refresh.Cron == "" && c.Health.Refresh.Interval == 0 {
		c.Health.Refresh.Interval = schedule.DefaultInterval
	}

	if c.Auth.AdminRole == "" {
		c.Auth.AdminRole = "admin"
	}

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = "svchealth"
	}
	if c.Telemetry.Logging.Level == "" {
		c.Telemetry.Logging.Level = "info"
	}

	if c.Process.Version == "" {
		c.Process.Version = health.DefaultVersion
	}
	if c.Process.Environment == "" {
		c.Process.Environment = health.DefaultEnvironment
	}
	if c.Telemetry.Version == "" {
		c.Telemetry.Version = c.Process.Version
	}
	if c.Telemetry.Environment == "" {
		c.Telemetry.Environment = c.Process.Environment
	}

	if len(c.Secrets.Providers) == 0 {
		c.Secrets.Providers = []string{"env", "file"}
	}
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.RequestTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		add("server timeouts must not be negative")
	}
	if c.Server.AdminRateLimit < 0 {
		add("server.admin_rate_limit must not be negative")
	}
	if c.Health.CacheTTL <= 0 {
		add("health.cache_ttl must be positive")
	}
	if c.Health.ProbeTimeout <= 0 {
		add("health.probe_timeout must be positive")
	}
	if c.Health.MaxConcurrency < 0 {
		add("health.max_concurrency must not be negative")
	}
	if c.Health.Refresh.Cron != "" {
		if _, err := schedule.ParseCron(c.Health.Refresh.Cron); err != nil {
			add("health.refresh.cron: %v", err)
		}
	} else if c.Health.Refresh.Interval < 0 {
		add("health.refresh.interval must not be negative")
	}

	seen := make(map[string]bool, len(c.Services))
	for i, svc := range c.Services {
		name := strings.TrimSpace(svc.Name)
		switch {
		case name == "":
			add("services[%d]: name is required", i)
		case seen[name]:
			add("services[%d]: duplicate name %q", i, name)
		}
		seen[name] = true
	}

	for i, k := range c.Auth.APIKeys {
		if k.Key == "" {
			add("auth.api_keys[%d]: key is required", i)
		}
		if k.Principal == "" {
			add("auth.api_keys[%d]: principal is required", i)
		}
	}

	if err := c.Telemetry.Validate(); err != nil {
		add("telemetry: %v", err)
	}

	if c.Notify.PubSub != nil {
		if err := c.Notify.PubSub.Validate(); err != nil {
			add("notify.pubsub: %v", err)
		}
	}

	return errors.Join(errs...)
}
