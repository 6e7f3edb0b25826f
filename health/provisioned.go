package health

import (
	"context"
	"os"
	"strings"
)

// EnvServiceConfig describes a subsystem whose readiness depends on
// credentials or endpoints supplied through settings.
type EnvServiceConfig struct {
	// Kind labels the subsystem for telemetry, e.g. "chat" or "storage".
	Kind string

	// Required lists setting names that must all be non-empty.
	Required []string

	// Optional lists setting names that are reported but not required.
	Optional []string

	// Lookup resolves a setting. Default: os.LookupEnv
	Lookup func(key string) (string, bool)

	// Check is an optional local health check run once configured.
	Check func(ctx context.Context) (bool, error)

	// Capabilities is reported verbatim through CapabilitiesDescriber.
	Capabilities map[string]any
}

// EnvService is configured when every required setting is present and
// non-blank. Its configuration reports which settings are present, never
// their values.
type EnvService struct {
	config EnvServiceConfig
}

// NewEnvService creates a settings-backed subsystem.
func NewEnvService(config EnvServiceConfig) *EnvService {
	if config.Lookup == nil {
		config.Lookup = os.LookupEnv
	}
	if config.Kind == "" {
		config.Kind = "env"
	}
	return &EnvService{config: config}
}

// Kind implements Kinder.
func (s *EnvService) Kind() string { return s.config.Kind }

func (s *EnvService) present(key string) bool {
	v, ok := s.config.Lookup(key)
	return ok && strings.TrimSpace(v) != ""
}

// IsConfigured reports whether all required settings are present.
func (s *EnvService) IsConfigured(context.Context) (bool, error) {
	for _, key := range s.config.Required {
		if !s.present(key) {
			return false, nil
		}
	}
	return true, nil
}

// IsHealthy reports false when unconfigured, otherwise the Check result.
func (s *EnvService) IsHealthy(ctx context.Context) (bool, error) {
	configured, _ := s.IsConfigured(ctx)
	if !configured {
		return false, nil
	}
	if s.config.Check == nil {
		return true, nil
	}
	return s.config.Check(ctx)
}

// Configuration implements ConfigurationDescriber.
func (s *EnvService) Configuration() map[string]any {
	out := make(map[string]any, len(s.config.Required)+len(s.config.Optional)+1)
	var missing []string
	for _, key := range s.config.Required {
		ok := s.present(key)
		out[configuredKey(key)] = ok
		if !ok {
			missing = append(missing, key)
		}
	}
	for _, key := range s.config.Optional {
		out[configuredKey(key)] = s.present(key)
	}
	if len(missing) > 0 {
		out["missing"] = missing
	}
	return out
}

// Capabilities implements CapabilitiesDescriber.
func (s *EnvService) Capabilities() map[string]any {
	return s.config.Capabilities
}

// configuredKey turns MISTRAL_API_KEY into mistral_api_key_configured.
func configuredKey(key string) string {
	return strings.ToLower(key) + "_configured"
}
