package config

import (
	"os"
	"strings"

	"github.com/jonwraymond/svchealth/auth"
	"github.com/jonwraymond/svchealth/health"
)

// RuntimeServiceName is the registration name of the runtime subsystem.
const RuntimeServiceName = "runtime"

// Lookup returns a setting lookup that prefers declared values and falls back
// to the environment.
func (d ServiceDeclaration) Lookup(env func(string) (string, bool)) func(string) (string, bool) {
	if env == nil {
		env = os.LookupEnv
	}
	return func(key string) (string, bool) {
		if v, ok := d.Values[key]; ok {
			return v, true
		}
		return env(key)
	}
}

// Service builds the settings-backed subsystem for d.
func (d ServiceDeclaration) Service(env func(string) (string, bool)) *health.EnvService {
	return health.NewEnvService(health.EnvServiceConfig{
		Kind:     d.Kind,
		Required: d.Required,
		Optional: d.Optional,
		Lookup:   d.Lookup(env),
	})
}

// Bindings returns the declared services in file order, followed by the
// runtime subsystem when enabled.
func (c *Config) Bindings(env func(string) (string, bool)) []health.Binding {
	bindings := make([]health.Binding, 0, len(c.Services)+1)
	for _, d := range c.Services {
		bindings = append(bindings, health.Binding{
			Name:    strings.TrimSpace(d.Name),
			Service: d.Service(env),
		})
	}
	if rt := c.Health.Runtime; rt.Enabled {
		bindings = append(bindings, health.Binding{
			Name: RuntimeServiceName,
			Service: health.NewRuntimeService(health.RuntimeServiceConfig{
				WarningThreshold:  rt.WarningThreshold,
				CriticalThreshold: rt.CriticalThreshold,
				MaxAlloc:          rt.MaxAllocBytes,
			}),
		})
	}
	return bindings
}

// Authenticator builds the admin authenticator. It returns nil when no
// credentials are configured.
func (a AuthConfig) Authenticator() (auth.Authenticator, error) {
	if !a.Enabled() {
		return nil, nil
	}

	var authns []auth.Authenticator
	if len(a.APIKeys) > 0 {
		store := auth.NewMemoryAPIKeyStore()
		for _, k := range a.APIKeys {
			id := k.ID
			if id == "" {
				id = k.Principal
			}
			if err := store.Add(&auth.APIKeyInfo{
				ID:        id,
				KeyHash:   auth.HashAPIKey(k.Key),
				Principal: k.Principal,
				Roles:     k.Roles,
			}); err != nil {
				return nil, err
			}
		}
		authns = append(authns, auth.NewAPIKeyAuthenticator(auth.APIKeyConfig{}, store))
	}
	if a.JWT.Secret != "" {
		authns = append(authns, auth.NewJWTAuthenticator(auth.JWTConfig{
			Issuer:   a.JWT.Issuer,
			Audience: a.JWT.Audience,
		}, auth.NewStaticKeyProvider([]byte(a.JWT.Secret))))
	}

	if len(authns) == 1 {
		return authns[0], nil
	}
	return auth.NewCompositeAuthenticator(authns...), nil
}
