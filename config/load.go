package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jonwraymond/svchealth/secret"
)

const (
	projectConfigName = "svchealth.yaml"
	homeConfigDir     = ".svchealth"
	homeConfigName    = "config.yaml"
)

// DiscoverPath resolves the config location with first-match semantics.
// found is false when no candidate exists and no explicit path was given.
func DiscoverPath(explicitPath string) (path string, found bool, err error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", false, fmt.Errorf("resolve working directory: %w", err)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// A missing home only disables the home candidate.
		homeDir = ""
	}
	return DiscoverPathFrom(explicitPath, cwd, homeDir)
}

// DiscoverPathFrom is a testable variant of DiscoverPath.
func DiscoverPathFrom(explicitPath, cwd, homeDir string) (string, bool, error) {
	explicit := strings.TrimSpace(explicitPath)
	var candidates []string
	if explicit != "" {
		candidates = append(candidates, filepath.Clean(explicit))
	} else {
		candidates = append(candidates, filepath.Join(cwd, projectConfigName))
		if homeDir != "" {
			candidates = append(candidates, filepath.Join(homeDir, homeConfigDir, homeConfigName))
		}
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, true, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			if explicit != "" {
				return "", false, fmt.Errorf("config file %q not found", candidate)
			}
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("checking config path %q: %w", candidate, err)
		}
	}
	return "", false, nil
}

// Load discovers, parses, resolves and validates the configuration. It
// returns the path that was read, or "" when defaults were used.
func Load(ctx context.Context, explicitPath string) (*Config, string, error) {
	path, found, err := DiscoverPath(explicitPath)
	if err != nil {
		return nil, "", err
	}
	if !found {
		cfg := Default()
		if err := cfg.Validate(); err != nil {
			return nil, "", err
		}
		return cfg, "", nil
	}

	// #nosec G304 -- path resolved from explicit local config discovery.
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading config %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := Parse(ctx, f)
	if err != nil {
		return nil, "", fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, path, nil
}

// Parse decodes YAML from r, applies defaults, resolves secret references
// and validates the result. Unknown keys are rejected.
func Parse(ctx context.Context, r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg := seed()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty document decodes to io.EOF and means all defaults.
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	cfg.ApplyDefaults()

	if err := cfg.resolveSecrets(ctx); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolver builds the secret resolver described by the secrets section.
func (c *Config) Resolver() (*secret.Resolver, error) {
	providerCfg := map[string]map[string]any{
		"file": {"dir": c.Secrets.FileDir},
	}
	return secret.NewResolverFromRegistry(secret.DefaultRegistry, c.Secrets.Strict, c.Secrets.Providers, providerCfg)
}

func (c *Config) resolveSecrets(ctx context.Context) error {
	r, err := c.Resolver()
	if err != nil {
		return fmt.Errorf("secrets: %w", err)
	}
	defer r.Close()

	resolve := func(field string, v *string) error {
		if *v == "" {
			return nil
		}
		out, err := r.ResolveValue(ctx, *v)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", field, err)
		}
		*v = out
		return nil
	}

	for i := range c.Auth.APIKeys {
		if err := resolve(fmt.Sprintf("auth.api_keys[%d].key", i), &c.Auth.APIKeys[i].Key); err != nil {
			return err
		}
	}
	if err := resolve("auth.jwt.secret", &c.Auth.JWT.Secret); err != nil {
		return err
	}

	for i := range c.Services {
		values, err := r.ResolveMap(ctx, c.Services[i].Values)
		if err != nil {
			return fmt.Errorf("services[%d].values: %w", i, err)
		}
		c.Services[i].Values = values
	}

	if ps := c.Notify.PubSub; ps != nil {
		if err := resolve("notify.pubsub.project", &ps.ProjectID); err != nil {
			return err
		}
		if err := resolve("notify.pubsub.topic", &ps.Topic); err != nil {
			return err
		}
	}
	return nil
}
