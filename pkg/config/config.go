// Package config loads client configuration from an optional YAML file and
// environment variables. File values are overridden by the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// DefaultTimeoutSeconds bounds every outbound request when no explicit
// timeout is configured.
const DefaultTimeoutSeconds = 30

// ConfigFile is the YAML file consulted in the working directory.
const ConfigFile = "anyapi-mcp.yaml"

// Config holds everything the HTTP client and spec loader need.
type Config struct {
	SpecPath       string            `yaml:"spec_path"`
	BaseURL        string            `yaml:"base_url"`
	Headers        map[string]string `yaml:"headers"`
	TimeoutSeconds int               `yaml:"timeout_seconds"`
	BearerToken    string            `yaml:"bearer_token"`
	APIKey         string            `yaml:"api_key"`
}

// Load reads the config file if present, then applies environment overrides.
// A missing file is not an error; a malformed one is.
func Load(specPath string) (*Config, error) {
	cfg := &Config{
		Headers:        make(map[string]string),
		TimeoutSeconds: DefaultTimeoutSeconds,
	}

	if data, err := os.ReadFile(ConfigFile); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %v", ConfigFile, err)
		}
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string)
		}
		if cfg.TimeoutSeconds <= 0 {
			cfg.TimeoutSeconds = DefaultTimeoutSeconds
		}
	}

	applyEnvOverrides(cfg)

	if specPath != "" {
		cfg.SpecPath = specPath
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("BEARER_TOKEN"); v != "" {
		cfg.BearerToken = v
	}
	if v := os.Getenv("API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("TIMEOUT_SECONDS"); v != "" {
		if secs, err := cast.ToIntE(v); err == nil && secs > 0 {
			cfg.TimeoutSeconds = secs
		} else {
			fmt.Fprintf(os.Stderr, "[WARN] Invalid TIMEOUT_SECONDS %q, keeping %d\n", v, cfg.TimeoutSeconds)
		}
	}

	// Legacy: a JSON object of extra headers, kept for compatibility with
	// existing deployments.
	if v := os.Getenv("OPENAPI_MCP_HEADERS"); v != "" {
		var headers map[string]string
		if err := json.Unmarshal([]byte(v), &headers); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] OPENAPI_MCP_HEADERS is not a JSON object of strings: %v\n", err)
		} else {
			for k, val := range headers {
				cfg.Headers[k] = val
			}
		}
	}
}

// GetHeader returns a configured extra header value, if any.
func (c *Config) GetHeader(key string) (string, bool) {
	v, ok := c.Headers[key]
	return v, ok
}
