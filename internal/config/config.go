// Package config loads pipeline configuration from an optional YAML file and
// DOCFORGE_-prefixed environment variables. Configuration is read once at
// process start.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	// Provider selects the active generation backend: openai, google, or
	// anthropic. Unknown values fall back to openai downstream.
	Provider   string           `koanf:"provider"`
	OpenAI     ProviderSettings `koanf:"openai"`
	Google     ProviderSettings `koanf:"google"`
	Anthropic  ProviderSettings `koanf:"anthropic"`
	Generation GenerationConfig `koanf:"generation"`
	Transport  TransportConfig  `koanf:"transport"`
	Audit      AuditConfig      `koanf:"audit"`
	Server     ServerConfig     `koanf:"server"`
}

type ProviderSettings struct {
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
	BaseURL string `koanf:"base_url"` // Custom API endpoint
}

type GenerationConfig struct {
	MaxOutputTokens int    `koanf:"max_output_tokens"`
	MaxRetries      int    `koanf:"max_retries"`
	RetryBaseDelay  string `koanf:"retry_base_delay"` // Duration string like "500ms"
}

type TransportConfig struct {
	// ResponseTimeout bounds one generation exchange. Generations can run
	// tens of minutes, so the default is deliberately long.
	ResponseTimeout string `koanf:"response_timeout"`
	PingTimeout     string `koanf:"ping_timeout"`
}

type AuditConfig struct {
	// Path is the sqlite event log location; empty disables the audit sink.
	Path string `koanf:"path"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
}

// Load reads configuration from the optional YAML file at path (skipped when
// empty) and then overlays DOCFORGE_ environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// Double underscore separates path segments, so single underscores
	// survive inside key names: DOCFORGE_ANTHROPIC__API_KEY -> anthropic.api_key.
	if err := k.Load(env.Provider("DOCFORGE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "DOCFORGE_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	defaults := map[string]any{
		"provider":                      "openai",
		"openai.model":                  "gpt-4o",
		"google.model":                  "gemini-2.0-flash",
		"anthropic.model":               "claude-3-5-sonnet-20241022",
		"generation.max_output_tokens":  16000,
		"generation.max_retries":        3,
		"generation.retry_base_delay":   "500ms",
		"transport.response_timeout":    "30m",
		"transport.ping_timeout":        "30s",
		"server.port":                   8080,
	}
	for key, val := range defaults {
		if !k.Exists(key) {
			k.Set(key, val)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Active returns the settings block for the selected provider. Unknown
// provider names map to the OpenAI block, mirroring the adapter's fallback.
func (c *Config) Active() ProviderSettings {
	switch strings.ToLower(c.Provider) {
	case "google":
		return c.Google
	case "anthropic":
		return c.Anthropic
	default:
		return c.OpenAI
	}
}

// RetryBaseDelay parses the configured backoff base, defaulting to 500ms.
func (c *Config) RetryBaseDelay() time.Duration {
	return parseDuration(c.Generation.RetryBaseDelay, 500*time.Millisecond)
}

// ResponseTimeout parses the generation exchange bound, defaulting to 30m.
func (c *Config) ResponseTimeout() time.Duration {
	return parseDuration(c.Transport.ResponseTimeout, 30*time.Minute)
}

// PingTimeout parses the liveness check bound, defaulting to 30s.
func (c *Config) PingTimeout() time.Duration {
	return parseDuration(c.Transport.PingTimeout, 30*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
