package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider != "openai" {
		t.Errorf("default provider = %q, want openai", cfg.Provider)
	}
	if cfg.OpenAI.Model == "" {
		t.Error("expected a default OpenAI model")
	}
	if cfg.Generation.MaxRetries != 3 {
		t.Errorf("default max_retries = %d, want 3", cfg.Generation.MaxRetries)
	}
	if got := cfg.ResponseTimeout(); got != 30*time.Minute {
		t.Errorf("default response timeout = %v, want 30m", got)
	}
	if got := cfg.PingTimeout(); got != 30*time.Second {
		t.Errorf("default ping timeout = %v, want 30s", got)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("DOCFORGE_PROVIDER", "anthropic")
	t.Setenv("DOCFORGE_ANTHROPIC__API_KEY", "test-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", cfg.Provider)
	}
	if cfg.Active().APIKey != "test-key" {
		t.Errorf("active api key = %q, want test-key", cfg.Active().APIKey)
	}
}

// Multi-word key names keep their single underscores; only the double
// underscore separates path segments.
func TestLoadEnvOverrideMultiWordKeys(t *testing.T) {
	t.Setenv("DOCFORGE_GENERATION__MAX_RETRIES", "7")
	t.Setenv("DOCFORGE_TRANSPORT__RESPONSE_TIMEOUT", "1m")
	t.Setenv("DOCFORGE_OPENAI__BASE_URL", "http://localhost:9999")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Generation.MaxRetries != 7 {
		t.Errorf("max_retries = %d, want 7", cfg.Generation.MaxRetries)
	}
	if got := cfg.ResponseTimeout(); got != time.Minute {
		t.Errorf("response timeout = %v, want 1m", got)
	}
	if cfg.OpenAI.BaseURL != "http://localhost:9999" {
		t.Errorf("base url = %q", cfg.OpenAI.BaseURL)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docforge.yaml")
	content := []byte(`
provider: google
google:
  api_key: file-key
  model: gemini-2.0-flash
transport:
  response_timeout: 10m
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Provider != "google" {
		t.Errorf("provider = %q, want google", cfg.Provider)
	}
	if cfg.Active().APIKey != "file-key" {
		t.Errorf("active api key = %q", cfg.Active().APIKey)
	}
	if got := cfg.ResponseTimeout(); got != 10*time.Minute {
		t.Errorf("response timeout = %v, want 10m", got)
	}
}

func TestActiveFallsBackToOpenAI(t *testing.T) {
	cfg := &Config{Provider: "mistral", OpenAI: ProviderSettings{Model: "gpt-4o"}}
	if cfg.Active().Model != "gpt-4o" {
		t.Error("unknown provider should fall back to the OpenAI block")
	}
}

func TestParseDurationFallbacks(t *testing.T) {
	cfg := &Config{Generation: GenerationConfig{RetryBaseDelay: "garbage"}}
	if got := cfg.RetryBaseDelay(); got != 500*time.Millisecond {
		t.Errorf("invalid duration should fall back, got %v", got)
	}
}
