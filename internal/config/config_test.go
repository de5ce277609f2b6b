package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Save original env and restore after test
	originalEnv := os.Environ()
	defer func() {
		os.Clearenv()
		for _, env := range originalEnv {
			for i, c := range env {
				if c == '=' {
					os.Setenv(env[:i], env[i+1:])
					break
				}
			}
		}
	}()

	// Clear env to test defaults
	os.Clearenv()

	cfg := Load()

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"Port", cfg.Port, 8080},
		{"LogLevel", cfg.LogLevel, "info"},
		{"StoreProvider", cfg.StoreProvider, "postgres"},
		{"QueueProvider", cfg.QueueProvider, "nats"},
		{"CacheProvider", cfg.CacheProvider, "noop"},
		{"OpenAIModel", cfg.OpenAIModel, "gpt-4o-mini"},
		{"GeminiModel", cfg.GeminiModel, "gemini-2.0-flash"},
		{"PerplexityModel", cfg.PerplexityModel, "sonar"},
		{"HistoryLimit", cfg.HistoryLimit, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	// Save and restore env
	originalPort := os.Getenv("PORT")
	originalLogLevel := os.Getenv("LOG_LEVEL")
	defer func() {
		os.Setenv("PORT", originalPort)
		os.Setenv("LOG_LEVEL", originalLogLevel)
	}()

	os.Setenv("PORT", "9090")
	os.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.LogLevel)
	}
}

func TestLoadProviderOverrides(t *testing.T) {
	originalCache := os.Getenv("CACHE_PROVIDER")
	defer func() {
		os.Setenv("CACHE_PROVIDER", originalCache)
	}()

	os.Setenv("CACHE_PROVIDER", "redis")

	cfg := Load()

	if cfg.CacheProvider != "redis" {
		t.Errorf("expected cache provider 'redis', got %s", cfg.CacheProvider)
	}
}
