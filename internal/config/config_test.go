package config

import (
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.URL == "" {
		t.Error("default config should have an API URL")
	}
	if cfg.Toast.DurationMs != 5000 {
		t.Errorf("default toast duration = %d, want 5000", cfg.Toast.DurationMs)
	}
	if cfg.Realtime.ReconnectDelayMs != 1000 {
		t.Errorf("default reconnect delay = %d, want 1000", cfg.Realtime.ReconnectDelayMs)
	}
	if cfg.Realtime.ReconnectMaxDelayMs != 5000 {
		t.Errorf("default reconnect max delay = %d, want 5000", cfg.Realtime.ReconnectMaxDelayMs)
	}
}

func TestValidateDefault(t *testing.T) {
	result := Default().Validate()
	if !result.IsValid() {
		t.Errorf("default config should validate, got errors: %v", result.Errors)
	}
}

func TestValidateBadURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		ok   bool
	}{
		{"empty", "", false},
		{"no scheme", "localhost:9090", false},
		{"http", "http://localhost:9090", true},
		{"https", "https://crm.example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.API.URL = tt.url
			result := cfg.Validate()
			if result.IsValid() != tt.ok {
				t.Errorf("Validate() with url %q: valid=%v, want %v (errors: %v)",
					tt.url, result.IsValid(), tt.ok, result.Errors)
			}
		})
	}
}

func TestValidateBackoffOrdering(t *testing.T) {
	cfg := Default()
	cfg.Realtime.ReconnectDelayMs = 5000
	cfg.Realtime.ReconnectMaxDelayMs = 1000

	if cfg.Validate().IsValid() {
		t.Error("max delay below initial delay should be rejected")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("JECRM_API_URL", "https://override.example.com")
	t.Setenv("JECRM_LOG_LEVEL", "debug")

	cfg := Default()
	applyEnv(cfg)

	if cfg.API.URL != "https://override.example.com" {
		t.Errorf("env override not applied, got %q", cfg.API.URL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level override not applied, got %q", cfg.Log.Level)
	}
}

func TestWebSocketURL(t *testing.T) {
	tests := []struct {
		apiURL string
		want   string
	}{
		{"http://localhost:9090", "ws://localhost:9090/ws"},
		{"https://crm.example.com", "wss://crm.example.com/ws"},
		{"http://localhost:9090/", "ws://localhost:9090/ws"},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.API.URL = tt.apiURL
		if got := cfg.WebSocketURL(); got != tt.want {
			t.Errorf("WebSocketURL() with %q = %q, want %q", tt.apiURL, got, tt.want)
		}
	}
}
