package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	API      APIConfig      `yaml:"api"`
	Realtime RealtimeConfig `yaml:"realtime"`
	Toast    ToastConfig    `yaml:"toast"`
	Notify   NotifyConfig   `yaml:"notify"`
	Poll     PollConfig     `yaml:"poll"`
	Log      LogConfig      `yaml:"log"`
}

// APIConfig holds backend endpoint configuration
type APIConfig struct {
	URL            string `yaml:"url"`            // Backend base URL, e.g. http://localhost:9090
	TimeoutSeconds int    `yaml:"timeoutSeconds"` // Per-request timeout (default: 15)
}

// RealtimeConfig holds push-channel reconnection settings
type RealtimeConfig struct {
	ReconnectDelayMs    int `yaml:"reconnectDelayMs"`    // Initial retry delay (default: 1000)
	ReconnectMaxDelayMs int `yaml:"reconnectMaxDelayMs"` // Backoff cap (default: 5000)
}

// ToastConfig holds transient notification settings
type ToastConfig struct {
	DurationMs int `yaml:"durationMs"` // Auto-dismiss after this many ms (default: 5000)
}

// NotifyConfig holds desktop notification settings
type NotifyConfig struct {
	Enabled bool   `yaml:"enabled"` // Ring the bell / send desktop notices (default: true)
	Command string `yaml:"command"` // Notifier command (notify-send, osascript) - auto-detected if empty
}

// PollConfig holds the REST polling fallback used while the channel is down
type PollConfig struct {
	Enabled         bool `yaml:"enabled"`         // Refresh conversations over REST when disconnected (default: true)
	IntervalSeconds int  `yaml:"intervalSeconds"` // Refresh interval (default: 15)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: info)
}

func Default() *Config {
	return &Config{
		API: APIConfig{
			URL:            "http://localhost:9090",
			TimeoutSeconds: 15,
		},
		Realtime: RealtimeConfig{
			ReconnectDelayMs:    1000,
			ReconnectMaxDelayMs: 5000,
		},
		Toast: ToastConfig{
			DurationMs: 5000,
		},
		Notify: NotifyConfig{
			Enabled: true,
			Command: "", // Auto-detect
		},
		Poll: PollConfig{
			Enabled:         true,
			IntervalSeconds: 15,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Dir returns the jecrm state directory (~/.jecrm)
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".jecrm")
}

func configPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// LogPath returns the dashboard log file path
func LogPath() string {
	return filepath.Join(Dir(), "jecrm.log")
}

// DBPath returns the local SQLite database path
func DBPath() string {
	return filepath.Join(Dir(), "jecrm.db")
}

// Load reads the config file and applies environment overrides.
// A missing config file is not an error: defaults apply, so a fresh
// install works with nothing but JECRM_API_URL (or the default URL).
func Load() (*Config, error) {
	// .env in the working directory is a convenience for development setups
	_ = godotenv.Load()

	cfg := Default()
	data, err := os.ReadFile(configPath())
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv overlays JECRM_* environment variables. Environment wins over
// the file so containerized deploys can point at a different backend
// without editing ~/.jecrm.
func applyEnv(cfg *Config) {
	if v := os.Getenv("JECRM_API_URL"); v != "" {
		cfg.API.URL = v
	}
	if v := os.Getenv("JECRM_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Save writes the config to ~/.jecrm/config.yaml
func Save(cfg *Config) (string, error) {
	if err := os.MkdirAll(Dir(), 0755); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	path := configPath()
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}

	return path, nil
}

// ValidationResult holds the result of config validation
type ValidationResult struct {
	Errors   []string
	Warnings []string
}

// IsValid returns true if there are no errors
func (v *ValidationResult) IsValid() bool {
	return len(v.Errors) == 0
}

// Validate checks the configuration for required fields and common issues
func (c *Config) Validate() *ValidationResult {
	result := &ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}

	if c.API.URL == "" {
		result.Errors = append(result.Errors, "Backend URL required: set api.url or JECRM_API_URL")
	} else if !strings.HasPrefix(c.API.URL, "http://") && !strings.HasPrefix(c.API.URL, "https://") {
		result.Errors = append(result.Errors, fmt.Sprintf("Backend URL must start with http:// or https://, got %q", c.API.URL))
	}

	if c.API.TimeoutSeconds <= 0 {
		result.Warnings = append(result.Warnings, "api.timeoutSeconds <= 0, using default (15)")
	}

	if c.Realtime.ReconnectDelayMs < 100 {
		result.Warnings = append(result.Warnings, "realtime.reconnectDelayMs < 100ms may hammer the backend")
	}
	if c.Realtime.ReconnectMaxDelayMs < c.Realtime.ReconnectDelayMs {
		result.Errors = append(result.Errors, "realtime.reconnectMaxDelayMs must be >= reconnectDelayMs")
	}

	if c.Toast.DurationMs <= 0 {
		result.Warnings = append(result.Warnings, "toast.durationMs <= 0, toasts will use the default (5000)")
	}

	if c.Poll.Enabled && c.Poll.IntervalSeconds < 5 {
		result.Warnings = append(result.Warnings, "poll.intervalSeconds < 5 may cause excessive REST traffic")
	}

	return result
}

// WebSocketURL derives the push-channel endpoint from the API base URL.
func (c *Config) WebSocketURL() string {
	url := strings.TrimSuffix(c.API.URL, "/")
	url = strings.Replace(url, "https://", "wss://", 1)
	url = strings.Replace(url, "http://", "ws://", 1)
	return url + "/ws"
}
