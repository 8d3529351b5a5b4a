// ABOUTME: Configuration file handling for rssedit
// ABOUTME: Loads JSON settings from the XDG config directory layered over built-in defaults

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/harper/rssedit/internal/fetch"
	"github.com/harper/rssedit/internal/logging"
	"github.com/harper/rssedit/internal/retry"
)

// Config stores rssedit configuration. Zero values fall back to defaults.
type Config struct {
	// ListenAddr is the address `rssedit serve` binds to.
	ListenAddr string `json:"listen_addr,omitempty"`
	// RateLimitPerMinute caps feed loads per client IP on the HTTP API.
	// Negative disables the limit.
	RateLimitPerMinute int `json:"rate_limit_per_minute,omitempty"`

	// TimeoutSeconds bounds a single feed request.
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
	UserAgent      string `json:"user_agent,omitempty"`
	MaxBodyBytes   int64  `json:"max_body_bytes,omitempty"`

	// AllowPrivate disables the private network address check. Only useful
	// for feeds served on a LAN.
	AllowPrivate bool `json:"allow_private,omitempty"`

	MaxAttempts int `json:"max_attempts,omitempty"`
	BaseDelayMS int `json:"base_delay_ms,omitempty"`

	// OutputDir is where generated XML is written. Supports ~ expansion.
	OutputDir         string `json:"output_dir,omitempty"`
	MaxFilenameLength int    `json:"max_filename_length,omitempty"`
	// BatchRate is how many batch fetches may start per second.
	BatchRate float64 `json:"batch_rate,omitempty"`

	LogLevel    string `json:"log_level,omitempty"`
	LogJSON     bool   `json:"log_json,omitempty"`
	RenderStyle string `json:"render_style,omitempty"`
}

// Default returns a config with every field set to its default.
func Default() *Config {
	return &Config{
		ListenAddr:         DefaultListenAddr,
		RateLimitPerMinute: DefaultRateLimitPerMinute,
		TimeoutSeconds:     int(DefaultHTTPTimeout / time.Second),
		UserAgent:          DefaultUserAgent,
		MaxBodyBytes:       DefaultMaxBodyBytes,
		MaxAttempts:        DefaultMaxAttempts,
		BaseDelayMS:        int(DefaultBaseDelay / time.Millisecond),
		OutputDir:          ".",
		MaxFilenameLength:  DefaultMaxFilenameLength,
		BatchRate:          DefaultBatchRate,
		LogLevel:           "warn",
		RenderStyle:        DefaultRenderStyle,
	}
}

// Timeout returns the request timeout.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return DefaultHTTPTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BaseDelay returns the first retry delay.
func (c *Config) BaseDelay() time.Duration {
	if c.BaseDelayMS <= 0 {
		return DefaultBaseDelay
	}
	return time.Duration(c.BaseDelayMS) * time.Millisecond
}

// GetOutputDir returns the output directory with ~ expanded.
func (c *Config) GetOutputDir() string {
	if c.OutputDir == "" {
		return "."
	}
	return ExpandPath(c.OutputDir)
}

// FetchOptions returns the transport settings.
func (c *Config) FetchOptions() fetch.Options {
	return fetch.Options{
		Timeout:      c.Timeout(),
		UserAgent:    c.UserAgent,
		Accept:       DefaultAccept,
		MaxBytes:     c.MaxBodyBytes,
		AllowPrivate: c.AllowPrivate,
	}
}

// RetryOptions returns the backoff settings.
func (c *Config) RetryOptions() []retry.Option {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	return []retry.Option{
		retry.WithMaxAttempts(attempts),
		retry.WithBaseDelay(c.BaseDelay()),
	}
}

// LoggingOptions returns the logger settings.
func (c *Config) LoggingOptions() logging.Options {
	return logging.Options{Level: c.LogLevel, JSON: c.LogJSON}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "rssedit", "config.json")
}

// Load reads config from disk. A missing file yields the defaults.
func Load() (*Config, error) {
	return LoadFile(GetConfigPath())
}

// LoadFile reads config from path, layering it over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	return c.SaveFile(GetConfigPath())
}

// SaveFile writes config to path, replacing any existing file atomically.
func (c *Config) SaveFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPerms); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
