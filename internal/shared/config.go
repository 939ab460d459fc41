package shared

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Service  ServiceConfig  `toml:"service"`
	Client   ClientConfig   `toml:"client"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Mock     MockConfig     `toml:"mock"`
}

// ServiceConfig points at the remote catalog/collection service.
type ServiceConfig struct {
	BaseURL string `toml:"base_url"`
	UserID  int    `toml:"user_id"`
}

// ClientConfig tunes the HTTP client. Zero values disable the timeout and the rate limit.
type ClientConfig struct {
	Timeout   int     `toml:"timeout"`
	RateLimit float64 `toml:"rate_limit"`
}

// TimeoutDuration returns the configured timeout as a [time.Duration].
func (c ClientConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// DatabaseConfig contains activity journal connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LogConfig contains log level and file rotation settings.
type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// MockConfig contains settings for the bundled mock collection service.
type MockConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	UnlinkOnView bool   `toml:"unlink_on_view"`
}

// Addr returns host:port for the mock service listener.
func (m MockConfig) Addr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}

// LoadConfig reads a TOML file on top of the embedded defaults, so omitted keys keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the values the client cannot run without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Service.BaseURL) == "" {
		return fmt.Errorf("%w: service.base_url is required", ErrInvalidConfig)
	}
	if c.Service.UserID <= 0 {
		return fmt.Errorf("%w: service.user_id must be positive, got %d", ErrInvalidConfig, c.Service.UserID)
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("%w: client.timeout must not be negative", ErrInvalidConfig)
	}
	if c.Client.RateLimit < 0 {
		return fmt.Errorf("%w: client.rate_limit must not be negative", ErrInvalidConfig)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
