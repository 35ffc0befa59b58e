// Package daemon manages the Bloom daemon lifecycle and configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/bloom-wellness/bloom/internal/domain"
)

// Config holds all daemon configuration.
type Config struct {
	API           APIConfig           `toml:"api"`
	Storage       StorageConfig       `toml:"storage"`
	Notifications NotificationsConfig `toml:"notifications"`
	Telemetry     TelemetryConfig     `toml:"telemetry"`
	Logging       LoggingConfig       `toml:"logging"`
}

// APIConfig controls the HTTP API server.
type APIConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig controls where state lives.
type StorageConfig struct {
	Dir string `toml:"dir"`
}

// NotificationsConfig controls local notification delivery.
type NotificationsConfig struct {
	Enabled    bool   `toml:"enabled"`
	MaxPerDay  int    `toml:"max_per_day"`
	QuietStart string `toml:"quiet_start"`
	QuietEnd   string `toml:"quiet_end"`
}

// TelemetryConfig controls observability endpoints.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Policy converts the notification settings into a domain policy,
// falling back to defaults for unset fields.
func (n NotificationsConfig) Policy() domain.NotificationPolicy {
	p := domain.DefaultNotificationPolicy()
	if n.MaxPerDay > 0 {
		p.MaxPerDay = n.MaxPerDay
	}
	if n.QuietStart != "" {
		p.QuietStart = n.QuietStart
	}
	if n.QuietEnd != "" {
		p.QuietEnd = n.QuietEnd
	}
	return p
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	homeDir := bloomHome()
	return Config{
		API: APIConfig{
			Host: "127.0.0.1",
			Port: 8712,
		},
		Storage: StorageConfig{
			Dir: homeDir,
		},
		Notifications: NotificationsConfig{
			Enabled:    true,
			MaxPerDay:  3,
			QuietStart: "22:00",
			QuietEnd:   "08:00",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(homeDir, "bloom.log"),
		},
	}
}

// LoadConfig reads config from ~/.bloom/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(bloomHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet — use defaults
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.bloom/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(bloomHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// bloomHome returns the Bloom data directory.
func bloomHome() string {
	if env := os.Getenv("BLOOM_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".bloom")
}

// BloomHome is exported for use by other packages.
func BloomHome() string {
	return bloomHome()
}
