package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultTimezone is the shop timezone used when the config does not set one.
// All appointment dates and slot decisions are made in this zone.
const DefaultTimezone = "America/New_York"

// Config represents the flat Pitstop configuration.
type Config struct {
	Version      string `json:"version"`
	Timezone     string `json:"timezone,omitempty"`      // IANA zone, defaults to America/New_York
	DatabasePath string `json:"database_path,omitempty"` // overrides ~/.pitstop/pitstop.db
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{Version: "1.0", Timezone: DefaultTimezone}
}

// Load reads .pitstop/config.json from the user's home directory. A missing
// file is not an error; defaults are returned instead.
func Load() (*Config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.Timezone == "" {
		cfg.Timezone = DefaultTimezone
	}
	return &cfg, nil
}

// Save writes config.json to the user's .pitstop directory.
func Save(cfg *Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create .pitstop dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Location resolves the configured shop timezone.
func (c *Config) Location() (*time.Location, error) {
	zone := c.Timezone
	if zone == "" {
		zone = DefaultTimezone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", zone, err)
	}
	return loc, nil
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".pitstop", "config.json"), nil
}
