// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Store   StoreConfig   `toml:"store"`
	Redis   RedisConfig   `toml:"redis"`
	Refresh RefreshConfig `toml:"refresh"`
	Display DisplayConfig `toml:"display"`
}

// StoreConfig maps shared storage settings.
type StoreConfig struct {
	Group   *string `toml:"group"`
	Backend *string `toml:"backend"`
	Dir     *string `toml:"dir"`
}

// RedisConfig maps Redis connection settings.
type RedisConfig struct {
	URL *string `toml:"url"`
}

// RefreshConfig maps refresh scheduling settings.
type RefreshConfig struct {
	Interval *Duration `toml:"interval"`
}

// DisplayConfig maps default display options.
type DisplayConfig struct {
	ShowStreak *bool `toml:"show-streak"`
	ShowStats  *bool `toml:"show-stats"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
