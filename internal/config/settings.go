package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/verte-zerg/wordwidget/internal/shared"
)

// Defaults.
const (
	DefaultGroup    = "group.wordwidget.shared"
	DefaultBackend  = shared.BackendSQLite
	DefaultInterval = time.Hour
)

// Settings is the effective configuration after layering defaults, the
// config file and the environment. CLI flags are applied on top by the caller.
type Settings struct {
	Group      string
	Backend    string
	Dir        string
	RedisURL   string
	Interval   time.Duration
	ShowStreak bool
	ShowStats  bool
}

// EnvConfig lists the environment overrides. Unset variables keep the lower layer.
type EnvConfig struct {
	Group      *string        `env:"WORDWIDGET_GROUP"`
	Backend    *string        `env:"WORDWIDGET_BACKEND"`
	Dir        *string        `env:"WORDWIDGET_DIR"`
	RedisURL   *string        `env:"WORDWIDGET_REDIS_URL"`
	Interval   *time.Duration `env:"WORDWIDGET_REFRESH_INTERVAL"`
	ShowStreak *bool          `env:"WORDWIDGET_SHOW_STREAK"`
	ShowStats  *bool          `env:"WORDWIDGET_SHOW_STATS"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Group:      DefaultGroup,
		Backend:    DefaultBackend,
		Dir:        DefaultGroupDir(),
		Interval:   DefaultInterval,
		ShowStreak: true,
		ShowStats:  true,
	}
}

// ParseEnv reads the environment overrides.
func ParseEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Resolve layers file and environment values over the defaults.
func Resolve(file FileConfig, envCfg EnvConfig) (Settings, error) {
	s := DefaultSettings()

	apply(&s.Group, file.Store.Group)
	apply(&s.Backend, file.Store.Backend)
	apply(&s.Dir, file.Store.Dir)
	apply(&s.RedisURL, file.Redis.URL)
	if file.Refresh.Interval != nil {
		s.Interval = time.Duration(*file.Refresh.Interval)
	}
	apply(&s.ShowStreak, file.Display.ShowStreak)
	apply(&s.ShowStats, file.Display.ShowStats)

	apply(&s.Group, envCfg.Group)
	apply(&s.Backend, envCfg.Backend)
	apply(&s.Dir, envCfg.Dir)
	apply(&s.RedisURL, envCfg.RedisURL)
	apply(&s.Interval, envCfg.Interval)
	apply(&s.ShowStreak, envCfg.ShowStreak)
	apply(&s.ShowStats, envCfg.ShowStats)

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Load reads the config file at path and the environment.
func Load(path string) (Settings, error) {
	file, err := LoadConfig(path)
	if err != nil {
		return Settings{}, err
	}
	envCfg, err := ParseEnv()
	if err != nil {
		return Settings{}, err
	}
	return Resolve(file, envCfg)
}

// Validate checks backend and interval. The storage group is checked when
// the store is opened, where a bad group degrades to an always-empty store.
func (s Settings) Validate() error {
	switch s.Backend {
	case shared.BackendSQLite, shared.BackendRedis, shared.BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", s.Backend)
	}
	if s.Interval <= 0 {
		return fmt.Errorf("refresh interval must be > 0")
	}
	return nil
}

func apply[T any](target *T, value *T) {
	if value == nil {
		return
	}
	*target = *value
}
