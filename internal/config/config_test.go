package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/wordwidget/internal/shared"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Store.Group)

	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfigDecodesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[store]
group = "group.example.app"
backend = "redis"

[redis]
url = "redis://localhost:6379/2"

[refresh]
interval = "30m"

[display]
show-streak = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Store.Group)
	assert.Equal(t, "group.example.app", *cfg.Store.Group)
	require.NotNil(t, cfg.Refresh.Interval)
	assert.Equal(t, 30*time.Minute, time.Duration(*cfg.Refresh.Interval))
	require.NotNil(t, cfg.Display.ShowStreak)
	assert.False(t, *cfg.Display.ShowStreak)
	assert.Nil(t, cfg.Display.ShowStats)
}

func TestLoadConfigRejectsBadInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[refresh]\ninterval = \"hourly\"\n"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestResolveLayers(t *testing.T) {
	fileGroup := "group.file"
	fileBackend := shared.BackendRedis
	fileInterval := Duration(10 * time.Minute)
	fileStats := false
	envGroup := "group.env"
	envInterval := 5 * time.Minute

	s, err := Resolve(FileConfig{
		Store:   StoreConfig{Group: &fileGroup, Backend: &fileBackend},
		Refresh: RefreshConfig{Interval: &fileInterval},
		Display: DisplayConfig{ShowStats: &fileStats},
	}, EnvConfig{Group: &envGroup, Interval: &envInterval})
	require.NoError(t, err)

	assert.Equal(t, "group.env", s.Group)
	assert.Equal(t, shared.BackendRedis, s.Backend)
	assert.Equal(t, 5*time.Minute, s.Interval)
	assert.True(t, s.ShowStreak)
	assert.False(t, s.ShowStats)
	assert.Equal(t, DefaultGroupDir(), s.Dir)
}

func TestResolveDefaults(t *testing.T) {
	s, err := Resolve(FileConfig{}, EnvConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
	assert.Equal(t, time.Hour, s.Interval)
}

func TestResolveValidates(t *testing.T) {
	backend := "etcd"
	_, err := Resolve(FileConfig{Store: StoreConfig{Backend: &backend}}, EnvConfig{})
	assert.Error(t, err)

	zero := time.Duration(0)
	_, err = Resolve(FileConfig{}, EnvConfig{Interval: &zero})
	assert.Error(t, err)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("WORDWIDGET_GROUP", "group.from.env")
	t.Setenv("WORDWIDGET_BACKEND", "memory")
	t.Setenv("WORDWIDGET_REFRESH_INTERVAL", "2h")
	t.Setenv("WORDWIDGET_SHOW_STREAK", "false")

	s, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "group.from.env", s.Group)
	assert.Equal(t, shared.BackendMemory, s.Backend)
	assert.Equal(t, 2*time.Hour, s.Interval)
	assert.False(t, s.ShowStreak)
	assert.True(t, s.ShowStats)
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	assert.Equal(t, filepath.Join("/tmp/cfg", "wordwidget", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join("/tmp/data", "wordwidget", "groups"), DefaultGroupDir())
}
