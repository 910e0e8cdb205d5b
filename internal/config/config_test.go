package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:4000", cfg.API.BaseURL)
	require.Equal(t, 15*time.Second, cfg.API.Timeout)
	require.Equal(t, "labtrack.db", cfg.Cache.Path)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LABTRACK_API_URL", "http://backend.internal:9000")
	t.Setenv("LABTRACK_API_TIMEOUT", "30s")
	t.Setenv("LABTRACK_CACHE_PATH", "/tmp/labtrack-test.db")
	t.Setenv("LABTRACK_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://backend.internal:9000", cfg.API.BaseURL)
	require.Equal(t, 30*time.Second, cfg.API.Timeout)
	require.Equal(t, "/tmp/labtrack-test.db", cfg.Cache.Path)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadInvalidTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("LABTRACK_API_TIMEOUT", "soon")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://file.example:4000
  timeout: 45s
log:
  level: warn
`), 0o644))
	t.Setenv("LABTRACK_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://file.example:4000", cfg.API.BaseURL)
	require.Equal(t, 45*time.Second, cfg.API.Timeout)
	require.Equal(t, "warn", cfg.Log.Level)
	require.Equal(t, "labtrack.db", cfg.Cache.Path, "unset file fields keep their defaults")
}

func TestEnvWinsOverFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://file.example:4000\n"), 0o644))
	t.Setenv("LABTRACK_CONFIG_PATH", path)
	t.Setenv("LABTRACK_API_URL", "http://env.example:4000")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://env.example:4000", cfg.API.BaseURL)
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("LABTRACK_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LABTRACK_CONFIG_PATH",
		"LABTRACK_API_URL",
		"LABTRACK_API_TIMEOUT",
		"LABTRACK_CACHE_PATH",
		"LABTRACK_LOG_LEVEL",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}
