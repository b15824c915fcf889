package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CITYOPS_CONFIG", "")
	t.Setenv("CITYOPS_BACKEND_URL", "")
	t.Setenv("CITYOPS_POLL_INTERVAL", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000/api", cfg.Backend.BaseURL)
	require.Equal(t, 60*time.Second, cfg.Monitor.Interval)
	require.Equal(t, ":8087", cfg.Server.ListenAddr)
	require.Equal(t, "var/session.json", cfg.SessionFile)
}

func TestLoadYAMLOverridesEnvDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
backend:
  base_url: https://city.example/api
  login: dispatcher
monitor:
  interval: 30s
server:
  listen_addr: ":9100"
`), 0o600))
	t.Setenv("CITYOPS_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://city.example/api", cfg.Backend.BaseURL)
	require.Equal(t, "dispatcher", cfg.Backend.Login)
	require.Equal(t, 30*time.Second, cfg.Monitor.Interval)
	require.Equal(t, ":9100", cfg.Server.ListenAddr)
}

func TestLoadIntervalFromEnvSeconds(t *testing.T) {
	t.Setenv("CITYOPS_CONFIG", "")
	t.Setenv("CITYOPS_POLL_INTERVAL", "45")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 45*time.Second, cfg.Monitor.Interval)
}

func TestLoadRejectsEmptyBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  base_url: \"\"\n"), 0o600))
	t.Setenv("CITYOPS_CONFIG", path)

	_, err := Load()
	require.Error(t, err)
}
