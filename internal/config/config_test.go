package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1", cfg.Server.Host)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 10, cfg.HTTP.TimeoutSeconds)
	require.Contains(t, cfg.HTTP.UserAgent, "Mozilla/5.0")
	require.Equal(t, 300, cfg.Cache.SweepIntervalSeconds)
	require.True(t, cfg.Logging.Development)
}

func TestLoadWithFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
server:
  host: 0.0.0.0
  port: 9090
http:
  timeout_seconds: 5
  user_agent: previewd-test/1.0
cache:
  sweep_interval_seconds: 60
logging:
  development: false
`
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, 5, cfg.HTTP.TimeoutSeconds)
	require.Equal(t, "previewd-test/1.0", cfg.HTTP.UserAgent)
	require.Equal(t, 60, cfg.Cache.SweepIntervalSeconds)
	require.False(t, cfg.Logging.Development)

	require.Equal(t, 5*time.Second, cfg.Timeout())
	require.Equal(t, time.Minute, cfg.SweepInterval())
}

func TestLoadHonorsBareHostPortEnv(t *testing.T) {
	t.Setenv("HOST", "10.0.0.5")
	t.Setenv("PORT", "3000")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "10.0.0.5", cfg.Server.Host)
	require.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadRejectsMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := Config{
		Server:  ServerConfig{Host: "127.0.0.1", Port: 8080},
		HTTP:    HTTPConfig{TimeoutSeconds: 10},
		Cache:   CacheConfig{SweepIntervalSeconds: 300},
		Logging: LoggingConfig{Development: true},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty host", mutate: func(c *Config) { c.Server.Host = "" }},
		{name: "zero port", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }},
		{name: "zero timeout", mutate: func(c *Config) { c.HTTP.TimeoutSeconds = 0 }},
		{name: "zero sweep interval", mutate: func(c *Config) { c.Cache.SweepIntervalSeconds = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tc.mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
