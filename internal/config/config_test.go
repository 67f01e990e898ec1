package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AKakshat1729/AGI-119/internal/clinical"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agi119.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 7, cfg.Analytics.VolatilityWindow)
	assert.Equal(t, 200, cfg.Analytics.DashboardHistory)
	assert.Equal(t, 15, cfg.Analytics.AlertsShown)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Setenv("TEST_AGI119_PATH", "/tmp/expanded.db")
	path := writeConfig(t, `
database:
  path: ${TEST_AGI119_PATH}
server:
  addr: ":9090"
  read_timeout: 5s
  cors_origins: ["https://clinic.example"]
ingest:
  workers: 2
analytics:
  stability_sensitivity: 2
  dashboard_history: 100
logging:
  mode: prod
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/expanded.db", cfg.Database.Path)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout, "unset keys keep defaults")
	assert.Equal(t, []string{"https://clinic.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 2, cfg.Ingest.Workers)
	assert.Equal(t, 256, cfg.Ingest.QueueSize)
	assert.Equal(t, 2.0, cfg.Analytics.StabilitySensitivity)
	assert.Equal(t, 7, cfg.Analytics.VolatilityWindow)
	assert.Equal(t, 100, cfg.Analytics.DashboardHistory)
	assert.Equal(t, "prod", cfg.Logging.Mode)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  addr: \":9090\"\ningest:\n  workers: 2\n")
	t.Setenv("AGI119_ADDR", ":7070")
	t.Setenv("AGI119_INGEST_WORKERS", "8")
	t.Setenv("AGI119_CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("AGI119_DB", "/data/env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, 8, cfg.Ingest.Workers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "/data/env.db", cfg.Database.Path)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config file")

	_, err = Load(writeConfig(t, "server: [unterminated"))
	assert.ErrorContains(t, err, "parse config")

	t.Setenv("AGI119_INGEST_WORKERS", "many")
	_, err = Load("")
	assert.ErrorContains(t, err, "AGI119_INGEST_WORKERS")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"negative timeout", func(c *Config) { c.Server.IdleTimeout = -time.Second }, "timeouts"},
		{"zero rate", func(c *Config) { c.Server.RateLimit.RequestsPerMinute = 0 }, "rate_limit"},
		{"zero workers", func(c *Config) { c.Ingest.Workers = 0 }, "ingest.workers"},
		{"zero queue", func(c *Config) { c.Ingest.QueueSize = 0 }, "ingest.queue_size"},
		{"short lookback", func(c *Config) { c.Analytics.TrendLookback = 1 }, "trend_lookback"},
		{"threshold range", func(c *Config) { c.Analytics.HighConfidence = 1.5 }, "high_confidence"},
		{"history", func(c *Config) { c.Analytics.AlertsShown = 0 }, "history limits"},
		{"log mode", func(c *Config) { c.Logging.Mode = "verbose" }, "logging.mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}

	disabled := Default()
	disabled.Server.RateLimit = RateLimitConfig{Enabled: false}
	assert.NoError(t, disabled.Validate(), "a disabled limiter needs no rates")
}

func TestClinicalSettings(t *testing.T) {
	cfg := Default()
	cfg.Ingest.Workers = 9
	cfg.Analytics.AlertsShown = 5

	got := cfg.Clinical()
	assert.Equal(t, 9, got.Workers)
	assert.Equal(t, 256, got.QueueSize)
	assert.Equal(t, 5, got.AlertsShown)
	assert.Equal(t, 50, got.AlertHistory)
	assert.Equal(t, cfg.Analytics.Config, got.Analytics)

	assert.Equal(t, clinical.DefaultSettings(), Default().Clinical(), "config defaults match the facade defaults")
}

func TestDBPath(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()

	flag := filepath.Join(dir, "flag", "a.db")
	got, err := cfg.DBPath(flag)
	require.NoError(t, err)
	assert.Equal(t, flag, got)
	assert.DirExists(t, filepath.Dir(flag))

	cfg.Database.Path = filepath.Join(dir, "cfg", "b.db")
	got, err = cfg.DBPath("")
	require.NoError(t, err)
	assert.Equal(t, cfg.Database.Path, got)

	cfg.Database.Path = ""
	t.Setenv("AGI119_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	got, err = cfg.DBPath("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "agi119", "analytics.db"), got)
}
