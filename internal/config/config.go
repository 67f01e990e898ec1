// Package config loads the engine configuration: defaults, then an
// optional YAML file with ${VAR} expansion, then AGI119_* environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AKakshat1729/AGI-119/internal/analytics"
	"github.com/AKakshat1729/AGI-119/internal/clinical"
	"github.com/AKakshat1729/AGI-119/internal/store"
)

// Config is the top-level configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Server    ServerConfig    `yaml:"server"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type DatabaseConfig struct {
	// Path to the SQLite file. Empty means the XDG default.
	Path string `yaml:"path"`
}

type ServerConfig struct {
	Addr         string          `yaml:"addr"`
	ReadTimeout  time.Duration   `yaml:"read_timeout"`
	WriteTimeout time.Duration   `yaml:"write_timeout"`
	IdleTimeout  time.Duration   `yaml:"idle_timeout"`
	CORSOrigins  []string        `yaml:"cors_origins"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig is a per-client token bucket on write endpoints.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	Burst             int  `yaml:"burst"`
}

// IngestConfig sizes the async ingestion worker pool.
type IngestConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

// AnalyticsConfig carries the engine tunables plus how much history each
// read looks at.
type AnalyticsConfig struct {
	analytics.Config `yaml:",inline"`

	DashboardHistory  int `yaml:"dashboard_history"`
	AlertHistory      int `yaml:"alert_history"`
	ReportTranscripts int `yaml:"report_transcripts"`
	MemoryHistory     int `yaml:"memory_history"`
	AlertsShown       int `yaml:"alerts_shown"`
}

type LoggingConfig struct {
	// Mode is "dev" or "prod".
	Mode string `yaml:"mode"`
}

// Default returns a configuration with defaults filled in.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
			CORSOrigins:  []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             20,
			},
		},
		Ingest: IngestConfig{
			Workers:   4,
			QueueSize: 256,
		},
		Analytics: AnalyticsConfig{
			Config:            analytics.DefaultConfig(),
			DashboardHistory:  200,
			AlertHistory:      50,
			ReportTranscripts: 50,
			MemoryHistory:     50,
			AlertsShown:       15,
		},
		Logging: LoggingConfig{Mode: "dev"},
	}
}

// Load reads path (skipped when empty), applies environment overrides and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("AGI119_DB"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("AGI119_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("AGI119_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = splitList(v)
	}
	if v := os.Getenv("AGI119_LOG_MODE"); v != "" {
		c.Logging.Mode = v
	}
	for name, dst := range map[string]*int{
		"AGI119_INGEST_WORKERS":    &c.Ingest.Workers,
		"AGI119_INGEST_QUEUE_SIZE": &c.Ingest.QueueSize,
		"AGI119_RATE_LIMIT_RPM":    &c.Server.RateLimit.RequestsPerMinute,
	} {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		return fmt.Errorf("server timeouts cannot be negative")
	}
	if rl := c.Server.RateLimit; rl.Enabled && (rl.RequestsPerMinute <= 0 || rl.Burst <= 0) {
		return fmt.Errorf("server.rate_limit: requests_per_minute and burst must be positive")
	}
	if c.Ingest.Workers <= 0 {
		return fmt.Errorf("ingest.workers must be positive, got %d", c.Ingest.Workers)
	}
	if c.Ingest.QueueSize <= 0 {
		return fmt.Errorf("ingest.queue_size must be positive, got %d", c.Ingest.QueueSize)
	}

	a := c.Analytics
	if a.VolatilityWindow <= 0 || a.SmoothingWindow <= 0 || a.TrendLookback < 2 {
		return fmt.Errorf("analytics: windows must be positive and trend_lookback at least 2")
	}
	if a.StabilitySensitivity < 0 || a.TrendDelta < 0 {
		return fmt.Errorf("analytics: stability_sensitivity and trend_delta cannot be negative")
	}
	for name, v := range map[string]float64{
		"high_confidence":            a.HighConfidence,
		"anxiety_category_threshold": a.AnxietyCategoryThreshold,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("analytics.%s must be in [0, 1], got %v", name, v)
		}
	}
	if a.DashboardHistory <= 0 || a.AlertHistory <= 0 || a.ReportTranscripts <= 0 || a.MemoryHistory <= 0 || a.AlertsShown <= 0 {
		return fmt.Errorf("analytics: history limits must be positive")
	}

	switch strings.ToLower(c.Logging.Mode) {
	case "dev", "development", "prod", "production":
	default:
		return fmt.Errorf("logging.mode must be dev or prod, got %q", c.Logging.Mode)
	}
	return nil
}

// DBPath resolves the database file: flag, then the configured path
// (which AGI119_DB already overrides), then the XDG default.
func (c *Config) DBPath(flag string) (string, error) {
	switch {
	case flag != "":
		return flag, store.EnsureDir(flag)
	case c.Database.Path != "":
		return c.Database.Path, store.EnsureDir(c.Database.Path)
	}
	return store.DefaultDBPath()
}

// Clinical maps the ingest and analytics sections onto facade settings.
func (c *Config) Clinical() clinical.Settings {
	a := c.Analytics
	return clinical.Settings{
		Analytics:         a.Config,
		Workers:           c.Ingest.Workers,
		QueueSize:         c.Ingest.QueueSize,
		DashboardHistory:  a.DashboardHistory,
		AlertHistory:      a.AlertHistory,
		ReportTranscripts: a.ReportTranscripts,
		MemoryHistory:     a.MemoryHistory,
		AlertsShown:       a.AlertsShown,
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
