package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverlaysFile(t *testing.T) {
	path := writeConfig(t, `
database_path: /tmp/h.db
week_start: monday
seed_demo: false
logging:
  level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/h.db", cfg.DatabasePath)
	assert.False(t, cfg.SeedDemo)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, "light", cfg.Theme)
	assert.Equal(t, Default().Logging.File, cfg.Logging.File)

	wd, err := cfg.FirstWeekday()
	require.NoError(t, err)
	assert.Equal(t, time.Monday, wd)
}

func TestLoadMalformed(t *testing.T) {
	path := writeConfig(t, "week_start: [oops\n")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	path := writeConfig(t, "database_path: ~/habits/h.db\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "habits", "h.db"), cfg.DatabasePath)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("HABITR_DB", "/data/h.db")
	t.Setenv("HABITR_LOG_LEVEL", "warn")
	t.Setenv("HABITR_LOG_FILE", "/data/h.log")
	t.Setenv("HABITR_METRICS_ADDR", ":9999")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "/data/h.db", cfg.DatabasePath)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "/data/h.log", cfg.Logging.File)
	assert.Equal(t, ":9999", cfg.Metrics.Addr)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"week start", func(c *Config) { c.WeekStart = "friday" }},
		{"theme", func(c *Config) { c.Theme = "neon" }},
		{"log level", func(c *Config) { c.Logging.Level = "loud" }},
		{"db path", func(c *Config) { c.DatabasePath = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
