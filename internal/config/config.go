// Package config loads habitr settings from a YAML file with environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabasePath string        `yaml:"database_path"`
	WeekStart    string        `yaml:"week_start"` // sunday, monday
	SeedDemo     bool          `yaml:"seed_demo"`
	Theme        string        `yaml:"theme"` // light, dark
	Logging      LoggingConfig `yaml:"logging"`
	Metrics      MetricsConfig `yaml:"metrics"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Dir returns ~/.config/habitr
func Dir() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "habitr"), nil
}

// DefaultPath returns ~/.config/habitr/config.yaml
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func Default() *Config {
	dir, err := Dir()
	if err != nil {
		dir = "."
	}
	return &Config{
		DatabasePath: filepath.Join(dir, "habitr.db"),
		WeekStart:    "sunday",
		SeedDemo:     true,
		Theme:        "light",
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(dir, "habitr.log"),
		},
		Metrics: MetricsConfig{
			Addr: "127.0.0.1:9464",
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.DatabasePath = expandHome(cfg.DatabasePath)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	return cfg, nil
}

// ApplyEnv overrides fields from HABITR_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("HABITR_DB"); v != "" {
		c.DatabasePath = expandHome(v)
	}
	if v := os.Getenv("HABITR_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("HABITR_LOG_FILE"); v != "" {
		c.Logging.File = expandHome(v)
	}
	if v := os.Getenv("HABITR_METRICS_ADDR"); v != "" {
		c.Metrics.Addr = v
	}
}

func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return errors.New("database_path is empty")
	}
	if _, err := c.FirstWeekday(); err != nil {
		return err
	}
	switch c.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("theme %q: want light or dark", c.Theme)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q: want debug, info, warn or error", c.Logging.Level)
	}
	return nil
}

// FirstWeekday maps week_start to a time.Weekday.
func (c *Config) FirstWeekday() (time.Weekday, error) {
	switch strings.ToLower(c.WeekStart) {
	case "sunday", "":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	}
	return time.Sunday, fmt.Errorf("week_start %q: want sunday or monday", c.WeekStart)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
