// Package config loads the YAML application configuration: where the
// reminder document lives, the logical day boundary, and tuning for
// expansion and the future-instance search.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"remindkit/internal/dates"
	"remindkit/internal/engine"
)

// SearchSettings mirrors engine.SearchConfig in YAML form.
type SearchSettings struct {
	InitialMonths        int `yaml:"initial_months"`
	InitialMonthsMonthly int `yaml:"initial_months_monthly"`
	InitialMonthsYearly  int `yaml:"initial_months_yearly"`
	WidenMonths          int `yaml:"widen_months"`
	WidenMonthsYearly    int `yaml:"widen_months_yearly"`
	MaxAttempts          int `yaml:"max_attempts"`
	InstancesPerMonth    int `yaml:"instances_per_month"`
}

// Config is the top-level application configuration.
type Config struct {
	// Store is the path of the reminder document. ".json" selects the JSON
	// file store, ".db"/".sqlite" the SQLite store, "memory" an in-memory
	// store.
	Store string `yaml:"store"`

	// DayStartHour is the logical day boundary (0-23). Before this hour the
	// previous calendar day still counts as "today" for past/future
	// decisions. 0 means midnight.
	DayStartHour int `yaml:"day_start_hour"`

	// MaxInstances caps one expansion pass.
	MaxInstances int `yaml:"max_instances"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Search SearchSettings `yaml:"search"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		Store:        "reminders.json",
		DayStartHour: 0,
		MaxInstances: engine.DefaultMaxInstances,
		LogLevel:     "info",
		Search: SearchSettings{
			InitialMonths:        engine.DefaultSearchConfig.InitialMonths,
			InitialMonthsMonthly: engine.DefaultSearchConfig.InitialMonthsMonthly,
			InitialMonthsYearly:  engine.DefaultSearchConfig.InitialMonthsYearly,
			WidenMonths:          engine.DefaultSearchConfig.WidenMonths,
			WidenMonthsYearly:    engine.DefaultSearchConfig.WidenMonthsYearly,
			MaxAttempts:          engine.DefaultSearchConfig.MaxAttempts,
			InstancesPerMonth:    engine.DefaultSearchConfig.InstancesPerMonth,
		},
	}
}

// Normalize fills missing or out-of-range values with defaults so partially
// filled configs still behave.
func (c *Config) Normalize() {
	def := DefaultConfig()
	if c.Store == "" {
		c.Store = def.Store
	}
	if c.DayStartHour < 0 || c.DayStartHour > 23 {
		c.DayStartHour = 0
	}
	if c.MaxInstances <= 0 {
		c.MaxInstances = def.MaxInstances
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = "info"
	}
	if c.Search.InitialMonths <= 0 {
		c.Search.InitialMonths = def.Search.InitialMonths
	}
	if c.Search.InitialMonthsMonthly <= 0 {
		c.Search.InitialMonthsMonthly = def.Search.InitialMonthsMonthly
	}
	if c.Search.InitialMonthsYearly <= 0 {
		c.Search.InitialMonthsYearly = def.Search.InitialMonthsYearly
	}
	if c.Search.WidenMonths <= 0 {
		c.Search.WidenMonths = def.Search.WidenMonths
	}
	if c.Search.WidenMonthsYearly <= 0 {
		c.Search.WidenMonthsYearly = def.Search.WidenMonthsYearly
	}
	if c.Search.MaxAttempts <= 0 {
		c.Search.MaxAttempts = def.Search.MaxAttempts
	}
	if c.Search.InstancesPerMonth <= 0 {
		c.Search.InstancesPerMonth = def.Search.InstancesPerMonth
	}
}

// SearchConfig converts the YAML settings into engine tuning.
func (c *Config) SearchConfig() engine.SearchConfig {
	return engine.SearchConfig{
		InitialMonths:        c.Search.InitialMonths,
		InitialMonthsMonthly: c.Search.InitialMonthsMonthly,
		InitialMonthsYearly:  c.Search.InitialMonthsYearly,
		WidenMonths:          c.Search.WidenMonths,
		WidenMonthsYearly:    c.Search.WidenMonthsYearly,
		MaxAttempts:          c.Search.MaxAttempts,
		InstancesPerMonth:    c.Search.InstancesPerMonth,
	}
}

// LogicalToday returns today's logical date under the configured day
// boundary.
func (c *Config) LogicalToday(now time.Time) string {
	return dates.LogicalDate(now, c.DayStartHour)
}

// Load reads configuration from a YAML path. A missing file creates a
// default config on disk and returns it (first run).
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return &cfg, nil
}

// Save writes the configuration atomically with 0600 permissions.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}
	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".remindkit-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
