package planner

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"studyplan/core/model"
)

// Config defines allocation parameters loaded from configuration.
type Config struct {
	// DefaultWorkAheadDays applies to assessment types absent from
	// WorkAheadDays. Zero or negative falls back to 7.
	DefaultWorkAheadDays int `json:"default_work_ahead_days" yaml:"default_work_ahead_days"`
	// WorkAheadDays maps a normalized assessment type to its lead time in
	// days before the due date.
	WorkAheadDays map[string]int `json:"work_ahead_days" yaml:"work_ahead_days"`
	// BaseHours maps a normalized assessment type to its default required
	// study hours.
	BaseHours map[string]float64 `json:"base_hours" yaml:"base_hours"`
}

// SetDefaults fills empty tables with the stock per-type values.
func (c *Config) SetDefaults() {
	if c.DefaultWorkAheadDays <= 0 {
		c.DefaultWorkAheadDays = defaultWorkAheadDays
	}
	if c.WorkAheadDays == nil {
		c.WorkAheadDays = model.DefaultWorkAheadDays()
	}
	if c.BaseHours == nil {
		c.BaseHours = model.DefaultBaseHours()
	}
}

// Validate checks the tables for negative values.
func (c Config) Validate() error {
	for atype, days := range c.WorkAheadDays {
		if days < 0 {
			return fmt.Errorf("work_ahead_days[%s] must be non-negative", atype)
		}
	}
	for atype, hours := range c.BaseHours {
		if hours < 0 {
			return fmt.Errorf("base_hours[%s] must be non-negative", atype)
		}
	}
	return nil
}

// LoadConfig loads Config from a JSON or YAML file.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var cfg Config
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	default:
		return Config{}, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err != nil {
		return Config{}, err
	}
	cfg.SetDefaults()
	return cfg, cfg.Validate()
}

// DecodeConfig reads from r to decode a Config.
func DecodeConfig(r io.Reader, format string) (Config, error) {
	var cfg Config
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported format: %s", format)
	}
	cfg.SetDefaults()
	return cfg, cfg.Validate()
}
