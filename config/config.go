package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"studyplan/core/metrics"
	"studyplan/core/planner"
)

type Config struct {
	Server  ServerConfig   `json:"server"`
	Store   StoreConfig    `json:"store"`
	Metrics metrics.Config `json:"metrics"`
	Planner planner.Config `json:"planner"`
}

// ServerConfig controls the HTTP API surface.
type ServerConfig struct {
	Addr string `json:"addr"`
	// AuthToken, when set, is required as a Bearer token on every API call.
	AuthToken    string `json:"auth_token"`
	CalendarName string `json:"calendar_name"`
}

// StoreConfig locates the SQLite database holding per-user documents.
type StoreConfig struct {
	Path string `json:"path"`
}

func (c *Config) SetDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.CalendarName == "" {
		c.Server.CalendarName = "Study Schedule"
	}
	if c.Store.Path == "" {
		c.Store.Path = "studyplan.db"
	}
	if c.Metrics.PrometheusPort == "" {
		c.Metrics.PrometheusPort = ":9090"
	}
	c.Planner.SetDefaults()
}

func (c *Config) Validate() error {
	return c.Planner.Validate()
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides. The callback rewrites SP_SERVER__ADDR
	// to server.addr, so the provider must split on the koanf delimiter.
	if err := k.Load(env.Provider("SP_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "sp_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration usable without any file on disk.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}
