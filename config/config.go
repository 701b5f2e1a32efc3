// Package config loads the service configuration from a yaml or json file
// with environment overrides.
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

	"github.com/kilianp07/farecast/core/registry"
	"github.com/kilianp07/farecast/infra/metrics"
)

// Config is the root configuration of the service.
type Config struct {
	Server  ServerConfig   `json:"server"`
	Models  ModelsConfig   `json:"models"`
	History HistoryConfig  `json:"history"`
	Metrics metrics.Config `json:"metrics"`
}

// ServerConfig defines the API listener.
type ServerConfig struct {
	Addr string `json:"addr"`
	// HistoryToken protects GET /api/predictions when non-empty.
	HistoryToken string `json:"history_token"`
}

// SetDefaults applies sane defaults.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// ModelsConfig locates the model artifacts and names the preferred model.
type ModelsConfig struct {
	// Dir holds the {identifier}_model.json artifacts.
	Dir string `json:"dir"`
	// Default is the model used when requests name none.
	Default string `json:"default"`
}

// SetDefaults applies sane defaults.
func (c *ModelsConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "models"
	}
	if c.Default == "" {
		c.Default = "random_forest"
	}
}

// Validate checks mandatory fields.
func (c ModelsConfig) Validate() error {
	if !registry.Known(c.Default) {
		return fmt.Errorf("unknown default model %s", c.Default)
	}
	return nil
}

// HistoryConfig defines settings for prediction history storage.
type HistoryConfig struct {
	Enabled bool `json:"enabled"`
	// Backend selects the store type: "jsonl" or "sqlite".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *HistoryConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "predictions.log"
	}
}

// Validate checks mandatory fields.
func (c HistoryConfig) Validate() error {
	if c.Backend != "jsonl" && c.Backend != "sqlite" {
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// Load reads the configuration at path, applies FARECAST_ environment
// overrides, then defaults and validation.
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
	// Optional environment overrides, e.g. FARECAST_SERVER__ADDR.
	if err := k.Load(env.Provider("FARECAST_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "farecast_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Server.SetDefaults()
	cfg.Models.SetDefaults()
	cfg.History.SetDefaults()
	cfg.Metrics.SetDefaults()
	if err := cfg.Models.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.History.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
