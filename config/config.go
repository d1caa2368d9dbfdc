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

	"github.com/kilianp07/pmsched/core/metrics"
	"github.com/kilianp07/pmsched/infra/mqtt"
)

// EnvPrefix selects environment overrides, e.g.
// PMSCHED_ANALYSIS__DEGENERATE=step sets analysis.degenerate.
const EnvPrefix = "PMSCHED_"

type Config struct {
	Project    ProjectConfig    `json:"project"`
	Analysis   AnalysisConfig   `json:"analysis"`
	Logging    LoggingConfig    `json:"logging"`
	Metrics    metrics.Config   `json:"metrics"`
	MQTT       mqtt.Config      `json:"mqtt"`
	Monitoring MonitoringConfig `json:"monitoring"`
}

// Load reads a YAML or JSON file, applies environment overrides and
// defaults, then validates every section. Relative project paths are
// resolved against the directory of the file.
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
	if err := loadEnv(k); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Project.ResolvePaths(filepath.Dir(path))
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FromEnv builds a configuration from defaults and environment overrides
// only. It is used when no file is given on the command line.
func FromEnv() (*Config, error) {
	k := koanf.New(".")
	if err := loadEnv(k); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	return &cfg, nil
}

func loadEnv(k *koanf.Koanf) error {
	prefix := strings.ToLower(EnvPrefix)
	return k.Load(env.Provider(EnvPrefix, "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), prefix)
		return strings.ReplaceAll(s, "__", ".")
	}), nil)
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Project.SetDefaults()
	c.Analysis.SetDefaults()
	c.Logging.SetDefaults()
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = "pmsched"
	}
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Project.Validate(); err != nil {
		return fmt.Errorf("project: %w", err)
	}
	if err := c.Analysis.Validate(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("mqtt: broker is required when enabled")
	}
	if err := c.Monitoring.Sentry.Validate(); err != nil {
		return fmt.Errorf("monitoring: %w", err)
	}
	return nil
}
