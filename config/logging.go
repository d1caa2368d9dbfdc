package config

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/kilianp07/pmsched/infra/logger"
)

// LoggingConfig defines the process log output.
type LoggingConfig struct {
	// Level is a zerolog level name.
	Level string `json:"level"`
	// Format is "json" or "console".
	Format string `json:"format"`
	// Backend is "zerolog" or "logrus".
	Backend string `json:"backend"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "json"
	}
	if c.Backend == "" {
		c.Backend = logger.BackendZerolog
	}
}

// Validate checks the level and format.
func (c LoggingConfig) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("unknown level %s", c.Level)
	}
	if c.Format != "json" && c.Format != "console" {
		return fmt.Errorf("unknown format %s", c.Format)
	}
	if c.Backend != logger.BackendZerolog && c.Backend != logger.BackendLogrus {
		return fmt.Errorf("unknown backend %s", c.Backend)
	}
	return nil
}

// Options converts the section for infra/logger.
func (c LoggingConfig) Options() logger.Options {
	return logger.Options{Level: c.Level, Format: c.Format, Backend: c.Backend}
}
