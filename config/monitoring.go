package config

import "fmt"

// MonitoringConfig groups the error tracking settings.
type MonitoringConfig struct {
	Sentry SentryConfig `json:"sentry"`
}

// SentryConfig defines settings for Sentry error monitoring. An empty DSN
// disables reporting.
type SentryConfig struct {
	DSN              string  `json:"dsn"`
	Environment      string  `json:"environment"`
	TracesSampleRate float64 `json:"traces_sample_rate"`
	Release          string  `json:"release"`
}

// Validate checks the sample rate.
func (c SentryConfig) Validate() error {
	if c.TracesSampleRate < 0 || c.TracesSampleRate > 1 {
		return fmt.Errorf("traces_sample_rate %g outside [0, 1]", c.TracesSampleRate)
	}
	return nil
}
