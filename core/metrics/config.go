package metrics

import "github.com/kilianp07/pmsched/core/factory"

// Config defines settings for report sinks.
type Config struct {
	Sinks          []factory.ModuleConfig `json:"sinks"`
	PrometheusPort string                 `json:"prometheus_port"`
}
