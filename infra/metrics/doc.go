// Package metrics holds the concrete report sinks: Prometheus gauges served
// on /metrics, InfluxDB points and a SQLite run history. Importing the
// package registers the builtin sink types with core/metrics.
package metrics
