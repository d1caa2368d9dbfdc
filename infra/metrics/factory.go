package metrics

import (
	"github.com/kilianp07/pmsched/core/factory"
	coremetrics "github.com/kilianp07/pmsched/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// init registers the builtin report sinks.
func init() {
	_ = coremetrics.RegisterReportSink("nop", func(map[string]any) (coremetrics.ReportSink, error) {
		return coremetrics.NopSink{}, nil
	})

	// The port belongs to the HTTP server; the sink only owns the collectors.
	_ = coremetrics.RegisterReportSink("prometheus", func(map[string]any) (coremetrics.ReportSink, error) {
		return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
	})

	_ = coremetrics.RegisterReportSink("influx", func(conf map[string]any) (coremetrics.ReportSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})

	_ = coremetrics.RegisterReportSink("sqlite", func(conf map[string]any) (coremetrics.ReportSink, error) {
		c := struct {
			Path string `json:"path"`
		}{Path: "pmsched.db"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSQLiteSink(c.Path)
	})

	_ = coremetrics.RegisterReportSink("jsonl", func(conf map[string]any) (coremetrics.ReportSink, error) {
		c := struct {
			Path       string `json:"path"`
			MaxSizeMB  int    `json:"max_size_mb"`
			MaxBackups int    `json:"max_backups"`
			MaxAgeDays int    `json:"max_age_days"`
		}{Path: "pmsched-runs.jsonl"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewJSONLSink(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})
}
