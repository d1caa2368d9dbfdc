package metrics

import (
	"strconv"

	coremetrics "github.com/kilianp07/pmsched/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink exposes the latest analysis of each project as Prometheus gauges.
type PromSink struct {
	runs        *prometheus.CounterVec
	duration    *prometheus.GaugeVec
	critical    *prometheus.GaugeVec
	float       *prometheus.GaugeVec
	peak        *prometheus.GaugeVec
	average     *prometheus.GaugeVec
	probability *prometheus.GaugeVec
	index       *prometheus.GaugeVec
}

// NewPromSink registers the analysis metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pmsched_analysis_runs_total",
			Help: "Number of completed analysis runs",
		}, []string{"project"}),
		duration: gaugeVec("pmsched_project_duration_days", "Deterministic project duration", "project"),
		critical: gaugeVec("pmsched_critical_activities", "Number of critical activities", "project"),
		float:    gaugeVec("pmsched_activity_total_float_days", "Total float per activity", "project", "activity"),
		peak:     gaugeVec("pmsched_resource_peak_units", "Peak daily demand per resource kind", "project", "kind"),
		average:  gaugeVec("pmsched_resource_average_units", "Average daily demand per resource kind", "project", "kind"),
		probability: gaugeVec("pmsched_completion_probability",
			"Probability of finishing within the target duration", "project", "target"),
		index: gaugeVec("pmsched_performance_index", "Earned value indices", "project", "index"),
	}

	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	for _, g := range []**prometheus.GaugeVec{&s.duration, &s.critical, &s.float, &s.peak, &s.average, &s.probability, &s.index} {
		if *g, err = register(reg, *g); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func gaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, labels)
}

// register returns the collector already registered under the same
// descriptor so several sinks can share the default registry.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSchedule updates the duration, critical count and float gauges.
func (s *PromSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	s.runs.WithLabelValues(ev.Project).Inc()
	s.duration.WithLabelValues(ev.Project).Set(float64(ev.Duration))
	critical := 0
	for _, a := range ev.Activities {
		if a.Critical {
			critical++
		}
		s.float.WithLabelValues(ev.Project, a.ID).Set(float64(a.TotalFloat))
	}
	s.critical.WithLabelValues(ev.Project).Set(float64(critical))
	return nil
}

// RecordResources sets peak and average demand per kind.
func (s *PromSink) RecordResources(ev coremetrics.ResourceEvent) error {
	for _, l := range ev.Loads {
		s.peak.WithLabelValues(ev.Project, l.Kind).Set(float64(l.Peak))
		s.average.WithLabelValues(ev.Project, l.Kind).Set(l.Average)
	}
	return nil
}

// RecordCompletion sets one probability gauge per target.
func (s *PromSink) RecordCompletion(ev coremetrics.CompletionEvent) error {
	for _, p := range ev.Points {
		s.probability.WithLabelValues(ev.Project, strconv.FormatFloat(p.Target, 'f', -1, 64)).Set(p.Probability)
	}
	return nil
}

// RecordPerformance sets the SPI, CPI and TCPI gauges.
func (s *PromSink) RecordPerformance(ev coremetrics.PerformanceEvent) error {
	s.index.WithLabelValues(ev.Project, "spi").Set(ev.SPI)
	s.index.WithLabelValues(ev.Project, "cpi").Set(ev.CPI)
	s.index.WithLabelValues(ev.Project, "tcpi").Set(ev.TCPI)
	return nil
}
