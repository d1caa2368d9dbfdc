package metrics

import "github.com/kilianp07/pmsched/core/factory"

var sinkRegistry = factory.NewRegistry[ReportSink]()

// RegisterReportSink adds a sink factory identified by name.
func RegisterReportSink(name string, f factory.Factory[ReportSink]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes lists the registered sink names.
func SinkTypes() []string { return sinkRegistry.Names() }

// NewReportSink creates a ReportSink from the provided configuration.
func NewReportSink(cfgs []factory.ModuleConfig) (ReportSink, error) {
	sinks, err := sinkRegistry.CreateAll(cfgs)
	switch {
	case err != nil:
		return nil, err
	case len(sinks) == 0:
		return NopSink{}, nil
	case len(sinks) == 1:
		return sinks[0], nil
	}
	return NewMultiSink(sinks...), nil
}
