package metrics

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []ReportSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...ReportSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSchedule forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordSchedule(ev ScheduleEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordSchedule(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordResources forwards resource timelines to sinks that support them.
func (m *MultiSink) RecordResources(ev ResourceEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(ResourceRecorder); ok {
			if err := rec.RecordResources(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordCompletion forwards completion probabilities.
func (m *MultiSink) RecordCompletion(ev CompletionEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(CompletionRecorder); ok {
			if err := rec.RecordCompletion(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordPerformance forwards earned value snapshots.
func (m *MultiSink) RecordPerformance(ev PerformanceEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(PerformanceRecorder); ok {
			if err := rec.RecordPerformance(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
