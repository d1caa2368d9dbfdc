package metrics

import "testing"

type recordSink struct {
	count int
}

func (r *recordSink) RecordSchedule(ScheduleEvent) error {
	r.count++
	return nil
}

func (r *recordSink) RecordPerformance(PerformanceEvent) error {
	r.count++
	return nil
}

// scheduleOnly implements no optional recorder.
type scheduleOnly struct{ count int }

func (s *scheduleOnly) RecordSchedule(ScheduleEvent) error {
	s.count++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	s3 := &scheduleOnly{}
	m := NewMultiSink(s1, s2, s3)
	if err := m.RecordSchedule(ScheduleEvent{}); err != nil {
		t.Fatalf("record schedule: %v", err)
	}
	if err := m.RecordPerformance(PerformanceEvent{}); err != nil {
		t.Fatalf("record performance: %v", err)
	}
	if err := m.RecordResources(ResourceEvent{}); err != nil {
		t.Fatalf("record resources: %v", err)
	}
	if s1.count != 2 || s2.count != 2 {
		t.Fatalf("events not forwarded")
	}
	if s3.count != 1 {
		t.Fatalf("expected schedule only, got %d", s3.count)
	}
}
