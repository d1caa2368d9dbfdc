package metrics

import "time"

// ActivityTiming is the per-activity row of a schedule event.
type ActivityTiming struct {
	ID         string
	Duration   int
	ES         int
	EF         int
	LS         int
	LF         int
	TotalFloat int
	Critical   bool
}

// ScheduleEvent is emitted once per analysis run.
type ScheduleEvent struct {
	RunID      string
	Project    string
	Duration   int
	Activities []ActivityTiming
	Time       time.Time
}

// ReportSink records analysis results for observability purposes.
type ReportSink interface {
	RecordSchedule(ev ScheduleEvent) error
}

// ResourceLoad summarizes one resource kind over the project horizon.
type ResourceLoad struct {
	Kind    string
	Peak    int
	Average float64
	Daily   []int
}

// ResourceEvent carries the resource timelines of a run.
type ResourceEvent struct {
	RunID   string
	Project string
	Loads   []ResourceLoad
	Time    time.Time
}

// ResourceRecorder records resource timelines.
type ResourceRecorder interface {
	RecordResources(ev ResourceEvent) error
}

// CompletionPoint is the probability of finishing within Target days.
type CompletionPoint struct {
	Target      float64
	Probability float64
}

// CompletionEvent carries the probabilistic analysis of a run.
type CompletionEvent struct {
	RunID    string
	Project  string
	Expected float64
	StdDev   float64
	Points   []CompletionPoint
	Time     time.Time
}

// CompletionRecorder records completion probabilities.
type CompletionRecorder interface {
	RecordCompletion(ev CompletionEvent) error
}

// PerformanceEvent carries the earned value snapshot of a run.
type PerformanceEvent struct {
	RunID   string
	Project string
	BAC     float64
	PV      float64
	EV      float64
	AC      float64
	SPI     float64
	CPI     float64
	EAC     float64
	VAC     float64
	TCPI    float64
	Time    time.Time
}

// PerformanceRecorder records earned value snapshots.
type PerformanceRecorder interface {
	RecordPerformance(ev PerformanceEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordSchedule(ScheduleEvent) error       { return nil }
func (NopSink) RecordResources(ResourceEvent) error      { return nil }
func (NopSink) RecordCompletion(CompletionEvent) error   { return nil }
func (NopSink) RecordPerformance(PerformanceEvent) error { return nil }
