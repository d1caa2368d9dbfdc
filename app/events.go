package app

import (
	"context"
	"time"

	coremetrics "github.com/kilianp07/pmsched/core/metrics"
	coremqtt "github.com/kilianp07/pmsched/core/mqtt"
)

// Pipeline stages reported through WithStages.
const (
	StageSchedule    = "schedule"
	StagePERT        = "pert"
	StageResources   = "resources"
	StagePerformance = "performance"
	StageDone        = "done"
)

// StageEvent marks the end of one pipeline stage.
type StageEvent struct {
	RunID   string
	Project string
	Stage   string
	Elapsed time.Duration
	Err     error
}

func (a *Analyzer) stage(rep *Report, name string, start time.Time, err error) {
	if a.stages == nil || a.stages.Subscribers() == 0 {
		return
	}
	a.stages.Publish(StageEvent{RunID: rep.RunID, Project: rep.Project, Stage: name, Elapsed: time.Since(start), Err: err})
}

func (a *Analyzer) record(rep *Report) {
	ev := coremetrics.ScheduleEvent{RunID: rep.RunID, Project: rep.Project, Duration: rep.Schedule.Duration, Time: rep.GeneratedAt}
	for _, n := range rep.Schedule.Activities {
		ev.Activities = append(ev.Activities, coremetrics.ActivityTiming{
			ID: n.ID, Duration: n.Duration, ES: n.ES, EF: n.EF, LS: n.LS, LF: n.LF,
			TotalFloat: n.TotalFloat, Critical: n.Critical,
		})
	}
	if err := a.sink.RecordSchedule(ev); err != nil {
		a.log.Errorf("record schedule: %v", err)
	}

	if rec, ok := a.sink.(coremetrics.ResourceRecorder); ok && rep.Resources != nil {
		rev := coremetrics.ResourceEvent{RunID: rep.RunID, Project: rep.Project, Time: rep.GeneratedAt}
		for _, tl := range rep.Resources.Timelines {
			rev.Loads = append(rev.Loads, coremetrics.ResourceLoad{Kind: tl.Kind, Peak: tl.Peak, Average: tl.Average, Daily: tl.Daily})
		}
		if err := rec.RecordResources(rev); err != nil {
			a.log.Errorf("record resources: %v", err)
		}
	}

	if rec, ok := a.sink.(coremetrics.CompletionRecorder); ok && rep.PERT != nil {
		cev := coremetrics.CompletionEvent{
			RunID: rep.RunID, Project: rep.Project, Time: rep.GeneratedAt,
			Expected: rep.PERT.Path.Expected, StdDev: rep.PERT.Path.StdDev,
		}
		for _, c := range rep.PERT.Completions {
			cev.Points = append(cev.Points, coremetrics.CompletionPoint{Target: c.Target, Probability: c.Probability})
		}
		if err := rec.RecordCompletion(cev); err != nil {
			a.log.Errorf("record completion: %v", err)
		}
	}

	if rec, ok := a.sink.(coremetrics.PerformanceRecorder); ok && rep.Performance != nil {
		s := rep.Performance.Snapshot
		if err := rec.RecordPerformance(coremetrics.PerformanceEvent{
			RunID: rep.RunID, Project: rep.Project, Time: rep.GeneratedAt,
			BAC: s.BAC, PV: s.PV, EV: s.EV, AC: s.AC,
			SPI: s.SPI, CPI: s.CPI, EAC: s.EAC, VAC: s.VAC, TCPI: s.TCPI,
		}); err != nil {
			a.log.Errorf("record performance: %v", err)
		}
	}
}

// publish sends one message per available report section.
func (a *Analyzer) publish(ctx context.Context, rep *Report) {
	if a.pub == nil {
		return
	}
	sections := []struct {
		name string
		body any
		ok   bool
	}{
		{coremqtt.SectionSchedule, rep.Schedule, true},
		{coremqtt.SectionPERT, rep.PERT, rep.PERT != nil},
		{coremqtt.SectionResources, rep.Resources, rep.Resources != nil},
		{coremqtt.SectionPerformance, rep.Performance, rep.Performance != nil},
		{coremqtt.SectionRisk, rep.Risk, rep.Risk != nil},
	}
	for _, s := range sections {
		if !s.ok {
			continue
		}
		msg := coremqtt.Message{RunID: rep.RunID, Project: rep.Project, Section: s.name, Time: rep.GeneratedAt, Body: s.body}
		if err := a.pub.Publish(ctx, msg); err != nil {
			a.log.Errorf("publish %s: %v", s.name, err)
		}
	}
}
