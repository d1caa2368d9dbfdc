package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/pmsched/config"
	"github.com/kilianp07/pmsched/core/evm"
	coremetrics "github.com/kilianp07/pmsched/core/metrics"
	"github.com/kilianp07/pmsched/core/model"
	coremon "github.com/kilianp07/pmsched/core/monitoring"
	coremqtt "github.com/kilianp07/pmsched/core/mqtt"
	"github.com/kilianp07/pmsched/core/network"
	"github.com/kilianp07/pmsched/core/pert"
	"github.com/kilianp07/pmsched/core/resource"
	"github.com/kilianp07/pmsched/core/risk"
	"github.com/kilianp07/pmsched/core/schedule"
	"github.com/kilianp07/pmsched/infra/logger"
	"github.com/kilianp07/pmsched/infra/source"
	"github.com/kilianp07/pmsched/internal/eventbus"
)

// Analyzer runs the fixed pipeline: registry, network, schedule, then the
// probabilistic, resource, risk and earned value analyses in parallel.
// Results are recorded to the sink and published when a publisher is set.
// Sink and publisher failures are logged; they never fail a run.
type Analyzer struct {
	cfg    config.AnalysisConfig
	sink   coremetrics.ReportSink
	pub    coremqtt.Publisher
	mon    coremon.Monitor
	stages *eventbus.Bus[StageEvent]
	log    logger.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithSink records every run to s.
func WithSink(s coremetrics.ReportSink) Option { return func(a *Analyzer) { a.sink = s } }

// WithPublisher publishes every run through p.
func WithPublisher(p coremqtt.Publisher) Option { return func(a *Analyzer) { a.pub = p } }

// WithMonitor reports failed runs and panics to m.
func WithMonitor(m coremon.Monitor) Option { return func(a *Analyzer) { a.mon = m } }

// WithStages publishes a StageEvent on bus after every pipeline stage.
func WithStages(bus *eventbus.Bus[StageEvent]) Option { return func(a *Analyzer) { a.stages = bus } }

// WithLogger replaces the default component logger.
func WithLogger(l logger.Logger) Option { return func(a *Analyzer) { a.log = l } }

// WithClock fixes the report timestamp source.
func WithClock(now func() time.Time) Option { return func(a *Analyzer) { a.now = now } }

// WithRunIDs replaces the uuid run id generator.
func WithRunIDs(f func() string) Option { return func(a *Analyzer) { a.newID = f } }

// NewAnalyzer returns an Analyzer for cfg. Defaults are applied to a copy of cfg.
func NewAnalyzer(cfg config.AnalysisConfig, opts ...Option) *Analyzer {
	cfg.SetDefaults()
	a := &Analyzer{
		cfg:   cfg,
		sink:  coremetrics.NopSink{},
		mon:   coremon.NopMonitor{},
		log:   logger.New("analyzer"),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// Analyze runs the pipeline on p. Invalid activities, dependencies or an
// unknown critical path identifier abort the run and no report is returned.
// A zero-variance path under the error policy only empties the completion
// table; the PERT section then carries the reason in Degenerate.
func (a *Analyzer) Analyze(ctx context.Context, p *source.Project) (*Report, error) {
	start := time.Now()
	rep := &Report{RunID: a.newID(), Project: p.Name, GeneratedAt: a.now()}
	if err := a.run(ctx, p, rep); err != nil {
		a.mon.CaptureError(err, map[string]string{"run_id": rep.RunID, "project": rep.Project})
		return nil, err
	}
	a.record(rep)
	a.publish(ctx, rep)
	a.stage(rep, StageDone, start, nil)
	return rep, nil
}

func (a *Analyzer) run(ctx context.Context, p *source.Project, rep *Report) error {
	start := time.Now()
	reg, err := model.NewRegistry(p.Activities)
	if err != nil {
		err = fmt.Errorf("activities: %w", err)
		a.stage(rep, StageSchedule, start, err)
		return err
	}
	net, err := network.Build(reg, p.Dependencies)
	if err != nil {
		err = fmt.Errorf("dependencies: %w", err)
		a.stage(rep, StageSchedule, start, err)
		return err
	}
	s := schedule.Compute(net)
	starts, finishes := s.Endpoints()
	rep.Schedule = ScheduleReport{
		Duration:   s.ProjectDuration(),
		Activities: s.Nodes(),
		Order:      net.OrderIDs(),
		Critical:   s.Critical(),
		Start:      starts,
		Finish:     finishes,
		Chains:     s.CriticalChains(a.cfg.ChainLimit),
		Waves:      s.Waves(),
	}
	a.stage(rep, StageSchedule, start, nil)
	a.log.Infow("schedule computed", map[string]any{
		"run_id":     rep.RunID,
		"activities": reg.Len(),
		"duration":   rep.Schedule.Duration,
		"critical":   len(rep.Schedule.Critical),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer a.mon.Recover()
		start := time.Now()
		pr, err := a.probabilistic(reg, s)
		if err != nil {
			err = fmt.Errorf("pert: %w", err)
			a.stage(rep, StagePERT, start, err)
			return err
		}
		var degenerate error
		if pr != nil && pr.Degenerate != "" {
			degenerate = fmt.Errorf("pert: %w", pert.ErrDegenerateVariance)
		}
		a.stage(rep, StagePERT, start, degenerate)
		rep.PERT = pr
		return gctx.Err()
	})
	g.Go(func() error {
		defer a.mon.Recover()
		start := time.Now()
		demand := resource.DemandFromRegistry(reg)
		proj := resource.Project(s, demand)
		if len(demand) > 0 {
			rep.Resources = proj
		}
		r := risk.Analyze(s, proj, a.riskKind(proj))
		rep.Risk = &r
		a.stage(rep, StageResources, start, nil)
		return gctx.Err()
	})
	g.Go(func() error {
		defer a.mon.Recover()
		start := time.Now()
		rep.Performance = a.performance(reg)
		a.stage(rep, StagePerformance, start, nil)
		return gctx.Err()
	})
	return g.Wait()
}

func (a *Analyzer) probabilistic(reg *model.Registry, s *schedule.Schedule) (*PERTReport, error) {
	estimates := pert.Analyze(reg)
	if len(estimates) == 0 {
		return nil, nil
	}
	path := a.cfg.CriticalPath
	if len(path) == 0 {
		path = s.Critical()
	}
	pe, err := pert.Aggregate(reg, path)
	if err != nil {
		return nil, err
	}
	if len(pe.Missing) > 0 {
		a.log.Warnf("critical activities without estimate: %v", pe.Missing)
	}

	pr := &PERTReport{Activities: estimates, Path: pe}
	for _, e := range pert.HighRisk(estimates) {
		pr.HighRisk = append(pr.HighRisk, e.ID)
	}
	targets := a.cfg.Targets
	if len(targets) == 0 {
		targets = []float64{float64(s.ProjectDuration())}
	}
	for _, t := range targets {
		c, err := pe.Completion(t)
		if errors.Is(err, pert.ErrDegenerateVariance) {
			if a.cfg.Degenerate != config.DegenerateStep {
				pr.Degenerate = err.Error()
				pr.Completions = nil
				a.log.Warnf("completion probabilities skipped: %v", err)
				break
			}
			c, err = pe.CompletionStep(t), nil
		}
		if err != nil {
			return nil, err
		}
		pr.Completions = append(pr.Completions, c)
	}
	pr.Intervals = []pert.Interval{pe.Interval(1), pe.Interval(2)}
	for _, prob := range a.cfg.ConfidenceLevels {
		d, err := pe.DurationFor(prob)
		if err != nil {
			return nil, err
		}
		pr.Confidence = append(pr.Confidence, ConfidenceDuration{Probability: prob, Duration: d})
	}
	return pr, nil
}

func (a *Analyzer) performance(reg *model.Registry) *PerformanceReport {
	records := evm.RecordsFromRegistry(reg)
	budgeted := false
	for _, r := range records {
		if r.Budget != 0 || r.Actual != 0 {
			budgeted = true
			break
		}
	}
	if !budgeted {
		return nil
	}
	snap := evm.Compute(records)
	vs := evm.CostVariances(records)
	return &PerformanceReport{
		Snapshot:      snap,
		Assessment:    evm.Assess(snap),
		CostVariances: vs,
		Significant:   evm.Significant(vs),
	}
}

// riskKind returns the configured kind or the one with the highest peak.
func (a *Analyzer) riskKind(p *resource.Projection) string {
	if a.cfg.RiskResource != "" {
		return a.cfg.RiskResource
	}
	kind, peak := "", -1
	for _, tl := range p.Timelines {
		if tl.Peak > peak {
			kind, peak = tl.Kind, tl.Peak
		}
	}
	return kind
}
