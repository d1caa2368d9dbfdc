package cmd

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pmsched/app"
	"github.com/kilianp07/pmsched/config"
	coremetrics "github.com/kilianp07/pmsched/core/metrics"
	"github.com/kilianp07/pmsched/infra/logger"
	"github.com/kilianp07/pmsched/infra/metrics"
	"github.com/kilianp07/pmsched/infra/mqtt"
	"github.com/kilianp07/pmsched/internal/eventbus"
	"github.com/kilianp07/pmsched/pkg/export"
)

var serveMetrics bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run every analysis, record it to the metrics sinks and publish it",
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&serveMetrics, "serve", false, "keep serving /metrics after the run until interrupted")
	rootCmd.AddCommand(analyzeCmd)
}

// applyAnalysisFlags overrides the analysis section with explicit flags.
func applyAnalysisFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("target") {
		cfg.Analysis.Targets = targets
	}
	if f.Changed("path") {
		cfg.Analysis.CriticalPath = criticalPath
	}
	if f.Changed("degenerate") {
		cfg.Analysis.Degenerate = degenerate
	}
	if f.Changed("resource") {
		cfg.Analysis.RiskResource = riskResource
	}
	return cfg.Analysis.Validate()
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyAnalysisFlags(cmd, cfg); err != nil {
		return err
	}
	logg := logger.New("analyze")
	mon, flush, err := newMonitor(cfg)
	if err != nil {
		return err
	}
	defer flush()

	sink, err := coremetrics.NewReportSink(cfg.Metrics.Sinks)
	if err != nil {
		return fmt.Errorf("metrics sinks: %w", err)
	}
	defer closeSink(sink, logg)

	if cfg.Metrics.PrometheusPort != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, promAddr(cfg.Metrics.PrometheusPort)); err != nil {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}

	bus := eventbus.New[app.StageEvent](0)
	go logStages(bus.Subscribe(), logg)
	defer bus.Close()

	opts := []app.Option{app.WithSink(sink), app.WithStages(bus), app.WithMonitor(mon)}
	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("mqtt publisher: %w", err)
		}
		defer pub.Disconnect()
		opts = append(opts, app.WithPublisher(pub))
	}

	rep, err := analyze(ctx, cfg, opts...)
	if n := bus.Dropped(); n > 0 {
		logg.Warnf("%d stage events dropped", n)
	}
	if err != nil {
		return err
	}
	if err := write(cmd.OutOrStdout(), rep, reportTables(rep)); err != nil {
		return err
	}
	if serveMetrics && cfg.Metrics.PrometheusPort != "" {
		logg.Infof("serving metrics until interrupted")
		<-ctx.Done()
	}
	return nil
}

// promAddr accepts "9100" as well as ":9100" or "host:9100".
func promAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}

// reportTables flattens every present section of the report.
func reportTables(r *app.Report) []export.Table {
	tables := []export.Table{export.ScheduleTable(r.Schedule.Activities)}
	if r.PERT != nil {
		tables = append(tables, export.EstimatesTable(r.PERT.Activities), export.CompletionTable(r.PERT.Completions))
	}
	if r.Resources != nil {
		tables = append(tables, export.TimelineTable(r.Resources), export.CandidatesTable(r.Resources.Candidates))
	}
	if r.Performance != nil {
		tables = append(tables, export.SnapshotTable(r.Performance.Snapshot), export.CostVarianceTable(r.Performance.CostVariances))
	}
	if r.Risk != nil {
		tables = append(tables, export.RiskTables(*r.Risk)...)
	}
	return tables
}

func logStages(ch <-chan app.StageEvent, logg logger.Logger) {
	for ev := range ch {
		if ev.Err != nil {
			logg.Warnf("stage %s failed after %s: %v", ev.Stage, ev.Elapsed, ev.Err)
			continue
		}
		logg.Debugw("stage finished", map[string]any{"run_id": ev.RunID, "stage": ev.Stage, "elapsed": ev.Elapsed.String()})
	}
}

func closeSink(s coremetrics.ReportSink, logg logger.Logger) {
	closers := []coremetrics.ReportSink{s}
	if m, ok := s.(*coremetrics.MultiSink); ok {
		closers = m.Sinks
	}
	for _, c := range closers {
		if cl, ok := c.(io.Closer); ok {
			if err := cl.Close(); err != nil {
				logg.Errorf("close sink: %v", err)
			}
		}
	}
}
