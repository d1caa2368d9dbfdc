package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/pmsched/app"
	"github.com/kilianp07/pmsched/pkg/export"
)

var (
	targets      []float64
	criticalPath []string
	degenerate   string
	riskResource string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Compute early/late dates, float and the critical path",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSection(cmd, func(r *app.Report) (any, []export.Table, error) {
			return r.Schedule, []export.Table{export.ScheduleTable(r.Schedule.Activities)}, nil
		})
	},
}

var pertCmd = &cobra.Command{
	Use:   "pert",
	Short: "Three-point estimates and completion probabilities",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSection(cmd, func(r *app.Report) (any, []export.Table, error) {
			if r.PERT == nil {
				return nil, nil, fmt.Errorf("project %q has no three-point estimates", r.Project)
			}
			if r.PERT.Degenerate != "" {
				return nil, nil, fmt.Errorf("project %q: %s (use --degenerate step)", r.Project, r.PERT.Degenerate)
			}
			return r.PERT, []export.Table{export.EstimatesTable(r.PERT.Activities), export.CompletionTable(r.PERT.Completions)}, nil
		})
	},
}

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Project daily resource demand",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSection(cmd, func(r *app.Report) (any, []export.Table, error) {
			if r.Resources == nil {
				return nil, nil, fmt.Errorf("project %q has no resource demand", r.Project)
			}
			return r.Resources, []export.Table{export.TimelineTable(r.Resources), export.CandidatesTable(r.Resources.Candidates)}, nil
		})
	},
}

var evmCmd = &cobra.Command{
	Use:   "evm",
	Short: "Earned value performance indices",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSection(cmd, func(r *app.Report) (any, []export.Table, error) {
			if r.Performance == nil {
				return nil, nil, fmt.Errorf("project %q has no cost data", r.Project)
			}
			return r.Performance, []export.Table{export.SnapshotTable(r.Performance.Snapshot), export.CostVarianceTable(r.Performance.CostVariances)}, nil
		})
	},
}

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Critical activities, resource bottlenecks and float constraints",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSection(cmd, func(r *app.Report) (any, []export.Table, error) {
			return r.Risk, export.RiskTables(*r.Risk), nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{pertCmd, analyzeCmd} {
		c.Flags().Float64SliceVar(&targets, "target", nil, "completion target in days (repeatable)")
		c.Flags().StringSliceVar(&criticalPath, "path", nil, "activities used instead of the computed critical set")
		c.Flags().StringVar(&degenerate, "degenerate", "", "zero-variance policy: error or step")
	}
	for _, c := range []*cobra.Command{riskCmd, analyzeCmd} {
		c.Flags().StringVar(&riskResource, "resource", "", "resource kind scanned for bottlenecks")
	}
	rootCmd.AddCommand(scheduleCmd, pertCmd, resourcesCmd, evmCmd, riskCmd)
}
