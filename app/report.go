package app

import (
	"time"

	"github.com/kilianp07/pmsched/core/evm"
	"github.com/kilianp07/pmsched/core/pert"
	"github.com/kilianp07/pmsched/core/resource"
	"github.com/kilianp07/pmsched/core/risk"
	"github.com/kilianp07/pmsched/core/schedule"
)

// Report is the combined result of one analysis run. Sections whose input
// data is absent from the project are nil.
type Report struct {
	RunID       string               `json:"run_id"`
	Project     string               `json:"project"`
	GeneratedAt time.Time            `json:"generated_at"`
	Schedule    ScheduleReport       `json:"schedule"`
	PERT        *PERTReport          `json:"pert,omitempty"`
	Resources   *resource.Projection `json:"resources,omitempty"`
	Performance *PerformanceReport   `json:"performance,omitempty"`
	Risk        *risk.Report         `json:"risk,omitempty"`
}

// ScheduleReport is the critical path engine output.
type ScheduleReport struct {
	Duration   int             `json:"duration"`
	Activities []schedule.Node `json:"activities"`
	Order      []string        `json:"order"`
	Critical   []string        `json:"critical"`
	Start      []string        `json:"start"`
	Finish     []string        `json:"finish"`
	Chains     [][]string      `json:"chains"`
	Waves      []schedule.Wave `json:"waves"`
}

// ConfidenceDuration is the duration met with the given probability.
type ConfidenceDuration struct {
	Probability float64 `json:"probability"`
	Duration    float64 `json:"duration"`
}

// PERTReport is the probabilistic analysis of the critical path.
type PERTReport struct {
	Activities  []pert.ActivityEstimate `json:"activities"`
	HighRisk    []string                `json:"high_risk"`
	Path        pert.PathEstimate       `json:"path"`
	Completions []pert.Completion       `json:"completions"`
	Intervals   []pert.Interval         `json:"intervals"`
	Confidence  []ConfidenceDuration    `json:"confidence"`
	// Degenerate is set when the path has zero variance and completion
	// probabilities were not computed.
	Degenerate string `json:"degenerate,omitempty"`
}

// PerformanceReport is the earned value analysis.
type PerformanceReport struct {
	Snapshot      evm.Snapshot       `json:"snapshot"`
	Assessment    evm.Assessment     `json:"assessment"`
	CostVariances []evm.CostVariance `json:"cost_variances"`
	Significant   []evm.CostVariance `json:"significant"`
}
