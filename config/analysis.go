package config

import "fmt"

// Degenerate variance policies.
const (
	DegenerateError = "error"
	DegenerateStep  = "step"
)

// AnalysisConfig tunes the downstream analyses.
type AnalysisConfig struct {
	// Targets are the durations whose completion probability is reported.
	// Empty means the deterministic project duration.
	Targets []float64 `json:"targets"`
	// CriticalPath overrides the engine's critical set for the
	// probabilistic analysis.
	CriticalPath []string `json:"critical_path"`
	// Degenerate selects how a zero-variance path is handled.
	Degenerate string `json:"degenerate"`
	// ConfidenceLevels are probabilities turned into durations.
	ConfidenceLevels []float64 `json:"confidence_levels"`
	// RiskResource is the resource kind scanned for bottlenecks. Empty
	// picks the kind with the highest peak.
	RiskResource string `json:"risk_resource"`
	// ChainLimit bounds the number of enumerated critical chains.
	ChainLimit int `json:"chain_limit"`
}

// SetDefaults applies sane defaults.
func (c *AnalysisConfig) SetDefaults() {
	if c.Degenerate == "" {
		c.Degenerate = DegenerateError
	}
	if c.ConfidenceLevels == nil {
		c.ConfidenceLevels = []float64{0.5, 0.8, 0.95}
	}
	if c.ChainLimit == 0 {
		c.ChainLimit = 10
	}
}

// Validate checks the policy and probability ranges.
func (c AnalysisConfig) Validate() error {
	if c.Degenerate != DegenerateError && c.Degenerate != DegenerateStep {
		return fmt.Errorf("unknown degenerate policy %q", c.Degenerate)
	}
	for _, p := range c.ConfidenceLevels {
		if p <= 0 || p >= 1 {
			return fmt.Errorf("confidence level %g outside (0, 1)", p)
		}
	}
	for _, t := range c.Targets {
		if t < 0 {
			return fmt.Errorf("negative target %g", t)
		}
	}
	if c.ChainLimit < 0 {
		return fmt.Errorf("chain_limit must be positive")
	}
	return nil
}
