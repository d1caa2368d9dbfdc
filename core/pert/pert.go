package pert

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kilianp07/pmsched/core/model"
)

// RiskLevel classifies an activity by coefficient of variation.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Classify maps a coefficient of variation to a level:
// Low <= 0.1 < Medium <= 0.2 < High.
func Classify(cv float64) RiskLevel {
	switch {
	case cv <= 0.1:
		return RiskLow
	case cv <= 0.2:
		return RiskMedium
	default:
		return RiskHigh
	}
}

// ActivityEstimate is the PERT view of one activity.
type ActivityEstimate struct {
	ID          string    `json:"id"`
	Optimistic  float64   `json:"optimistic"`
	MostLikely  float64   `json:"most_likely"`
	Pessimistic float64   `json:"pessimistic"`
	Expected    float64   `json:"expected"`
	Variance    float64   `json:"variance"`
	StdDev      float64   `json:"std_dev"`
	CV          float64   `json:"cv"`
	Risk        RiskLevel `json:"risk"`
}

// Estimate computes expected = (o + 4m + p) / 6 and
// variance = ((p - o) / 6)^2 for a single activity.
func Estimate(id string, e model.Estimate) ActivityEstimate {
	expected := (e.Optimistic + 4*e.MostLikely + e.Pessimistic) / 6
	sd := (e.Pessimistic - e.Optimistic) / 6
	cv := 0.0
	if expected != 0 {
		cv = sd / expected
	}
	return ActivityEstimate{
		ID:          id,
		Optimistic:  e.Optimistic,
		MostLikely:  e.MostLikely,
		Pessimistic: e.Pessimistic,
		Expected:    expected,
		Variance:    sd * sd,
		StdDev:      sd,
		CV:          cv,
		Risk:        Classify(cv),
	}
}

// Analyze returns the estimates of every activity that carries a three-point
// estimate, in registry order.
func Analyze(reg *model.Registry) []ActivityEstimate {
	var out []ActivityEstimate
	for _, a := range reg.Activities() {
		if a.Estimate == nil {
			continue
		}
		out = append(out, Estimate(a.ID, *a.Estimate))
	}
	return out
}

// HighRisk filters estimates down to the High risk level.
func HighRisk(estimates []ActivityEstimate) []ActivityEstimate {
	var out []ActivityEstimate
	for _, e := range estimates {
		if e.Risk == RiskHigh {
			out = append(out, e)
		}
	}
	return out
}

// PathEstimate aggregates estimates over a set of activities.
type PathEstimate struct {
	Activities []string `json:"activities"`
	// Missing lists path members without a three-point estimate; they do not
	// contribute to Expected or Variance.
	Missing  []string `json:"missing,omitempty"`
	Expected float64  `json:"expected"`
	Variance float64  `json:"variance"`
	StdDev   float64  `json:"std_dev"`
}

// Aggregate sums expected durations and variances over path, usually the
// engine's critical set. Duplicates in path are counted once. Unknown
// identifiers are an error wrapping model.ErrNotFound.
func Aggregate(reg *model.Registry, path []string) (PathEstimate, error) {
	pe := PathEstimate{}
	seen := make(map[string]struct{}, len(path))
	var expected, variance []float64
	for _, id := range path {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		a, err := reg.Lookup(id)
		if err != nil {
			return PathEstimate{}, fmt.Errorf("aggregate path: %w", err)
		}
		pe.Activities = append(pe.Activities, id)
		if a.Estimate == nil {
			pe.Missing = append(pe.Missing, id)
			continue
		}
		e := Estimate(id, *a.Estimate)
		expected = append(expected, e.Expected)
		variance = append(variance, e.Variance)
	}
	pe.Expected = floats.Sum(expected)
	pe.Variance = floats.Sum(variance)
	pe.StdDev = math.Sqrt(pe.Variance)
	return pe, nil
}

// Completion is the probability of finishing within Target days.
type Completion struct {
	Target      float64 `json:"target"`
	Expected    float64 `json:"expected"`
	StdDev      float64 `json:"std_dev"`
	Z           float64 `json:"z"`
	Probability float64 `json:"probability"`
	// Deterministic is set when the answer comes from the zero-variance
	// step function rather than the normal distribution.
	Deterministic bool `json:"deterministic,omitempty"`
}

// Completion returns P(duration <= target) with z = (target - expected) / sd.
// A zero-variance path yields *DegenerateVarianceError.
func (p PathEstimate) Completion(target float64) (Completion, error) {
	if p.Variance == 0 {
		return Completion{}, &DegenerateVarianceError{Target: target, Expected: p.Expected}
	}
	z := (target - p.Expected) / p.StdDev
	return Completion{
		Target:      target,
		Expected:    p.Expected,
		StdDev:      p.StdDev,
		Z:           z,
		Probability: distuv.UnitNormal.CDF(z),
	}, nil
}

// MarshalJSON encodes an infinite z as null.
func (c Completion) MarshalJSON() ([]byte, error) {
	type plain Completion
	out := struct {
		plain
		Z *float64 `json:"z"`
	}{plain: plain(c)}
	if !math.IsInf(c.Z, 0) {
		z := c.Z
		out.Z = &z
	}
	return json.Marshal(out)
}

// CompletionStep is Completion with the zero-variance case resolved as a
// step at the expected duration: z is +Inf and the probability 1 when the
// target reaches the expected duration, -Inf and 0 otherwise.
func (p PathEstimate) CompletionStep(target float64) Completion {
	c, err := p.Completion(target)
	if err == nil {
		return c
	}
	c = Completion{Target: target, Expected: p.Expected, Deterministic: true}
	if target >= p.Expected {
		c.Z, c.Probability = math.Inf(1), 1
	} else {
		c.Z, c.Probability = math.Inf(-1), 0
	}
	return c
}

// Interval is a symmetric band around the expected duration.
type Interval struct {
	Sigmas float64 `json:"sigmas"`
	Low    float64 `json:"low"`
	High   float64 `json:"high"`
}

// Interval returns expected ± k·sd. One sigma is the 68% band, two the 95%
// band.
func (p PathEstimate) Interval(k float64) Interval {
	return Interval{Sigmas: k, Low: p.Expected - k*p.StdDev, High: p.Expected + k*p.StdDev}
}

// DurationFor returns the duration met with the given probability, the
// inverse of Completion. For a zero-variance path it is the expected value.
func (p PathEstimate) DurationFor(probability float64) (float64, error) {
	if probability <= 0 || probability >= 1 {
		return 0, fmt.Errorf("probability %g outside (0, 1)", probability)
	}
	if p.Variance == 0 {
		return p.Expected, nil
	}
	n := distuv.Normal{Mu: p.Expected, Sigma: p.StdDev}
	return n.Quantile(probability), nil
}
