package model

import "fmt"

// Estimate is a three-point duration estimate expressed in days.
type Estimate struct {
	Optimistic  float64 `json:"optimistic" yaml:"optimistic"`
	MostLikely  float64 `json:"most_likely" yaml:"most_likely"`
	Pessimistic float64 `json:"pessimistic" yaml:"pessimistic"`
}

// Validate checks that all values are positive and ordered
// optimistic <= most likely <= pessimistic.
func (e Estimate) Validate() error {
	if e.Optimistic <= 0 || e.MostLikely <= 0 || e.Pessimistic <= 0 {
		return fmt.Errorf("three-point values must be positive (%g/%g/%g)", e.Optimistic, e.MostLikely, e.Pessimistic)
	}
	if e.Optimistic > e.MostLikely || e.MostLikely > e.Pessimistic {
		return fmt.Errorf("three-point values out of order (%g/%g/%g)", e.Optimistic, e.MostLikely, e.Pessimistic)
	}
	return nil
}

// Activity is a unit of work in the project network. Duration is expressed in
// whole days; zero marks a milestone.
type Activity struct {
	ID              string         `json:"id" yaml:"id"`
	Duration        int            `json:"duration" yaml:"duration"`
	Estimate        *Estimate      `json:"estimate,omitempty" yaml:"estimate,omitempty"`
	BudgetCost      float64        `json:"budget_cost,omitempty" yaml:"budget_cost,omitempty"`
	ActualCost      float64        `json:"actual_cost,omitempty" yaml:"actual_cost,omitempty"`
	PercentComplete float64        `json:"percent_complete,omitempty" yaml:"percent_complete,omitempty"`
	Resources       map[string]int `json:"resources,omitempty" yaml:"resources,omitempty"`
}

// Validate checks the activity attributes. Duration and estimate problems are
// reported as *InvalidDurationError, every other problem as
// *InvalidAttributeError.
func (a Activity) Validate() error {
	if a.ID == "" {
		return &InvalidAttributeError{Field: "id", Reason: "identifier is required"}
	}
	if a.Duration < 0 {
		return &InvalidDurationError{ID: a.ID, Reason: fmt.Sprintf("negative duration %d", a.Duration)}
	}
	if a.Estimate != nil {
		if err := a.Estimate.Validate(); err != nil {
			return &InvalidDurationError{ID: a.ID, Reason: err.Error()}
		}
	}
	if a.BudgetCost < 0 {
		return &InvalidAttributeError{ID: a.ID, Field: "budget_cost", Reason: "must not be negative"}
	}
	if a.ActualCost < 0 {
		return &InvalidAttributeError{ID: a.ID, Field: "actual_cost", Reason: "must not be negative"}
	}
	if a.PercentComplete < 0 || a.PercentComplete > 100 {
		return &InvalidAttributeError{ID: a.ID, Field: "percent_complete", Reason: fmt.Sprintf("%g outside 0-100", a.PercentComplete)}
	}
	for kind, qty := range a.Resources {
		if kind == "" {
			return &InvalidAttributeError{ID: a.ID, Field: "resources", Reason: "empty resource kind"}
		}
		if qty < 0 {
			return &InvalidAttributeError{ID: a.ID, Field: "resources", Reason: fmt.Sprintf("negative demand %d for %s", qty, kind)}
		}
	}
	return nil
}

// Clone returns a deep copy of the activity.
func (a Activity) Clone() Activity {
	out := a
	if a.Estimate != nil {
		e := *a.Estimate
		out.Estimate = &e
	}
	if a.Resources != nil {
		out.Resources = make(map[string]int, len(a.Resources))
		for k, v := range a.Resources {
			out.Resources[k] = v
		}
	}
	return out
}

// Milestone reports whether the activity has zero duration.
func (a Activity) Milestone() bool { return a.Duration == 0 }
