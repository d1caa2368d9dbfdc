package pert

import (
	"errors"
	"fmt"
)

// ErrDegenerateVariance classifies probability queries on a path whose
// variance is exactly zero.
var ErrDegenerateVariance = errors.New("degenerate variance")

// DegenerateVarianceError is returned by PathEstimate.Completion when the
// path has no spread. Callers that want a deterministic answer can use
// PathEstimate.CompletionStep instead.
type DegenerateVarianceError struct {
	Target   float64
	Expected float64
}

func (e *DegenerateVarianceError) Error() string {
	return fmt.Sprintf("%s: zero variance path (expected %g, target %g)", ErrDegenerateVariance, e.Expected, e.Target)
}

func (e *DegenerateVarianceError) Unwrap() error { return ErrDegenerateVariance }
