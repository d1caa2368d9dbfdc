package network

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownActivity classifies references to activities that are not in
	// the registry.
	ErrUnknownActivity = errors.New("unknown activity")
	// ErrCycleDetected classifies dependency lists whose relation is not
	// acyclic.
	ErrCycleDetected = errors.New("cycle detected")
)

// UnknownActivityError names a missing identifier and the activity whose
// dependency row referenced it. Successor is empty when the dependency row
// itself names an activity the registry does not hold.
type UnknownActivityError struct {
	ID        string
	Successor string
}

func (e *UnknownActivityError) Error() string {
	if e.Successor == "" {
		return fmt.Sprintf("%s: dependency row for %q", ErrUnknownActivity, e.ID)
	}
	return fmt.Sprintf("%s: %q (predecessor of %q)", ErrUnknownActivity, e.ID, e.Successor)
}

func (e *UnknownActivityError) Unwrap() error { return ErrUnknownActivity }

// CycleDetectedError carries one witness cycle. The first and last entries
// are the same activity.
type CycleDetectedError struct {
	Cycle []string
}

func (e *CycleDetectedError) Error() string {
	if len(e.Cycle) == 0 {
		return ErrCycleDetected.Error()
	}
	return fmt.Sprintf("%s: %s", ErrCycleDetected, strings.Join(e.Cycle, " -> "))
}

func (e *CycleDetectedError) Unwrap() error { return ErrCycleDetected }
