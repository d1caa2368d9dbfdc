package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDuration classifies negative durations and malformed
	// three-point estimates.
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrInvalidAttribute classifies other malformed activity fields.
	ErrInvalidAttribute = errors.New("invalid activity attribute")
	// ErrDuplicateActivity is returned when an identifier appears twice.
	ErrDuplicateActivity = errors.New("duplicate activity")
	// ErrNotFound is returned by lookups for an identifier the registry does
	// not hold.
	ErrNotFound = errors.New("activity not found")
)

// InvalidDurationError reports a negative duration or a badly ordered
// three-point estimate.
type InvalidDurationError struct {
	ID     string
	Reason string
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("%s: activity %q: %s", ErrInvalidDuration, e.ID, e.Reason)
}

func (e *InvalidDurationError) Unwrap() error { return ErrInvalidDuration }

// InvalidAttributeError reports a malformed cost, progress or resource field.
type InvalidAttributeError struct {
	ID     string
	Field  string
	Reason string
}

func (e *InvalidAttributeError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidAttribute, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: activity %q: %s: %s", ErrInvalidAttribute, e.ID, e.Field, e.Reason)
}

func (e *InvalidAttributeError) Unwrap() error { return ErrInvalidAttribute }

// DuplicateActivityError names an identifier registered more than once.
type DuplicateActivityError struct {
	ID string
}

func (e *DuplicateActivityError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicateActivity, e.ID)
}

func (e *DuplicateActivityError) Unwrap() error { return ErrDuplicateActivity }
