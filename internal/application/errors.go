package application

import (
	"errors"
	"fmt"

	"github.com/example/kita-dienstplan/internal/calendar"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a resource collides with an existing one,
	// e.g. a second entry for the same staff member and day.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrPeriodMissing is returned when no weekly period exists for a week.
	ErrPeriodMissing = errors.New("application: weekly period missing")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil {
		return ""
	}
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error. The first message for a field wins.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	if _, exists := v.FieldErrors[field]; exists {
		return
	}
	v.FieldErrors[field] = message
}

// merge copies entries from another validation error into the receiver.
func (v *ValidationError) merge(other *ValidationError) {
	if other == nil || len(other.FieldErrors) == 0 {
		return
	}
	for field, msg := range other.FieldErrors {
		v.add(field, msg)
	}
}

// PersistenceError reports a store failure that could not be recovered locally.
type PersistenceError struct {
	Op   string
	Week calendar.WeekID
	Err  error
}

func (e *PersistenceError) Error() string {
	if e == nil {
		return ""
	}
	if e.Week != (calendar.WeekID{}) {
		return fmt.Sprintf("application: %s %s: %v", e.Op, e.Week, e.Err)
	}
	return fmt.Sprintf("application: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
