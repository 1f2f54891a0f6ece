package storage

import (
	"errors"
	"fmt"
)

// ErrNoFields is returned when an update carries no assignable fields and
// the entity's policy is to reject rather than no-op.
var ErrNoFields = errors.New("no fields to update")

// NotFoundError identifies which entity a lookup missed.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ConflictError reports a uniqueness violation on a named field.
type ConflictError struct {
	Resource string
	Field    string
	Value    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Resource, e.Field, e.Value)
}

// ValidationError reports a rejected input value.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
