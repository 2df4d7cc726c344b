package model

import (
	"errors"
	"fmt"
)

var (
	// Referenced device or sample does not exist
	ErrNotFound = errors.New("not found")

	// Registration with an identifier that is already taken
	ErrDuplicateDevice = errors.New("device already registered")

	// Contradictory mutation, e.g. re-attesting a sample with a different reference
	ErrConflict = errors.New("conflicting update")

	// Proof requested but there is no unattested sample
	ErrNoData = errors.New("no unattested sample")
)

// Malformed input. Never retried, surfaced to the caller and logged.
type ValidationError struct {
	Field  string
	Reason string
}

func (self *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", self.Field, self.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
