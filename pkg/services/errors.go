// Package services provides CRUD and lookup operations over the
// relational entities in spec.md §3 that sit outside the job queue and
// artifact store: companies, filings, documents, financial data, company
// groups, and the pipeline-run ledger.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an entity is not found.
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists is returned when attempting to create a duplicate
	// entity where uniqueness is required.
	ErrAlreadyExists = errors.New("entity already exists")

	// ErrAmbiguousHash is returned by short-hash prefix lookups that match
	// more than one row (spec.md §9 open question).
	ErrAmbiguousHash = errors.New("hash prefix matches more than one row")
)

// ValidationError wraps a field-specific validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is (or wraps) a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
