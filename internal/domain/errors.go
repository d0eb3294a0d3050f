package domain

import (
	"errors"
	"strings"
)

// ErrNotFound is wrapped by every lookup of an absent post.
var ErrNotFound = errors.New("post not found")

// FieldError names one rejected input field.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError lists every field that blocked an operation. The
// operation that returned it had no side effect.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError from field errors.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Reason)
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Missing returns the rejected field names in input order.
func (e *ValidationError) Missing() []string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return names
}

// Has reports whether field was rejected.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
