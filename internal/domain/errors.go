package domain

import (
	"errors"
	"sort"
	"strings"
)

// Error taxonomy shared by every layer. Layer-specific sentinels wrap one of these.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrTransient    = errors.New("temporarily unavailable")
	ErrForbidden    = errors.New("forbidden")
)

// ValidationError field-level messages, rendered as {"errors": {field: [msg]}}
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

// Add appends a message for field
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns e when it carries messages and nil otherwise
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// FieldErrors extracts field messages from anywhere in the chain
func FieldErrors(err error) (map[string][]string, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) && vErr.HasErrors() {
		return vErr.Fields, true
	}
	return nil, false
}
