package models

import (
	"errors"
	"fmt"
	"time"
)

// Failure kinds. Every error returned by the journal service wraps exactly one of these.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation error")
	ErrAdmissionDenied = errors.New("admission denied")
	ErrStore           = errors.New("store failure")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// AdmissionReason says why the admission controller turned a request away.
type AdmissionReason string

const (
	AdmissionRateLimit AdmissionReason = "rate_limit"
	AdmissionBlocked   AdmissionReason = "blocked"
)

// AdmissionError carries the quota details of a denied request.
// Only the reason is meant for callers; the rest is for logs.
type AdmissionError struct {
	Reason    AdmissionReason
	Remaining int
	Reset     time.Duration
}

func (e *AdmissionError) Error() string {
	return fmt.Sprintf("admission denied: %s", e.Reason)
}

func (e *AdmissionError) Unwrap() error { return ErrAdmissionDenied }

// StoreError wraps a persistence failure, keeping the cause for logs.
func StoreError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
