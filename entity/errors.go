package entity

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrMissingCredentials = errors.New("user key and user api key are required")
	ErrInvalidKey         = errors.New("key is not a valid hex string")
)

// ValidationError reports a missing or malformed caller input.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("field %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// CredentialsError is returned before any network call when an
// account-management operation runs without user credentials.
type CredentialsError struct {
	Operation string
}

func (e *CredentialsError) Error() string {
	return fmt.Sprintf("%s: %v", e.Operation, ErrMissingCredentials)
}

func (e *CredentialsError) Is(target error) bool {
	return target == ErrMissingCredentials || target == ErrValidation
}

// HTTPError is returned when the manager endpoint answers with a non 2xx status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}
