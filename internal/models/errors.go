package models

import (
	"errors"
	"fmt"
)

// Error constants for onboarding and lookup operations
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrLookupTimeout        = errors.New("registry lookup timed out")
	ErrOffline              = errors.New("no network connection")
	ErrNotConfigured        = errors.New("component not configured")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrSubmissionInProgress = errors.New("submission already in progress")
	ErrAlreadySubmitted     = errors.New("registration already submitted")
	ErrInvalidStatus        = errors.New("invalid registration status")
	ErrInvalidStep          = errors.New("invalid wizard step")
	ErrPayloadTooLarge      = errors.New("request body too large")
)

// TransientIOError marks a failed network or storage operation. Callers may retry,
// nothing in the service retries automatically.
type TransientIOError struct {
	Op  string
	Err error
}

func (e *TransientIOError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientIOError) Unwrap() error {
	return e.Err
}

// NewTransientIOError wraps err as a transient failure of op
func NewTransientIOError(op string, err error) *TransientIOError {
	return &TransientIOError{Op: op, Err: err}
}

// IsTransient reports whether err carries a TransientIOError
func IsTransient(err error) bool {
	var transient *TransientIOError
	return errors.As(err, &transient)
}

// ConfigurationError reports a missing backend binding (document store, blob
// store, admin allowlist). It is a blocking state, not a retryable failure.
type ConfigurationError struct {
	Component string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s is not configured", e.Component)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrNotConfigured
}
