package utils

import (
	"fmt"
	"strings"

	"github.com/nova-solidum/app-onboarding/internal/models"
)

// ValidationError represents a validation error with field and message
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// NewValidationResult creates a new validation result
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		IsValid: true,
		Errors:  []ValidationError{},
	}
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.IsValid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// Merge appends every error of other
func (vr *ValidationResult) Merge(other *ValidationResult) {
	if other == nil {
		return
	}
	for _, e := range other.Errors {
		vr.AddError(e.Field, e.Message)
	}
}

// HasError reports whether field has at least one error
func (vr *ValidationResult) HasError(field string) bool {
	for _, e := range vr.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// FieldErrors returns the messages reported for field, in order
func (vr *ValidationResult) FieldErrors(field string) []string {
	var messages []string
	for _, e := range vr.Errors {
		if e.Field == field {
			messages = append(messages, e.Message)
		}
	}
	return messages
}

// Fields returns the distinct fields with errors, in first-seen order
func (vr *ValidationResult) Fields() []string {
	seen := make(map[string]bool)
	var fields []string
	for _, e := range vr.Errors {
		if !seen[e.Field] {
			seen[e.Field] = true
			fields = append(fields, e.Field)
		}
	}
	return fields
}

// Err returns nil when valid, otherwise a *ValidationErrors carrying every error
func (vr *ValidationResult) Err() error {
	if vr == nil || vr.IsValid {
		return nil
	}
	return &ValidationErrors{Errors: append([]ValidationError(nil), vr.Errors...)}
}

// ValidationErrors is the error form of a failed ValidationResult.
// errors.Is(err, models.ErrInvalidInput) holds for it.
type ValidationErrors struct {
	Errors []ValidationError
}

func (e *ValidationErrors) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", ve.Field, ve.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationErrors) Unwrap() error {
	return models.ErrInvalidInput
}

// NewFieldError builds a single-field validation error
func NewFieldError(field, message string) *ValidationErrors {
	return &ValidationErrors{Errors: []ValidationError{{Field: field, Message: message}}}
}
