package errors

import (
	"errors"
	"fmt"
)

// Generic error kinds

var (
	// ErrInvalidInput indicates malformed or incomplete user input
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")

	// ErrUnavailable indicates a dependency is unavailable
	ErrUnavailable = errors.New("service unavailable")
)

// Analysis errors

var (
	// ErrNoResults indicates the analysis service returned zero items
	ErrNoResults = errors.New("no results")

	// ErrTransport indicates a network failure or a non-2xx response
	ErrTransport = errors.New("analysis transport failure")

	// ErrStaleResponse marks a response whose generation was superseded.
	// Never surfaced to users.
	ErrStaleResponse = errors.New("stale response discarded")
)

// NoResultsMessage is the user-facing text of an EmptyResultError
const NoResultsMessage = "No results for given criteria"

// ValidationError represents a validation error with field-specific details
type ValidationError struct {
	Field  string
	Reason string
	Value  interface{}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("validation error: field '%s': %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("validation error: field '%s': %s (value: %v)", e.Field, e.Reason, e.Value)
}

// Unwrap lets errors.Is(err, ErrInvalidInput) match
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NewValidationError creates a new validation error
func NewValidationError(field, reason string, value interface{}) *ValidationError {
	return &ValidationError{
		Field:  field,
		Reason: reason,
		Value:  value,
	}
}

// EmptyResultError is returned when a call succeeded but carried zero items
type EmptyResultError struct {
	Domain string
}

func (e *EmptyResultError) Error() string {
	return NoResultsMessage
}

func (e *EmptyResultError) Unwrap() error {
	return ErrNoResults
}

// TransportError wraps a network failure or a non-2xx HTTP response.
// Message is what the user sees: the service's detail/error text when present,
// otherwise a generic failure string.
type TransportError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("transport error (status %d): %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("transport error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("transport error: %s", e.Message)
}

// Unwrap exposes both the sentinel and the cause
func (e *TransportError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, e.Err}
}

// UserMessage returns the text shown in the error phase for err
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var transportErr *TransportError
	if As(err, &transportErr) && transportErr.Message != "" {
		return transportErr.Message
	}

	var emptyErr *EmptyResultError
	if As(err, &emptyErr) {
		return emptyErr.Error()
	}

	var validationErr *ValidationError
	if As(err, &validationErr) {
		return fmt.Sprintf("%s: %s", validationErr.Field, validationErr.Reason)
	}

	return "Analysis failed. Please try again later."
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
