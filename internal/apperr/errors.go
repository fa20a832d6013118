// Package apperr defines the error taxonomy shared by services and handlers.
// Validation errors are caller-fixable, configuration errors mean the process
// is wired wrong, and provider errors come from the external routing service.
package apperr

import (
	"errors"
	"fmt"
)

// ErrRouteNotFound signals that no route exists for an ordered location pair
// and the cache is not allowed to fetch one. Distinct from a lookup failure.
var ErrRouteNotFound = errors.New("route not found")

// ValidationError is returned when request input cannot be accepted as-is.
// Always recoverable by the caller; never a system fault.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validation builds a ValidationError for a field.
func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ConfigurationError is returned when a required capability is missing or
// misconfigured. Fatal to the operation that needed it.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Msg
}

// Configuration builds a ConfigurationError.
func Configuration(msg string) error {
	return &ConfigurationError{Msg: msg}
}

// ProviderError wraps a failure from the external routing provider. The
// resolution attempt fails; nothing already persisted is touched.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return "routing provider: " + e.Op
	}
	return fmt.Sprintf("routing provider: %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Provider builds a ProviderError wrapping err (err may be nil).
func Provider(op string, err error) error {
	return &ProviderError{Op: op, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}

// IsProvider reports whether err is a ProviderError.
func IsProvider(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
