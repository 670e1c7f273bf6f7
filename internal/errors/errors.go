package errors

import (
	"errors"
	"fmt"
)

// Common error types for the dashboard service
var (
	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrSessionExpired     = errors.New("session expired")
	ErrNotSignedIn        = errors.New("not signed in")

	// Validation errors (raised client-side, before any backend call)
	ErrValidation = errors.New("validation failed")

	// Backend boundary errors
	ErrNotConfigured = errors.New("backend not configured")
	ErrNotFound      = errors.New("not found")
	ErrBackend       = errors.New("backend error")

	// General errors
	ErrInternal = errors.New("internal error")
)

// IsAuthError reports whether err belongs to the auth class: credential
// rejection, an expired session, or a missing backend configuration.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrSessionExpired) ||
		errors.Is(err, ErrNotSignedIn) ||
		errors.Is(err, ErrNotConfigured)
}

// IsValidationError reports whether err was raised before any network call.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// Validationf builds a field-level validation error.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
