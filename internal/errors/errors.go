package errors

import (
	"errors"
	"fmt"
)

// Common error types for the auth client
var (
	// ErrSessionExpired marks an irrecoverable credential failure: refresh
	// failed or a renewed token was rejected. The session is torn down.
	ErrSessionExpired = errors.New("session expired")

	// Step-up (2FA) errors
	ErrNoPendingStepUp = errors.New("no pending step-up challenge")
	ErrInvalidCode     = errors.New("invalid verification code")

	// ErrValidation marks malformed input caught before any network call.
	ErrValidation = errors.New("validation failed")

	// Transport errors
	ErrTimeout = errors.New("request timed out")
	ErrNetwork = errors.New("network failure")
)

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
