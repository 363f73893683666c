// Package apperr defines the error taxonomy shared by the services and the
// HTTP layer. Services wrap one of the sentinel kinds with a human-readable
// message; the HTTP layer maps each kind to a fixed status code.
package apperr

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Every error returned by a service wraps exactly one
// of these (or none, in which case it is treated as an internal error).
var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation error")

	// ErrAuth marks bad credentials or a missing/invalid session.
	ErrAuth = errors.New("authentication error")

	// ErrForbidden marks an ownership violation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks a missing entity.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness violation (email or short code taken).
	ErrConflict = errors.New("conflict")

	// ErrExpired marks a link whose expiration timestamp has passed.
	ErrExpired = errors.New("expired")
)

// Validation returns a validation error with the given message.
func Validation(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

// Auth returns an authentication error with the given message.
func Auth(message string) error {
	return fmt.Errorf("%w: %s", ErrAuth, message)
}

// Forbidden returns an ownership-violation error with the given message.
func Forbidden(message string) error {
	return fmt.Errorf("%w: %s", ErrForbidden, message)
}

// NotFound returns a not-found error with the given message.
func NotFound(message string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, message)
}

// Conflict returns a conflict error with the given message.
func Conflict(message string) error {
	return fmt.Errorf("%w: %s", ErrConflict, message)
}

// Expired returns an expired-link error with the given message.
func Expired(message string) error {
	return fmt.Errorf("%w: %s", ErrExpired, message)
}

// Message strips the sentinel prefix from an error produced by one of the
// constructors above, leaving the human-readable part for the response body.
func Message(err error) string {
	for _, kind := range []error{ErrValidation, ErrAuth, ErrForbidden, ErrNotFound, ErrConflict, ErrExpired} {
		if errors.Is(err, kind) {
			msg := err.Error()
			prefix := kind.Error() + ": "
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return err.Error()
}
