package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated indicates an action that needs a signed-in user was
	// attempted without one, or the server rejected the credential.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrValidation indicates a required field is empty or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrNetwork covers timeouts, connection errors and unexpected statuses.
	ErrNetwork = errors.New("network failure")

	// ErrNotFound indicates the item or comment does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the acting user may not perform the action.
	ErrForbidden = errors.New("forbidden")

	// ErrOpFinished is returned when a pending operation is run twice.
	ErrOpFinished = errors.New("operation already finished")
)

// ValidationError names the field that failed validation.
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

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Required builds the ValidationError for an empty required field.
func Required(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}
