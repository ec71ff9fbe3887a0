/*
errors.go - Error taxonomy for the leave engine

ERROR CATEGORIES:
  1. NotFound               - a referenced user/request/project/holiday is absent
  2. InvalidStateTransition - reviewing a request that is no longer pending, or a
                              half-day marker on a multi-day request
  3. Validation             - bad input detected before any mutation
  4. Forbidden              - the actor's role does not allow the operation

Structured errors unwrap to the sentinels, so callers branch with errors.Is
and pull details out with errors.As:

    var nf *leave.NotFoundError
    if errors.As(err, &nf) {
        log.Printf("missing %s %s", nf.Kind, nf.ID)
    }
*/
package leave

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidStateTransition is returned when a request cannot move to the
	// asked-for status.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrValidation is returned for malformed or out-of-range input.
	ErrValidation = errors.New("validation failed")

	// ErrForbidden is returned when the actor may not perform the operation.
	ErrForbidden = errors.New("forbidden")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotFoundError names the kind of record and the identifier that was missing.
type NotFoundError struct {
	Kind string // "user", "leave", "project", "holiday"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// TransitionError describes a rejected status change.
type TransitionError struct {
	RequestID string
	From      Status
	To        Status
	Reason    string
}

func (e *TransitionError) Error() string {
	subject := "leave"
	if e.RequestID != "" {
		subject += " " + e.RequestID
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", subject, e.Reason)
	}
	return fmt.Sprintf("%s: cannot move from %s to %s", subject, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidStateTransition }

// ValidationError points at the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func notFound(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsForbidden reports whether err is an authorization failure.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsClientError returns true if the error is due to caller input or
// permissions rather than an infrastructure failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidStateTransition) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrNotFound)
}
