package workflow

import (
	"fmt"

	"backend/internal/model"
)

// NotFoundError means the request id (or a referenced entity) did not resolve.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ForbiddenError means the actor's role or scope does not match the transition's
// required actor.
type ForbiddenError struct {
	Reason string
}

func (e *ForbiddenError) Error() string {
	return e.Reason
}

// InvalidStateError means the request's current status is not in the precondition
// set for the attempted transition. Lost conditional-update races surface as this
// same error: the loser re-reads and finds its precondition no longer holds.
type InvalidStateError struct {
	Transition Transition
	Current    model.RequestStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s a request in status %q", e.Transition, e.Current)
}

// ValidationError means a required field for the transition is missing or malformed.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PersistenceError wraps an underlying store failure. The engine never retries;
// the caller owns retry and fallback policy.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
