package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller is not authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// ErrApplicationNotPending indicates a decision was attempted on an
// application that already reached a terminal status.
var ErrApplicationNotPending = errors.New("application is not pending")

// ErrConstraintViolation indicates a storage integrity failure that does not
// match any known constraint signature.
var ErrConstraintViolation = errors.New("storage constraint violation")

// DuplicateActiveError reports that the subject already owns a pending
// application. It carries the existing application's id and creation time so
// callers can produce a precise conflict message.
type DuplicateActiveError struct {
	ApplicationID string
	CreatedAt     time.Time
}

func (e *DuplicateActiveError) Error() string {
	return fmt.Sprintf("subject already has a pending application %s (created %s)", e.ApplicationID, e.CreatedAt.Format(time.RFC3339))
}

func (e *DuplicateActiveError) Unwrap() error { return ErrDuplicate }

// DuplicateDecisionError reports that a decision already exists for the same
// (application, outcome) pair. Reached mainly under race conditions, since the
// pending-status gate catches the sequential case first.
type DuplicateDecisionError struct {
	DecisionID    string
	ApplicationID string
	Outcome       string
	CreatedAt     time.Time
}

func (e *DuplicateDecisionError) Error() string {
	return fmt.Sprintf("decision %s with outcome %s already exists for application %s (created %s)",
		e.DecisionID, e.Outcome, e.ApplicationID, e.CreatedAt.Format(time.RFC3339))
}

func (e *DuplicateDecisionError) Unwrap() error { return ErrDuplicate }
