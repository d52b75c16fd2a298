package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrNotFound        = errors.New("booking not found")
	ErrForbidden       = errors.New("you do not have permission to change this booking")
	ErrInvalidState    = errors.New("invalid booking status for this operation")
	ErrValidation      = errors.New("invalid input")
	ErrPersistence     = errors.New("persistence failure")
	ErrAircraftMissing = errors.New("aircraft not found")
)

// StateError reports a transition attempted from the wrong status.
type StateError struct {
	Current BookingStatus
	Op      string
}

func (e *StateError) Error() string {
	switch {
	case e.Op == "uncancel":
		return fmt.Sprintf("booking is not cancelled (current status: %s)", e.Current)
	case e.Current == BookingStatusCancelled:
		return "booking is already cancelled"
	default:
		return fmt.Sprintf("booking cannot be cancelled from status %s", e.Current)
	}
}

func (e *StateError) Is(target error) bool {
	return target == ErrInvalidState
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// PersistenceError wraps a store failure so callers can tell it apart from
// domain rejections while keeping the underlying message.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
