package wizard

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionNotFound is returned when a session id is unknown or expired.
	ErrSessionNotFound = errors.New("booking session not found")

	// ErrVersionConflict is returned by a store when a save loses a
	// compare-and-set race against a newer write.
	ErrVersionConflict = errors.New("booking session was modified concurrently")

	// ErrUnknownFlow is returned for a flow other than service-first or
	// staff-first.
	ErrUnknownFlow = errors.New("unknown booking flow")

	// ErrSlotsNotLoaded is returned when a time is picked before any slot
	// response has been applied for the current inputs.
	ErrSlotsNotLoaded = errors.New("availability has not been loaded for the current selection")

	// ErrTimeNotAvailable is returned when the picked time is not offered
	// as available in the most recent slot response.
	ErrTimeNotAvailable = errors.New("selected time is not available")

	// ErrAlreadyConfirmed is returned when submitting a session that
	// already produced an appointment.
	ErrAlreadyConfirmed = errors.New("booking session is already confirmed")
)

// ValidationError is a local input error: no upstream call was made and no
// state was lost.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StepIncompleteError reports why Next() refused to advance.
type StepIncompleteError struct {
	Step   Step
	Reason string
}

func (e *StepIncompleteError) Error() string {
	return fmt.Sprintf("step %q incomplete: %s", e.Step, e.Reason)
}

// UpstreamError wraps a failed appointment-API call. Wizard state is
// preserved so the customer can retry.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("appointment API %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
