package models

import "errors"

// Engine error taxonomy. Services wrap these with context via %w so callers
// can match with errors.Is.
var (
	// ErrInvalidTransition rejects no-op or unknown column moves, including
	// completed -> completed (kept out of history).
	ErrInvalidTransition = errors.New("invalid workflow transition")

	// ErrTerminalStateViolation rejects moving a completed request back onto
	// the board. No override exists.
	ErrTerminalStateViolation = errors.New("completed requests cannot be moved back to other columns")

	// ErrConcurrentModification means another caller committed a conflicting
	// change first. Safe to retry after re-reading.
	ErrConcurrentModification = errors.New("request was modified concurrently")

	ErrInvalidGranularity   = errors.New("appointments must be scheduled in 10-minute intervals")
	ErrOutsideBusinessHours = errors.New("appointment is outside business hours")
	ErrSlotAlreadyBooked    = errors.New("appointment slot is already booked")
	ErrSlotInPast           = errors.New("same-day appointments must be at least 10 minutes in the future")

	// ErrCalendarMisconfigured means no schedule row exists for the weekday.
	// The day is treated as closed with no after-hours drop-off.
	ErrCalendarMisconfigured = errors.New("no business hours configured for this day")

	ErrRequestNotFound  = errors.New("service request not found")
	ErrRequestCompleted = errors.New("service request is already completed")
	ErrRequestCancelled = errors.New("service request is already cancelled")
)
