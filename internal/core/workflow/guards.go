// Package workflow contains the pure business logic for board transitions.
// Guards are pure functions that evaluate preconditions without side effects.
package workflow

import (
	"fmt"

	"github.com/example/pitstop/internal/models"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Err     error // sentinel from models, matchable with errors.Is
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Reason == "" {
		return r.Err
	}
	return fmt.Errorf("%w: %s", r.Err, r.Reason)
}

// CanTransition evaluates whether a request may move between columns.
// Rules:
// - Both columns must be known.
// - Completed is absorbing: completed -> other fails absolutely.
// - completed -> completed is rejected too, keeping history free of
//   duplicate records.
// - Any other same-column move is a no-op and rejected.
func CanTransition(current, target string) GuardResult {
	if !models.ValidColumn(target) {
		return GuardResult{
			Err:    models.ErrInvalidTransition,
			Reason: fmt.Sprintf("unknown column %q", target),
		}
	}
	if !models.ValidColumn(current) {
		return GuardResult{
			Err:    models.ErrInvalidTransition,
			Reason: fmt.Sprintf("unknown column %q", current),
		}
	}
	if current == models.ColumnCompleted {
		if target == models.ColumnCompleted {
			return GuardResult{
				Err:    models.ErrInvalidTransition,
				Reason: "request is already completed",
			}
		}
		return GuardResult{Err: models.ErrTerminalStateViolation}
	}
	if current == target {
		return GuardResult{
			Err:    models.ErrInvalidTransition,
			Reason: fmt.Sprintf("request is already in column %q", current),
		}
	}
	return GuardResult{Allowed: true}
}

// StatusForColumn derives the customer-facing status from a workflow column.
// Pending is only ever the initial status and is never re-derived.
func StatusForColumn(column string) string {
	switch column {
	case models.ColumnEstimates:
		return models.StatusConfirmed
	case models.ColumnInProgress, models.ColumnWaitingParts:
		return models.StatusInProgress
	case models.ColumnCompleted:
		return models.StatusCompleted
	}
	return ""
}

// CanCancel evaluates whether a request may be cancelled.
// Rules:
// - Completed requests cannot be cancelled.
// - Cancelling twice is rejected.
func CanCancel(status string) GuardResult {
	switch status {
	case models.StatusCompleted:
		return GuardResult{Err: models.ErrRequestCompleted, Reason: "cannot cancel"}
	case models.StatusCancelled:
		return GuardResult{Err: models.ErrRequestCancelled}
	}
	return GuardResult{Allowed: true}
}

// InsertAt returns the order of ids after placing id at index. If id is
// already present it is moved, not duplicated. index is clamped to the valid
// range. The result is the renumbering order: position i belongs to
// result[i], strictly increasing with no gaps.
func InsertAt(ids []string, id string, index int) []string {
	out := make([]string, 0, len(ids)+1)
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	if index < 0 {
		index = 0
	}
	if index > len(out) {
		index = len(out)
	}
	out = append(out, "")
	copy(out[index+1:], out[index:])
	out[index] = id
	return out
}
