// Package models contains domain types for Pitstop entities.
// SQL persistence lives in internal/adapters/sqlite/*.go
package models

import "time"

// ServiceRequest represents a customer service request on the workflow board.
// This is the domain type used within the models package.
// For persistence, use the repository interfaces in ports/secondary.
type ServiceRequest struct {
	ID                string
	CustomerID        string
	VehicleID         string
	Status            string
	WorkflowColumn    string
	WorkflowPosition  int
	WorkflowHistory   []TransitionRecord
	AppointmentDate   string // YYYY-MM-DD in the shop timezone
	AppointmentTime   string // HH:MM, 24-hour
	AfterHoursDropoff bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// TransitionRecord is one immutable entry in a request's workflow history.
// History is append-only: records are never mutated or reordered.
type TransitionRecord struct {
	FromColumn string `json:"from_column"`
	ToColumn   string `json:"to_column"`
	Timestamp  string `json:"timestamp"`
}

// Workflow column constants. Completed is absorbing.
const (
	ColumnEstimates    = "estimates"
	ColumnInProgress   = "in_progress"
	ColumnWaitingParts = "waiting_parts"
	ColumnCompleted    = "completed"
)

// Request status constants. Status is derived from the workflow column,
// except pending (initial only) and cancelled (set explicitly).
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

// Service item urgency constants.
const (
	UrgencyLow    = "low"
	UrgencyMedium = "medium"
	UrgencyHigh   = "high"
)

// Date and clock formats used on repository records and CLI flags.
const (
	DateFormat  = "2006-01-02"
	ClockFormat = "15:04"
)

// Columns lists the workflow columns in board order.
func Columns() []string {
	return []string{ColumnEstimates, ColumnInProgress, ColumnWaitingParts, ColumnCompleted}
}

// ValidColumn reports whether name is a known workflow column.
func ValidColumn(name string) bool {
	switch name {
	case ColumnEstimates, ColumnInProgress, ColumnWaitingParts, ColumnCompleted:
		return true
	}
	return false
}

// ValidUrgency reports whether name is a known urgency level.
func ValidUrgency(name string) bool {
	switch name {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	}
	return false
}
