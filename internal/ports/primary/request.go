// Package primary defines the primary ports (driving adapters) for the
// application: the service interfaces the CLI and other frontends call.
package primary

import (
	"context"

	"github.com/example/pitstop/internal/models"
)

// Request is a service request as exposed to primary adapters.
type Request struct {
	ID                string
	CustomerID        string
	VehicleID         string
	Status            string
	WorkflowColumn    string
	WorkflowPosition  int
	WorkflowHistory   []models.TransitionRecord
	AppointmentDate   string
	AppointmentTime   string
	AfterHoursDropoff bool
	CreatedAt         string
	UpdatedAt         string

	Services []ServiceItem
	Customer *CustomerSummary
	Vehicle  *VehicleSummary
}

// ServiceItem is one requested line of work.
type ServiceItem struct {
	ID          string
	ServiceType string
	Description string
	Urgency     string
}

// CustomerSummary is the customer payload attached to board views.
type CustomerSummary struct {
	ID    string
	Name  string
	Phone string
	Email string
}

// VehicleSummary is the vehicle payload attached to board views.
type VehicleSummary struct {
	ID    string
	Make  string
	Model string
	Year  int
	VIN   string
}

// CreateRequestRequest carries the booking boundary input.
type CreateRequestRequest struct {
	CustomerID        string
	VehicleID         string
	AppointmentDate   string // YYYY-MM-DD
	AppointmentTime   string // HH:MM
	AfterHoursDropoff bool
	Services          []ServiceItemInput
}

// ServiceItemInput is one requested service line at creation time.
type ServiceItemInput struct {
	ServiceType string
	Description string
	Urgency     string
}

// CreateRequestResponse is returned after a successful booking.
type CreateRequestResponse struct {
	RequestID string
	Request   *Request
}

// RequestFilters contains list filter options.
type RequestFilters struct {
	Status          string
	WorkflowColumn  string
	CustomerID      string
	AppointmentDate string
}

// RequestService is the primary port for the creation/cancellation boundary.
type RequestService interface {
	// CreateRequest validates the appointment slot and books the request
	// atomically; a committed booking triggers the snapshot refresh pipeline.
	CreateRequest(ctx context.Context, req CreateRequestRequest) (*CreateRequestResponse, error)

	// GetRequest retrieves one request with payload attached.
	GetRequest(ctx context.Context, id string) (*Request, error)

	// ListRequests lists requests with optional filters, newest first.
	ListRequests(ctx context.Context, filters RequestFilters) ([]*Request, error)

	// CancelRequest marks a request cancelled and frees its slot. Legal only
	// before completion.
	CancelRequest(ctx context.Context, id string) (*Request, error)

	// DeleteRequest removes a request entirely. Requires force=true; the
	// deletion still triggers the notification pipeline.
	DeleteRequest(ctx context.Context, id string, force bool) error
}
