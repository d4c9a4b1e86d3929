// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application drives
// external systems.
package secondary

import "context"

// RequestRepository defines the secondary port for service request persistence.
type RequestRepository interface {
	// Create persists a new request together with its service line items in
	// one transaction. Returns models.ErrSlotAlreadyBooked if a non-cancelled
	// request already holds the same appointment slot. The workflow position
	// is assigned by the store at the bottom of the record's column, so
	// concurrent creates never share a position.
	Create(ctx context.Context, request *RequestRecord, services []*ServiceItemRecord) error

	// GetByID retrieves a request by its ID.
	GetByID(ctx context.Context, id string) (*RequestRecord, error)

	// List retrieves requests matching the given filters, newest first.
	List(ctx context.Context, filters RequestFilters) ([]*RequestRecord, error)

	// ListByColumn retrieves a column's requests ordered by position, ties
	// broken by ID.
	ListByColumn(ctx context.Context, column string) ([]*RequestRecord, error)

	// ListByDate retrieves all requests for a date ordered by appointment time.
	ListByDate(ctx context.Context, date string) ([]*RequestRecord, error)

	// CommitTransition atomically applies a column change: column, status and
	// history update together, guarded on the previously observed column, and
	// the destination column is renumbered to follow destinationOrder in the
	// same transaction. Returns false when the guard fails (a concurrent
	// writer won); a renumbering failure rolls the column change back too.
	CommitTransition(ctx context.Context, id, fromColumn, toColumn, status, historyJSON string, destinationOrder []string) (bool, error)

	// RenumberColumn rewrites the positions of a column to 0..n-1 following
	// orderedIDs, in one transaction.
	RenumberColumn(ctx context.Context, column string, orderedIDs []string) error

	// UpdateStatus sets the status only; column, position and history are
	// untouched.
	UpdateStatus(ctx context.Context, id, status string) error

	// Delete removes a request; service items cascade.
	Delete(ctx context.Context, id string) error

	// CountByStatus returns the number of requests with the given status.
	CountByStatus(ctx context.Context, status string) (int, error)

	// BookedTimes returns the appointment times of non-cancelled requests on
	// a date.
	BookedTimes(ctx context.Context, date string) ([]string, error)

	// SlotTaken reports whether a non-cancelled request holds the slot.
	SlotTaken(ctx context.Context, date, clock string) (bool, error)

	// GetNextID returns the next available request ID.
	GetNextID(ctx context.Context) (string, error)

	// GetServices retrieves the service line items of a request.
	GetServices(ctx context.Context, requestID string) ([]*ServiceItemRecord, error)
}

// RequestRecord represents a service request as stored in persistence.
type RequestRecord struct {
	ID                string
	CustomerID        string
	VehicleID         string
	Status            string
	WorkflowColumn    string
	WorkflowPosition  int
	WorkflowHistory   string // JSON array of transition records, append-only
	AppointmentDate   string // YYYY-MM-DD
	AppointmentTime   string // HH:MM
	AfterHoursDropoff bool
	CreatedAt         string
	UpdatedAt         string
}

// ServiceItemRecord represents one service line item as stored in persistence.
type ServiceItemRecord struct {
	ID          string
	RequestID   string
	ServiceType string
	Description string
	Urgency     string
}

// RequestFilters contains filter options for querying requests.
type RequestFilters struct {
	Status          string
	WorkflowColumn  string
	CustomerID      string
	AppointmentDate string
	Limit           int
}

// ScheduleRepository defines the secondary port for business hours persistence.
type ScheduleRepository interface {
	// GetDay retrieves the schedule row for a weekday (0=Monday..6=Sunday).
	// Returns (nil, nil) when no row exists; callers fail closed.
	GetDay(ctx context.Context, dayOfWeek int) (*BusinessDayRecord, error)

	// ListDays retrieves all schedule rows ordered by weekday.
	ListDays(ctx context.Context) ([]*BusinessDayRecord, error)

	// UpsertDay creates or replaces the schedule row for a weekday.
	UpsertDay(ctx context.Context, day *BusinessDayRecord) error
}

// BusinessDayRecord represents one weekday schedule row as stored in
// persistence.
type BusinessDayRecord struct {
	DayOfWeek              int
	IsOpen                 bool
	StartTime              string
	EndTime                string
	AllowAfterHoursDropoff bool
}

// CustomerRepository defines the secondary port for customer and vehicle
// persistence. Registration/authentication are external; this holds only the
// payload attached to board views.
type CustomerRepository interface {
	CreateCustomer(ctx context.Context, customer *CustomerRecord) error
	GetCustomer(ctx context.Context, id string) (*CustomerRecord, error)
	ListCustomers(ctx context.Context) ([]*CustomerRecord, error)
	CustomerExists(ctx context.Context, id string) (bool, error)

	CreateVehicle(ctx context.Context, vehicle *VehicleRecord) error
	GetVehicle(ctx context.Context, id string) (*VehicleRecord, error)
	ListVehicles(ctx context.Context, customerID string) ([]*VehicleRecord, error)
	VehicleExists(ctx context.Context, id string) (bool, error)
}

// CustomerRecord represents a customer as stored in persistence.
type CustomerRecord struct {
	ID               string
	Name             string
	Phone            string
	Email            string
	PreferredContact string
	CreatedAt        string
}

// VehicleRecord represents a vehicle as stored in persistence.
type VehicleRecord struct {
	ID         string
	CustomerID string
	Make       string
	Model      string
	Year       int
	VIN        string
}
