package models

// Customer is the person a service request belongs to. Registration and
// authentication are handled outside this system; the engine only needs the
// contact payload to attach to board views.
type Customer struct {
	ID               string
	Name             string
	Phone            string
	Email            string
	PreferredContact string // "email" or "phone"
}

// Vehicle belongs to a customer. VIN is unique when present.
type Vehicle struct {
	ID         string
	CustomerID string
	Make       string
	Model      string
	Year       int
	VIN        string
}

// ServiceItem is one line item of requested work on a service request.
type ServiceItem struct {
	ID          string
	RequestID   string
	ServiceType string
	Description string
	Urgency     string
}
