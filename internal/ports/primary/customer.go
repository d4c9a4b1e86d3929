package primary

import "context"

// Customer as exposed to primary adapters.
type Customer struct {
	ID               string
	Name             string
	Phone            string
	Email            string
	PreferredContact string
}

// Vehicle as exposed to primary adapters.
type Vehicle struct {
	ID         string
	CustomerID string
	Make       string
	Model      string
	Year       int
	VIN        string
}

// CreateCustomerRequest carries the customer registration payload. Identity
// and authentication live outside this system.
type CreateCustomerRequest struct {
	Name             string
	Phone            string
	Email            string
	PreferredContact string
}

// CreateVehicleRequest carries a new vehicle for an existing customer.
type CreateVehicleRequest struct {
	CustomerID string
	Make       string
	Model      string
	Year       int
	VIN        string
}

// CustomerService is the primary port for the customer/vehicle payload CRUD.
type CustomerService interface {
	CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*Customer, error)
	ListCustomers(ctx context.Context) ([]*Customer, error)
	CreateVehicle(ctx context.Context, req CreateVehicleRequest) (*Vehicle, error)
	ListVehicles(ctx context.Context, customerID string) ([]*Vehicle, error)
}
