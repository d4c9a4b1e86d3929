package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/pitstop/internal/ports/primary"
	"github.com/example/pitstop/internal/ports/secondary"
)

// CustomerServiceImpl implements the CustomerService interface.
type CustomerServiceImpl struct {
	customerRepo secondary.CustomerRepository
}

// NewCustomerService creates a new CustomerService with injected dependencies.
func NewCustomerService(customerRepo secondary.CustomerRepository) *CustomerServiceImpl {
	return &CustomerServiceImpl{customerRepo: customerRepo}
}

// CreateCustomer registers a customer record.
func (s *CustomerServiceImpl) CreateCustomer(ctx context.Context, req primary.CreateCustomerRequest) (*primary.Customer, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("customer name is required")
	}
	if req.Phone == "" && req.Email == "" {
		return nil, fmt.Errorf("a phone number or email is required")
	}

	record := &secondary.CustomerRecord{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Phone:            req.Phone,
		Email:            req.Email,
		PreferredContact: req.PreferredContact,
	}
	if err := s.customerRepo.CreateCustomer(ctx, record); err != nil {
		return nil, err
	}
	return customerFromRecord(record), nil
}

// ListCustomers returns all customers.
func (s *CustomerServiceImpl) ListCustomers(ctx context.Context) ([]*primary.Customer, error) {
	records, err := s.customerRepo.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	customers := make([]*primary.Customer, len(records))
	for i, record := range records {
		customers[i] = customerFromRecord(record)
	}
	return customers, nil
}

// CreateVehicle registers a vehicle for an existing customer.
func (s *CustomerServiceImpl) CreateVehicle(ctx context.Context, req primary.CreateVehicleRequest) (*primary.Vehicle, error) {
	if req.Make == "" || req.Model == "" {
		return nil, fmt.Errorf("vehicle make and model are required")
	}
	exists, err := s.customerRepo.CustomerExists(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check customer: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("customer %s not found", req.CustomerID)
	}

	record := &secondary.VehicleRecord{
		ID:         uuid.NewString(),
		CustomerID: req.CustomerID,
		Make:       req.Make,
		Model:      req.Model,
		Year:       req.Year,
		VIN:        req.VIN,
	}
	if err := s.customerRepo.CreateVehicle(ctx, record); err != nil {
		return nil, err
	}
	return vehicleFromRecord(record), nil
}

// ListVehicles returns a customer's vehicles.
func (s *CustomerServiceImpl) ListVehicles(ctx context.Context, customerID string) ([]*primary.Vehicle, error) {
	records, err := s.customerRepo.ListVehicles(ctx, customerID)
	if err != nil {
		return nil, err
	}
	vehicles := make([]*primary.Vehicle, len(records))
	for i, record := range records {
		vehicles[i] = vehicleFromRecord(record)
	}
	return vehicles, nil
}

func customerFromRecord(record *secondary.CustomerRecord) *primary.Customer {
	return &primary.Customer{
		ID:               record.ID,
		Name:             record.Name,
		Phone:            record.Phone,
		Email:            record.Email,
		PreferredContact: record.PreferredContact,
	}
}

func vehicleFromRecord(record *secondary.VehicleRecord) *primary.Vehicle {
	return &primary.Vehicle{
		ID:         record.ID,
		CustomerID: record.CustomerID,
		Make:       record.Make,
		Model:      record.Model,
		Year:       record.Year,
		VIN:        record.VIN,
	}
}

// Ensure CustomerServiceImpl implements the interface
var _ primary.CustomerService = (*CustomerServiceImpl)(nil)
