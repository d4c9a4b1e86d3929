package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/pitstop/internal/ports/secondary"
)

// CustomerRepository implements secondary.CustomerRepository with SQLite.
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new SQLite customer repository.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// CreateCustomer persists a new customer.
func (r *CustomerRepository) CreateCustomer(ctx context.Context, customer *secondary.CustomerRecord) error {
	var email sql.NullString
	if customer.Email != "" {
		email = sql.NullString{String: customer.Email, Valid: true}
	}
	preferred := customer.PreferredContact
	if preferred == "" {
		preferred = "email"
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, phone, email, preferred_contact)
		VALUES (?, ?, ?, ?, ?)`,
		customer.ID, customer.Name, customer.Phone, email, preferred,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetCustomer retrieves a customer by ID.
func (r *CustomerRepository) GetCustomer(ctx context.Context, id string) (*secondary.CustomerRecord, error) {
	var (
		email     sql.NullString
		createdAt time.Time
	)
	record := &secondary.CustomerRecord{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, phone, email, preferred_contact, created_at
		FROM customers WHERE id = ?`, id,
	).Scan(&record.ID, &record.Name, &record.Phone, &email, &record.PreferredContact, &createdAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("customer %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	record.Email = email.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// ListCustomers retrieves all customers ordered by ID.
func (r *CustomerRepository) ListCustomers(ctx context.Context) ([]*secondary.CustomerRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, phone, email, preferred_contact, created_at
		FROM customers ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	var records []*secondary.CustomerRecord
	for rows.Next() {
		var (
			email     sql.NullString
			createdAt time.Time
		)
		record := &secondary.CustomerRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &record.Phone, &email, &record.PreferredContact, &createdAt); err != nil {
			return nil, err
		}
		record.Email = email.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		records = append(records, record)
	}
	return records, rows.Err()
}

// CustomerExists checks if a customer exists (for validation).
func (r *CustomerRepository) CustomerExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM customers WHERE id = ?", id,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check customer: %w", err)
	}
	return count > 0, nil
}

// CreateVehicle persists a new vehicle.
func (r *CustomerRepository) CreateVehicle(ctx context.Context, vehicle *secondary.VehicleRecord) error {
	var vin sql.NullString
	if vehicle.VIN != "" {
		vin = sql.NullString{String: vehicle.VIN, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO vehicles (id, customer_id, make, model, year, vin)
		VALUES (?, ?, ?, ?, ?, ?)`,
		vehicle.ID, vehicle.CustomerID, vehicle.Make, vehicle.Model, vehicle.Year, vin,
	)
	if err != nil {
		return fmt.Errorf("failed to create vehicle: %w", err)
	}
	return nil
}

// GetVehicle retrieves a vehicle by ID.
func (r *CustomerRepository) GetVehicle(ctx context.Context, id string) (*secondary.VehicleRecord, error) {
	var vin sql.NullString
	record := &secondary.VehicleRecord{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, customer_id, make, model, year, vin
		FROM vehicles WHERE id = ?`, id,
	).Scan(&record.ID, &record.CustomerID, &record.Make, &record.Model, &record.Year, &vin)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("vehicle %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	record.VIN = vin.String
	return record, nil
}

// ListVehicles retrieves a customer's vehicles ordered by ID.
func (r *CustomerRepository) ListVehicles(ctx context.Context, customerID string) ([]*secondary.VehicleRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_id, make, model, year, vin
		FROM vehicles WHERE customer_id = ? ORDER BY id ASC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	defer rows.Close()

	var records []*secondary.VehicleRecord
	for rows.Next() {
		var vin sql.NullString
		record := &secondary.VehicleRecord{}
		if err := rows.Scan(&record.ID, &record.CustomerID, &record.Make, &record.Model, &record.Year, &vin); err != nil {
			return nil, err
		}
		record.VIN = vin.String
		records = append(records, record)
	}
	return records, rows.Err()
}

// VehicleExists checks if a vehicle exists (for validation).
func (r *CustomerRepository) VehicleExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM vehicles WHERE id = ?", id,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check vehicle: %w", err)
	}
	return count > 0, nil
}

// Ensure CustomerRepository implements the interface
var _ secondary.CustomerRepository = (*CustomerRepository)(nil)
