// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/example/pitstop/internal/models"
	"github.com/example/pitstop/internal/ports/secondary"
)

// RequestRepository implements secondary.RequestRepository with SQLite.
type RequestRepository struct {
	db *sql.DB
}

// NewRequestRepository creates a new SQLite request repository.
func NewRequestRepository(db *sql.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

const requestSelectCols = "id, customer_id, vehicle_id, status, workflow_column, workflow_position, workflow_history, appointment_date, appointment_time, after_hours_dropoff, created_at, updated_at"

// scanRequest scans a request row into a RequestRecord.
func scanRequest(scanner interface {
	Scan(dest ...any) error
}) (*secondary.RequestRecord, error) {
	var (
		history    sql.NullString
		afterHours bool
		createdAt  time.Time
		updatedAt  time.Time
	)

	record := &secondary.RequestRecord{}
	err := scanner.Scan(
		&record.ID, &record.CustomerID, &record.VehicleID, &record.Status,
		&record.WorkflowColumn, &record.WorkflowPosition, &history,
		&record.AppointmentDate, &record.AppointmentTime, &afterHours,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.WorkflowHistory = history.String
	if record.WorkflowHistory == "" {
		record.WorkflowHistory = "[]"
	}
	record.AfterHoursDropoff = afterHours
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// Create persists a new request and its service items in one transaction.
// The partial unique slot index turns a concurrent double-book into
// models.ErrSlotAlreadyBooked here. The workflow position is computed inside
// the insert statement so two concurrent creates into the same column can
// never claim the same position.
func (r *RequestRepository) Create(ctx context.Context, request *secondary.RequestRecord, services []*secondary.ServiceItemRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	history := request.WorkflowHistory
	if history == "" {
		history = "[]"
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO service_requests
		(id, customer_id, vehicle_id, status, workflow_column, workflow_position, workflow_history, appointment_date, appointment_time, after_hours_dropoff)
		VALUES (?, ?, ?, ?, ?,
			(SELECT COALESCE(MAX(workflow_position) + 1, 0) FROM service_requests WHERE workflow_column = ?),
			?, ?, ?, ?)`,
		request.ID, request.CustomerID, request.VehicleID,
		request.Status, request.WorkflowColumn, request.WorkflowColumn, history,
		request.AppointmentDate, request.AppointmentTime, request.AfterHoursDropoff,
	)
	if err != nil {
		if isSlotConflict(err) {
			return fmt.Errorf("%w: %s %s", models.ErrSlotAlreadyBooked, request.AppointmentDate, request.AppointmentTime)
		}
		return fmt.Errorf("failed to create request: %w", err)
	}

	for _, item := range services {
		var desc sql.NullString
		if item.Description != "" {
			desc = sql.NullString{String: item.Description, Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO service_items (id, request_id, service_type, description, urgency)
			VALUES (?, ?, ?, ?, ?)`,
			item.ID, request.ID, item.ServiceType, desc, item.Urgency,
		)
		if err != nil {
			return fmt.Errorf("failed to create service item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		if isSlotConflict(err) {
			return fmt.Errorf("%w: %s %s", models.ErrSlotAlreadyBooked, request.AppointmentDate, request.AppointmentTime)
		}
		return fmt.Errorf("failed to commit request: %w", err)
	}
	return nil
}

// isSlotConflict reports whether err is a unique violation on the slot index.
func isSlotConflict(err error) bool {
	var serr sqlite3.Error
	if !errors.As(err, &serr) {
		return false
	}
	if serr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return false
	}
	return strings.Contains(serr.Error(), "appointment_date")
}

// GetByID retrieves a request by its ID.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*secondary.RequestRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+requestSelectCols+" FROM service_requests WHERE id = ?", id)

	record, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", models.ErrRequestNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return record, nil
}

// List retrieves requests matching the given filters, newest first.
func (r *RequestRepository) List(ctx context.Context, filters secondary.RequestFilters) ([]*secondary.RequestRecord, error) {
	query := "SELECT " + requestSelectCols + " FROM service_requests WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.WorkflowColumn != "" {
		query += " AND workflow_column = ?"
		args = append(args, filters.WorkflowColumn)
	}
	if filters.CustomerID != "" {
		query += " AND customer_id = ?"
		args = append(args, filters.CustomerID)
	}
	if filters.AppointmentDate != "" {
		query += " AND appointment_date = ?"
		args = append(args, filters.AppointmentDate)
	}

	query += " ORDER BY created_at DESC, id DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	return r.queryRequests(ctx, query, args...)
}

// ListByColumn retrieves a column's requests ordered by position, ties broken
// by ID.
func (r *RequestRepository) ListByColumn(ctx context.Context, column string) ([]*secondary.RequestRecord, error) {
	return r.queryRequests(ctx,
		"SELECT "+requestSelectCols+" FROM service_requests WHERE workflow_column = ? ORDER BY workflow_position ASC, id ASC",
		column)
}

// ListByDate retrieves all requests for a date ordered by appointment time.
func (r *RequestRepository) ListByDate(ctx context.Context, date string) ([]*secondary.RequestRecord, error) {
	return r.queryRequests(ctx,
		"SELECT "+requestSelectCols+" FROM service_requests WHERE appointment_date = ? ORDER BY appointment_time ASC, id ASC",
		date)
}

func (r *RequestRepository) queryRequests(ctx context.Context, query string, args ...any) ([]*secondary.RequestRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var records []*secondary.RequestRecord
	for rows.Next() {
		record, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// CommitTransition applies a column change guarded on the previously
// observed column, then renumbers the destination column to follow
// destinationOrder, all in one transaction. Column, status, history and
// positions move together or not at all; a false return means a concurrent
// writer got there first, and a renumbering failure rolls the column change
// back with it.
func (r *RequestRepository) CommitTransition(ctx context.Context, id, fromColumn, toColumn, status, historyJSON string, destinationOrder []string) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE service_requests
		SET workflow_column = ?, status = ?, workflow_history = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND workflow_column = ?`,
		toColumn, status, historyJSON, id, fromColumn,
	)
	if err != nil {
		return false, fmt.Errorf("failed to commit transition: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read transition result: %w", err)
	}
	if n == 0 {
		return false, nil
	}

	for position, memberID := range destinationOrder {
		res, err := tx.ExecContext(ctx, `
			UPDATE service_requests
			SET workflow_position = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND workflow_column = ?`,
			position, memberID, toColumn,
		)
		if err != nil {
			return false, fmt.Errorf("failed to renumber request %s: %w", memberID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, fmt.Errorf("failed to read renumber result: %w", err)
		}
		if n == 0 {
			// The member left the column since we planned the order.
			return false, fmt.Errorf("%w: %s is no longer in column %s", models.ErrConcurrentModification, memberID, toColumn)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transition: %w", err)
	}
	return true, nil
}

// RenumberColumn rewrites a column's positions to 0..n-1 following
// orderedIDs, in one transaction.
func (r *RequestRepository) RenumberColumn(ctx context.Context, column string, orderedIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for position, id := range orderedIDs {
		res, err := tx.ExecContext(ctx, `
			UPDATE service_requests
			SET workflow_position = ?, updated_at = CURRENT_TIMESTAMP
			WHERE id = ? AND workflow_column = ?`,
			position, id, column,
		)
		if err != nil {
			return fmt.Errorf("failed to renumber request %s: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read renumber result: %w", err)
		}
		if n == 0 {
			// The request left the column since we planned the order.
			return fmt.Errorf("%w: %s is no longer in column %s", models.ErrConcurrentModification, id, column)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit renumbering: %w", err)
	}
	return nil
}

// UpdateStatus sets the status only.
func (r *RequestRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE service_requests SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", models.ErrRequestNotFound, id)
	}
	return nil
}

// Delete removes a request; service items cascade via foreign keys.
func (r *RequestRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM service_requests WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", models.ErrRequestNotFound, id)
	}
	return nil
}

// CountByStatus returns the number of requests with the given status.
func (r *RequestRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM service_requests WHERE status = ?", status,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count requests: %w", err)
	}
	return count, nil
}

// BookedTimes returns the appointment times of non-cancelled requests on a
// date, ascending.
func (r *RequestRepository) BookedTimes(ctx context.Context, date string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT appointment_time FROM service_requests
		WHERE appointment_date = ? AND status != 'cancelled'
		ORDER BY appointment_time ASC`,
		date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked times: %w", err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		times = append(times, t)
	}
	return times, rows.Err()
}

// SlotTaken reports whether a non-cancelled request holds the slot.
func (r *RequestRepository) SlotTaken(ctx context.Context, date, clock string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM service_requests
		WHERE appointment_date = ? AND appointment_time = ? AND status != 'cancelled'`,
		date, clock,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return count > 0, nil
}

// GetNextID returns the next available request ID (REQ-001, REQ-002, ...).
// The numeric part is compared as an integer, so REQ-1000 follows REQ-999
// instead of losing a string MAX to it.
func (r *RequestRepository) GetNextID(ctx context.Context) (string, error) {
	var max int
	err := r.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(CAST(SUBSTR(id, 5) AS INTEGER)), 0) FROM service_requests WHERE id LIKE 'REQ-%'",
	).Scan(&max)
	if err != nil {
		return "", fmt.Errorf("failed to get next request ID: %w", err)
	}
	return fmt.Sprintf("REQ-%03d", max+1), nil
}

// GetServices retrieves the service line items of a request.
func (r *RequestRepository) GetServices(ctx context.Context, requestID string) ([]*secondary.ServiceItemRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, request_id, service_type, description, urgency
		FROM service_items WHERE request_id = ? ORDER BY id ASC`,
		requestID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list service items: %w", err)
	}
	defer rows.Close()

	var items []*secondary.ServiceItemRecord
	for rows.Next() {
		var desc sql.NullString
		item := &secondary.ServiceItemRecord{}
		if err := rows.Scan(&item.ID, &item.RequestID, &item.ServiceType, &desc, &item.Urgency); err != nil {
			return nil, err
		}
		item.Description = desc.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// Ensure RequestRepository implements the interface
var _ secondary.RequestRepository = (*RequestRepository)(nil)
