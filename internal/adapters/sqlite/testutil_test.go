// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the single point where the database schema is loaded for
// tests. All test setup uses db.GetSchemaSQL() so repository code that
// references a missing column fails here with "no such column", not in
// production. Do not hardcode CREATE TABLE statements in test files.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/pitstop/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	// Every new connection to :memory: is a fresh database; pin the pool to
	// one connection so concurrent tests share the schema.
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedCustomer inserts a test customer and returns its ID.
func seedCustomer(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	if id == "" {
		id = "CUST-001"
	}
	if name == "" {
		name = "Pat Doe"
	}
	_, err := db.Exec(
		"INSERT INTO customers (id, name, phone) VALUES (?, ?, '555-0100')",
		id, name,
	)
	if err != nil {
		t.Fatalf("failed to seed customer: %v", err)
	}
	return id
}

// seedVehicle inserts a test vehicle and returns its ID.
func seedVehicle(t *testing.T, db *sql.DB, id, customerID string) string {
	t.Helper()
	if id == "" {
		id = "VEH-001"
	}
	if customerID == "" {
		customerID = "CUST-001"
	}
	_, err := db.Exec(
		"INSERT INTO vehicles (id, customer_id, make, model, year) VALUES (?, ?, 'Honda', 'Civic', 2019)",
		id, customerID,
	)
	if err != nil {
		t.Fatalf("failed to seed vehicle: %v", err)
	}
	return id
}

// seedRequest inserts a request directly, bypassing the repository.
func seedRequest(t *testing.T, db *sql.DB, id, column string, position int, date, clock string) string {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO service_requests
		(id, customer_id, vehicle_id, status, workflow_column, workflow_position, appointment_date, appointment_time)
		VALUES (?, 'CUST-001', 'VEH-001', 'pending', ?, ?, ?, ?)`,
		id, column, position, date, clock,
	)
	if err != nil {
		t.Fatalf("failed to seed request %s: %v", id, err)
	}
	return id
}
