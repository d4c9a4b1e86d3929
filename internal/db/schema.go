package db

// SchemaSQL is the complete schema for fresh Pitstop installs.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All repository
// tests load it via GetSchemaSQL(), so code referencing a column that does
// not exist here fails immediately with "no such column" at test time, not
// in production.
//
// When adding columns or tables:
//  1. Add a migration in internal/db/migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Customers (payload attached to board views; auth lives elsewhere)
CREATE TABLE IF NOT EXISTS customers (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	phone TEXT NOT NULL,
	email TEXT,
	preferred_contact TEXT NOT NULL CHECK(preferred_contact IN ('email', 'phone')) DEFAULT 'email',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Vehicles
CREATE TABLE IF NOT EXISTS vehicles (
	id TEXT PRIMARY KEY,
	customer_id TEXT NOT NULL,
	make TEXT NOT NULL,
	model TEXT NOT NULL,
	year INTEGER NOT NULL,
	vin TEXT UNIQUE,
	FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE
);

-- Service requests (the board items)
CREATE TABLE IF NOT EXISTS service_requests (
	id TEXT PRIMARY KEY,
	customer_id TEXT NOT NULL,
	vehicle_id TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('pending', 'confirmed', 'in_progress', 'completed', 'cancelled')) DEFAULT 'pending',
	workflow_column TEXT NOT NULL CHECK(workflow_column IN ('estimates', 'in_progress', 'waiting_parts', 'completed')) DEFAULT 'estimates',
	workflow_position INTEGER NOT NULL DEFAULT 0,
	workflow_history TEXT NOT NULL DEFAULT '[]',
	appointment_date TEXT NOT NULL,
	appointment_time TEXT NOT NULL,
	after_hours_dropoff INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (customer_id) REFERENCES customers(id),
	FOREIGN KEY (vehicle_id) REFERENCES vehicles(id)
);

CREATE INDEX IF NOT EXISTS idx_service_requests_column_position
	ON service_requests(workflow_column, workflow_position);

CREATE INDEX IF NOT EXISTS idx_service_requests_date
	ON service_requests(appointment_date);

-- One non-cancelled booking per slot. Slot acceptance and request
-- persistence are atomic through this index: a concurrent double-book
-- loses here, not in application code.
CREATE UNIQUE INDEX IF NOT EXISTS idx_service_requests_slot
	ON service_requests(appointment_date, appointment_time)
	WHERE status != 'cancelled';

-- Service line items
CREATE TABLE IF NOT EXISTS service_items (
	id TEXT PRIMARY KEY,
	request_id TEXT NOT NULL,
	service_type TEXT NOT NULL,
	description TEXT,
	urgency TEXT NOT NULL CHECK(urgency IN ('low', 'medium', 'high')) DEFAULT 'medium',
	FOREIGN KEY (request_id) REFERENCES service_requests(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_service_items_request
	ON service_items(request_id);

-- Business hours, one row per weekday (0=Monday..6=Sunday).
-- A missing row means closed with no after-hours drop-off.
CREATE TABLE IF NOT EXISTS business_hours (
	day_of_week INTEGER PRIMARY KEY CHECK(day_of_week BETWEEN 0 AND 6),
	is_open INTEGER NOT NULL DEFAULT 0,
	start_time TEXT,
	end_time TEXT,
	allow_after_hours_dropoff INTEGER NOT NULL DEFAULT 0
);

-- Migration bookkeeping
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// GetSchemaSQL returns the authoritative schema for tests and tools.
func GetSchemaSQL() string {
	return SchemaSQL
}
