package db

import (
	"database/sql"
	"fmt"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.DB) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "add_slot_unique_index",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "add_after_hours_dropoff_to_requests",
		Up:      migrationV2,
	},
}

// RunMigrations applies all pending migrations in order.
func RunMigrations(database *sql.DB) error {
	for _, m := range migrations {
		applied, err := migrationApplied(database, m.Version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if err := m.Up(database); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		if _, err := database.Exec(
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			m.Version, m.Name,
		); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	return nil
}

func migrationApplied(database *sql.DB, version int) (bool, error) {
	var count int
	err := database.QueryRow(
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %d: %w", version, err)
	}
	return count > 0, nil
}

// migrationV1 backfills the partial unique slot index on databases created
// before it entered the base schema.
func migrationV1(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_service_requests_slot
		ON service_requests(appointment_date, appointment_time)
		WHERE status != 'cancelled'`)
	return err
}

// migrationV2 backfills the after_hours_dropoff column.
func migrationV2(database *sql.DB) error {
	var count int
	err := database.QueryRow(`
		SELECT COUNT(*) FROM pragma_table_info('service_requests')
		WHERE name = 'after_hours_dropoff'`).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err = database.Exec(
		"ALTER TABLE service_requests ADD COLUMN after_hours_dropoff INTEGER NOT NULL DEFAULT 0")
	return err
}
