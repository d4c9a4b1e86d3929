package db

import (
	"database/sql"
	"fmt"
)

// SeedBusinessHours inserts the default weekly schedule on fresh installs:
// Mon-Fri 09:00-17:00, Sat 10:00-14:00 with after-hours drop-off, Sun closed.
// Existing rows are left untouched.
func SeedBusinessHours(database *sql.DB) error {
	days := []struct {
		day        int
		isOpen     bool
		start, end string
		afterHours bool
	}{
		{0, true, "09:00", "17:00", false},
		{1, true, "09:00", "17:00", false},
		{2, true, "09:00", "17:00", false},
		{3, true, "09:00", "17:00", false},
		{4, true, "09:00", "17:00", false},
		{5, true, "10:00", "14:00", true},
		{6, false, "", "", false},
	}

	for _, d := range days {
		var start, end sql.NullString
		if d.start != "" {
			start = sql.NullString{String: d.start, Valid: true}
		}
		if d.end != "" {
			end = sql.NullString{String: d.end, Valid: true}
		}
		if _, err := database.Exec(`
			INSERT OR IGNORE INTO business_hours
			(day_of_week, is_open, start_time, end_time, allow_after_hours_dropoff)
			VALUES (?, ?, ?, ?, ?)`,
			d.day, d.isOpen, start, end, d.afterHours,
		); err != nil {
			return fmt.Errorf("seed business hours: %w", err)
		}
	}
	return nil
}
