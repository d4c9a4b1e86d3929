package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/pitstop/internal/ports/secondary"
)

// ScheduleRepository implements secondary.ScheduleRepository with SQLite.
type ScheduleRepository struct {
	db *sql.DB
}

// NewScheduleRepository creates a new SQLite schedule repository.
func NewScheduleRepository(db *sql.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func scanBusinessDay(scanner interface {
	Scan(dest ...any) error
}) (*secondary.BusinessDayRecord, error) {
	var start, end sql.NullString
	record := &secondary.BusinessDayRecord{}
	err := scanner.Scan(
		&record.DayOfWeek, &record.IsOpen, &start, &end, &record.AllowAfterHoursDropoff,
	)
	if err != nil {
		return nil, err
	}
	record.StartTime = start.String
	record.EndTime = end.String
	return record, nil
}

const businessDayCols = "day_of_week, is_open, start_time, end_time, allow_after_hours_dropoff"

// GetDay retrieves one weekday row. Returns (nil, nil) when absent; the
// caller treats that as closed with no after-hours (fail-closed).
func (r *ScheduleRepository) GetDay(ctx context.Context, dayOfWeek int) (*secondary.BusinessDayRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+businessDayCols+" FROM business_hours WHERE day_of_week = ?", dayOfWeek)

	record, err := scanBusinessDay(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get business hours: %w", err)
	}
	return record, nil
}

// ListDays retrieves all weekday rows ordered by weekday.
func (r *ScheduleRepository) ListDays(ctx context.Context) ([]*secondary.BusinessDayRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+businessDayCols+" FROM business_hours ORDER BY day_of_week ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list business hours: %w", err)
	}
	defer rows.Close()

	var records []*secondary.BusinessDayRecord
	for rows.Next() {
		record, err := scanBusinessDay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan business hours: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// UpsertDay creates or replaces one weekday row.
func (r *ScheduleRepository) UpsertDay(ctx context.Context, day *secondary.BusinessDayRecord) error {
	var start, end sql.NullString
	if day.StartTime != "" {
		start = sql.NullString{String: day.StartTime, Valid: true}
	}
	if day.EndTime != "" {
		end = sql.NullString{String: day.EndTime, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO business_hours (day_of_week, is_open, start_time, end_time, allow_after_hours_dropoff)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(day_of_week) DO UPDATE SET
			is_open = excluded.is_open,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			allow_after_hours_dropoff = excluded.allow_after_hours_dropoff`,
		day.DayOfWeek, day.IsOpen, start, end, day.AllowAfterHoursDropoff,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert business hours: %w", err)
	}
	return nil
}

// Ensure ScheduleRepository implements the interface
var _ secondary.ScheduleRepository = (*ScheduleRepository)(nil)
