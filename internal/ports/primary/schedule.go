package primary

import (
	"context"

	"github.com/example/pitstop/internal/models"
)

// ScheduleService is the primary port for slot validation and the business
// calendar boundary.
type ScheduleService interface {
	// ValidateSlot accepts or rejects a requested appointment slot against
	// the fixed slot schedule, the weekday calendar, and existing bookings.
	ValidateSlot(ctx context.Context, date, clock string, afterHours bool) error

	// ListAvailableSlots enumerates the free HH:MM slots for a date in
	// ascending order.
	ListAvailableSlots(ctx context.Context, date string) ([]string, error)

	// ListBusinessHours returns the weekly schedule ordered by weekday.
	ListBusinessHours(ctx context.Context) ([]models.BusinessDaySchedule, error)

	// SetBusinessHours creates or replaces one weekday row.
	SetBusinessHours(ctx context.Context, day models.BusinessDaySchedule) error

	// ImportBusinessHours replaces the weekly schedule from a YAML document.
	ImportBusinessHours(ctx context.Context, yamlSrc []byte) (int, error)
}
