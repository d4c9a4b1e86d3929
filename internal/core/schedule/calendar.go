// Package schedule contains the pure business logic for appointment
// scheduling: the business calendar and the slot grid.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/pitstop/internal/models"
)

// WeekdayIndex converts a time to the shop's weekday key (0=Monday..6=Sunday).
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// ParseClock parses an HH:MM string into minutes since midnight.
func ParseClock(clock string) (int, error) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", clock, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid time %q: out of range", clock)
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes since midnight as HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// WithinBusinessHours reports whether a clock value (minutes since midnight)
// falls inside the day's open window, plus whether the day permits
// after-hours drop-off. A closed day is never within hours but may still
// allow drop-off.
func WithinBusinessHours(day models.BusinessDaySchedule, clock int) (within bool, allowsAfterHours bool, err error) {
	if !day.IsOpen {
		return false, day.AllowAfterHoursDropoff, nil
	}
	start, err := ParseClock(day.StartTime)
	if err != nil {
		return false, false, err
	}
	end, err := ParseClock(day.EndTime)
	if err != nil {
		return false, false, err
	}
	return start <= clock && clock <= end, day.AllowAfterHoursDropoff, nil
}

// ValidateDay checks the invariants of a single schedule row: open days
// require a start and end time with start strictly before end.
func ValidateDay(day models.BusinessDaySchedule) error {
	if day.DayOfWeek < 0 || day.DayOfWeek > 6 {
		return fmt.Errorf("day_of_week must be 0-6, got %d", day.DayOfWeek)
	}
	if !day.IsOpen {
		return nil
	}
	if day.StartTime == "" || day.EndTime == "" {
		return fmt.Errorf("start time and end time are required when the business is open")
	}
	start, err := ParseClock(day.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(day.EndTime)
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("start time must be before end time")
	}
	return nil
}
