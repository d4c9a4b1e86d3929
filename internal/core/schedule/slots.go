package schedule

import (
	"time"

	"github.com/example/pitstop/internal/models"
)

// Fixed slot schedule constants. These govern the slot grid and slot-level
// validation; the per-weekday BusinessDaySchedule governs the day-level
// open/closed decision on the booking commit path.
const (
	SlotIntervalMinutes = 10
	OpenHour            = 9  // first bookable hour, inclusive
	CloseHour           = 16 // slots must start before this hour
	LunchHour           = 12 // excluded from the generated grid

	// SameDayBuffer is the minimum lead time for same-day bookings.
	SameDayBuffer = 10 * time.Minute
)

// CheckSlot validates a single requested slot against the fixed schedule
// constants. date is midnight of the requested day and now is the current
// instant, both in the shop timezone. Day-level business-hours and
// double-booking checks are the caller's concern.
func CheckSlot(date time.Time, clock int, now time.Time) error {
	if clock%SlotIntervalMinutes != 0 {
		return models.ErrInvalidGranularity
	}
	hour := clock / 60
	if hour < OpenHour || hour >= CloseHour {
		return models.ErrOutsideBusinessHours
	}
	if sameDay(date, now) {
		slot := date.Add(time.Duration(clock) * time.Minute)
		if slot.Before(now.Add(SameDayBuffer)) {
			return models.ErrSlotInPast
		}
	}
	return nil
}

// SlotGrid returns the bookable HH:MM slots for a day in ascending order:
// a 10-minute grid from OpenHour up to CloseHour, skipping the lunch hour,
// and for same-day requests skipping slots inside the booking buffer.
// Booked slots are not the grid's concern; the caller subtracts them.
func SlotGrid(date time.Time, now time.Time) []string {
	cutoff := now.Add(SameDayBuffer)
	today := sameDay(date, now)

	var slots []string
	for hour := OpenHour; hour < CloseHour; hour++ {
		if hour == LunchHour {
			continue
		}
		for minute := 0; minute < 60; minute += SlotIntervalMinutes {
			clock := hour*60 + minute
			if today {
				slot := date.Add(time.Duration(clock) * time.Minute)
				if !slot.After(cutoff) {
					continue
				}
			}
			slots = append(slots, FormatClock(clock))
		}
	}
	return slots
}

func sameDay(date, now time.Time) bool {
	y1, m1, d1 := date.Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
