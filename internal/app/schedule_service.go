package app

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/pitstop/internal/core/schedule"
	"github.com/example/pitstop/internal/models"
	"github.com/example/pitstop/internal/ports/primary"
	"github.com/example/pitstop/internal/ports/secondary"
)

// ScheduleServiceImpl implements the ScheduleService interface: slot
// validation against the fixed grid, the weekday calendar, and existing
// bookings.
type ScheduleServiceImpl struct {
	requestRepo  secondary.RequestRepository
	scheduleRepo secondary.ScheduleRepository
	logger       *log.Logger
	location     *time.Location
	now          func() time.Time
}

// NewScheduleService creates a new ScheduleService with injected dependencies.
// All date/time decisions happen in location, the shop timezone.
func NewScheduleService(
	requestRepo secondary.RequestRepository,
	scheduleRepo secondary.ScheduleRepository,
	logger *log.Logger,
	location *time.Location,
) *ScheduleServiceImpl {
	return &ScheduleServiceImpl{
		requestRepo:  requestRepo,
		scheduleRepo: scheduleRepo,
		logger:       logger,
		location:     location,
		now:          time.Now,
	}
}

// ValidateSlot accepts or rejects a requested appointment slot. Checks run
// cheapest-first: grid shape, then the weekday calendar, then existing
// bookings. A missing calendar row fails closed.
func (s *ScheduleServiceImpl) ValidateSlot(ctx context.Context, date, clock string, afterHours bool) error {
	day, err := time.ParseInLocation(models.DateFormat, date, s.location)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	minutes, err := schedule.ParseClock(clock)
	if err != nil {
		return err
	}

	now := s.now().In(s.location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	if day.Before(today) {
		return fmt.Errorf("%w: %s is in the past", models.ErrSlotInPast, date)
	}
	if err := schedule.CheckSlot(day, minutes, now); err != nil {
		return err
	}

	row, err := s.scheduleRepo.GetDay(ctx, schedule.WeekdayIndex(day))
	if err != nil {
		return fmt.Errorf("failed to load business hours: %w", err)
	}
	if row == nil {
		return fmt.Errorf("%w: no business hours configured for %s", models.ErrCalendarMisconfigured, models.DayName(schedule.WeekdayIndex(day)))
	}
	within, allowsAfterHours, err := schedule.WithinBusinessHours(dayFromRecord(row), minutes)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrCalendarMisconfigured, err)
	}
	if !within && !(afterHours && allowsAfterHours) {
		return fmt.Errorf("%w: %s is outside business hours on %s", models.ErrOutsideBusinessHours, clock, models.DayName(schedule.WeekdayIndex(day)))
	}

	taken, err := s.requestRepo.SlotTaken(ctx, date, clock)
	if err != nil {
		return fmt.Errorf("failed to check slot availability: %w", err)
	}
	if taken {
		return fmt.Errorf("%w: %s %s", models.ErrSlotAlreadyBooked, date, clock)
	}
	return nil
}

// ListAvailableSlots enumerates the free slots for a date: the fixed grid
// minus non-cancelled bookings, ascending.
func (s *ScheduleServiceImpl) ListAvailableSlots(ctx context.Context, date string) ([]string, error) {
	day, err := time.ParseInLocation(models.DateFormat, date, s.location)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}

	grid := schedule.SlotGrid(day, s.now().In(s.location))

	booked, err := s.requestRepo.BookedTimes(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load booked slots: %w", err)
	}
	taken := make(map[string]bool, len(booked))
	for _, clock := range booked {
		taken[clock] = true
	}

	free := make([]string, 0, len(grid))
	for _, slot := range grid {
		if !taken[slot] {
			free = append(free, slot)
		}
	}
	return free, nil
}

// ListBusinessHours returns the weekly schedule ordered by weekday.
func (s *ScheduleServiceImpl) ListBusinessHours(ctx context.Context) ([]models.BusinessDaySchedule, error) {
	rows, err := s.scheduleRepo.ListDays(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load business hours: %w", err)
	}
	days := make([]models.BusinessDaySchedule, 0, len(rows))
	for _, row := range rows {
		days = append(days, dayFromRecord(row))
	}
	sort.Slice(days, func(i, j int) bool { return days[i].DayOfWeek < days[j].DayOfWeek })
	return days, nil
}

// SetBusinessHours creates or replaces one weekday row after validating its
// invariants.
func (s *ScheduleServiceImpl) SetBusinessHours(ctx context.Context, day models.BusinessDaySchedule) error {
	if err := schedule.ValidateDay(day); err != nil {
		return err
	}
	return s.scheduleRepo.UpsertDay(ctx, &secondary.BusinessDayRecord{
		DayOfWeek:              day.DayOfWeek,
		IsOpen:                 day.IsOpen,
		StartTime:              day.StartTime,
		EndTime:                day.EndTime,
		AllowAfterHoursDropoff: day.AllowAfterHoursDropoff,
	})
}

// hoursDocument is the YAML shape accepted by ImportBusinessHours.
type hoursDocument struct {
	Hours []hoursEntry `yaml:"hours"`
}

type hoursEntry struct {
	Day               string `yaml:"day"`
	Open              bool   `yaml:"open"`
	Start             string `yaml:"start"`
	End               string `yaml:"end"`
	AfterHoursDropoff bool   `yaml:"after_hours_dropoff"`
}

// ImportBusinessHours replaces the weekly schedule from a YAML document.
// Every entry is validated before any row is written; a bad document leaves
// the calendar untouched. Returns the number of rows written.
func (s *ScheduleServiceImpl) ImportBusinessHours(ctx context.Context, yamlSrc []byte) (int, error) {
	var doc hoursDocument
	if err := yaml.Unmarshal(yamlSrc, &doc); err != nil {
		return 0, fmt.Errorf("failed to parse business hours document: %w", err)
	}
	if len(doc.Hours) == 0 {
		return 0, fmt.Errorf("business hours document contains no entries")
	}

	days := make([]models.BusinessDaySchedule, 0, len(doc.Hours))
	seen := make(map[int]bool, len(doc.Hours))
	for _, entry := range doc.Hours {
		dayIndex, err := weekdayByName(entry.Day)
		if err != nil {
			return 0, err
		}
		if seen[dayIndex] {
			return 0, fmt.Errorf("duplicate entry for %s", models.DayName(dayIndex))
		}
		seen[dayIndex] = true

		day := models.BusinessDaySchedule{
			DayOfWeek:              dayIndex,
			IsOpen:                 entry.Open,
			StartTime:              entry.Start,
			EndTime:                entry.End,
			AllowAfterHoursDropoff: entry.AfterHoursDropoff,
		}
		if err := schedule.ValidateDay(day); err != nil {
			return 0, fmt.Errorf("%s: %w", models.DayName(dayIndex), err)
		}
		days = append(days, day)
	}

	for _, day := range days {
		if err := s.SetBusinessHours(ctx, day); err != nil {
			return 0, err
		}
	}
	return len(days), nil
}

// weekdayByName resolves a case-insensitive English day name to its key.
func weekdayByName(name string) (int, error) {
	for i, dayName := range models.DayNames {
		if strings.EqualFold(name, dayName) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", name)
}

func dayFromRecord(row *secondary.BusinessDayRecord) models.BusinessDaySchedule {
	return models.BusinessDaySchedule{
		DayOfWeek:              row.DayOfWeek,
		IsOpen:                 row.IsOpen,
		StartTime:              row.StartTime,
		EndTime:                row.EndTime,
		AllowAfterHoursDropoff: row.AllowAfterHoursDropoff,
	}
}

// Ensure ScheduleServiceImpl implements the interface
var _ primary.ScheduleService = (*ScheduleServiceImpl)(nil)
