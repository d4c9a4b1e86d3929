package models

// BusinessDaySchedule is the open/closed schedule for one weekday.
// Weekdays are keyed 0=Monday .. 6=Sunday. Exactly one row exists per
// weekday; a missing row is treated as closed with no after-hours drop-off.
type BusinessDaySchedule struct {
	DayOfWeek              int
	IsOpen                 bool
	StartTime              string // HH:MM, required when open
	EndTime                string // HH:MM, required when open, must be after StartTime
	AllowAfterHoursDropoff bool
}

// DayNames maps the weekday key to its display name.
var DayNames = [7]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// DayName returns the display name for a weekday key, or "?" out of range.
func DayName(day int) string {
	if day < 0 || day > 6 {
		return "?"
	}
	return DayNames[day]
}
