package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNoWorkingHours indicates the profile has no enabled working day.
	ErrNoWorkingHours = errors.New("no working hours configured")
	// ErrInvalidDayHours indicates a malformed or inverted day range.
	ErrInvalidDayHours = errors.New("invalid day hours")
)

var dayKeys = map[time.Weekday]string{
	time.Monday:    "monday",
	time.Tuesday:   "tuesday",
	time.Wednesday: "wednesday",
	time.Thursday:  "thursday",
	time.Friday:    "friday",
	time.Saturday:  "saturday",
	time.Sunday:    "sunday",
}

// DayKey returns the canonical lowercase key for a weekday.
func DayKey(day time.Weekday) string {
	return dayKeys[day]
}

// DayHours is one weekday's working range in local wall-clock time.
type DayHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// Validate checks that an enabled day has a well-formed, non-inverted range.
func (d DayHours) Validate() error {
	if !d.Enabled {
		return nil
	}
	start, err := ParseClock(d.Start)
	if err != nil {
		return fmt.Errorf("%w: start %q", ErrInvalidDayHours, d.Start)
	}
	end, err := ParseClock(d.End)
	if err != nil {
		return fmt.Errorf("%w: end %q", ErrInvalidDayHours, d.End)
	}
	if end <= start {
		return fmt.Errorf("%w: %s is not before %s", ErrInvalidDayHours, d.Start, d.End)
	}
	return nil
}

// WorkingHours maps weekday keys (monday..sunday) to day ranges.
// A missing or disabled entry means no planning happens that day.
type WorkingHours map[string]DayHours

// DefaultWorkingHours returns a Monday to Friday nine-to-five week.
func DefaultWorkingHours() WorkingHours {
	hours := WorkingHours{}
	for day := time.Monday; day <= time.Friday; day++ {
		hours[DayKey(day)] = DayHours{Enabled: true, Start: "09:00", End: "17:00"}
	}
	return hours
}

// Validate checks every configured day and requires at least one enabled.
func (w WorkingHours) Validate() error {
	enabled := false
	for key, day := range w {
		if _, ok := ParseDayKey(key); !ok {
			return fmt.Errorf("%w: unknown day %q", ErrInvalidDayHours, key)
		}
		if err := day.Validate(); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if day.Enabled {
			enabled = true
		}
	}
	if !enabled {
		return ErrNoWorkingHours
	}
	return nil
}

// For returns the hours for a weekday, or false when the day is off.
func (w WorkingHours) For(day time.Weekday) (DayHours, bool) {
	hours, ok := w[DayKey(day)]
	if !ok || !hours.Enabled {
		return DayHours{}, false
	}
	return hours, true
}

// ParseClock parses an "HH:MM" wall-clock string into minutes from midnight.
func ParseClock(value string) (int, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(value, "%d:%d", &hour, &minute); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	if len(value) != 5 || value[2] != ':' {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock value %q out of range", value)
	}
	return hour*60 + minute, nil
}

// ParseDayKey resolves a lowercase weekday name to its time.Weekday.
func ParseDayKey(key string) (time.Weekday, bool) {
	for day, name := range dayKeys {
		if name == key {
			return day, true
		}
	}
	return 0, false
}
