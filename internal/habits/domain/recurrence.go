package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// ErrInvalidRecurrence indicates a malformed RRULE string.
var ErrInvalidRecurrence = errors.New("invalid recurrence rule")

// DefaultRecurrenceRule is used when no rule is given.
const DefaultRecurrenceRule = "FREQ=DAILY"

// Recurrence is a parsed RRULE restricted to what the planner supports:
// daily, or weekly with BYDAY. Anything else falls back to daily and
// is flagged so callers can warn.
type Recurrence struct {
	raw         string
	weekly      bool
	days        map[time.Weekday]bool
	unsupported bool
}

// ParseRecurrence parses an RRULE string. Empty input means daily.
func ParseRecurrence(raw string) (Recurrence, error) {
	if raw == "" {
		raw = DefaultRecurrenceRule
	}

	rule, err := rrule.StrToRRule(raw)
	if err != nil {
		return Recurrence{}, fmt.Errorf("%w: %q: %v", ErrInvalidRecurrence, raw, err)
	}

	opts := rule.Options
	switch opts.Freq {
	case rrule.DAILY:
		return Recurrence{raw: raw}, nil
	case rrule.WEEKLY:
		if len(opts.Byweekday) == 0 {
			// Weekly without BYDAY depends on DTSTART, which habits
			// do not carry. Fall back to daily.
			return Recurrence{raw: raw, unsupported: true}, nil
		}
		days := make(map[time.Weekday]bool, len(opts.Byweekday))
		for _, wd := range opts.Byweekday {
			days[rruleWeekdayToTime(wd)] = true
		}
		return Recurrence{raw: raw, weekly: true, days: days}, nil
	default:
		return Recurrence{raw: raw, unsupported: true}, nil
	}
}

// rrule weekdays count Monday as 0, time.Weekday counts Sunday as 0.
func rruleWeekdayToTime(wd rrule.Weekday) time.Weekday {
	return time.Weekday((wd.Day() + 1) % 7)
}

// String returns the original RRULE text.
func (r Recurrence) String() string { return r.raw }

// Unsupported reports whether the rule was downgraded to daily.
func (r Recurrence) Unsupported() bool { return r.unsupported }

// OccursOn reports whether the rule recurs on the given weekday.
func (r Recurrence) OccursOn(day time.Weekday) bool {
	if !r.weekly {
		return true
	}
	return r.days[day]
}
