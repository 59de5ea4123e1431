package domain

import (
	"time"

	identityDomain "github.com/felixgeelhaar/weekplan/internal/identity/domain"
)

// HorizonDays is the fixed length of one planning run.
const HorizonDays = 7

// WeekStart returns midnight of the most recent Monday in the given
// location. A Monday "now" starts the week on that same day.
func WeekStart(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	back := (int(local.Weekday()) + 6) % 7
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return day.AddDate(0, 0, -back)
}

// DayWindow resolves the absolute working interval for a calendar day.
// The date's own location anchors the wall-clock times, so DST shifts
// land where the user expects them.
func DayWindow(date time.Time, hours identityDomain.DayHours) Interval {
	startMin, _ := identityDomain.ParseClock(hours.Start)
	endMin, _ := identityDomain.ParseClock(hours.End)
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return Interval{
		Start: midnight.Add(time.Duration(startMin) * time.Minute),
		End:   midnight.Add(time.Duration(endMin) * time.Minute),
	}
}
