package domain

import (
	"sort"
	"time"
)

// Interval is a half-open [Start, End) time range.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Duration returns the interval length.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// Minutes returns the interval length in whole minutes.
func (i Interval) Minutes() int {
	return int(i.Duration().Minutes())
}

// IsEmpty reports whether the interval contains no time at all.
func (i Interval) IsEmpty() bool {
	return !i.End.After(i.Start)
}

// Overlaps reports whether two half-open intervals share any time.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// FreeSlots subtracts busy intervals from a working window and returns
// the remaining free intervals in chronological order. A buffer is kept
// after every busy interval before free time may resume.
//
// The cursor only ever moves forward, so overlapping or touching busy
// intervals collapse into one occupied stretch instead of producing
// phantom slots between them.
func FreeSlots(window Interval, busy []Interval, buffer time.Duration) []Interval {
	if window.IsEmpty() {
		return nil
	}

	sorted := make([]Interval, len(busy))
	copy(sorted, busy)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start.Before(sorted[j].Start) })

	var free []Interval
	cursor := window.Start
	for _, b := range sorted {
		if b.IsEmpty() {
			continue
		}
		if b.Start.After(cursor) {
			end := b.Start
			if end.After(window.End) {
				end = window.End
			}
			if end.After(cursor) {
				free = append(free, Interval{Start: cursor, End: end})
			}
		}
		if next := b.End.Add(buffer); next.After(cursor) {
			cursor = next
		}
		if !cursor.Before(window.End) {
			return free
		}
	}

	if cursor.Before(window.End) {
		free = append(free, Interval{Start: cursor, End: window.End})
	}
	return free
}
