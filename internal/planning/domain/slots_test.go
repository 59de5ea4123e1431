package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/planning/domain"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 1, 5, hour, minute, 0, 0, time.UTC)
}

func interval(startHour, startMin, endHour, endMin int) domain.Interval {
	return domain.Interval{Start: at(startHour, startMin), End: at(endHour, endMin)}
}

func TestFreeSlots_EmptyBusy(t *testing.T) {
	window := interval(9, 0, 17, 0)

	free := domain.FreeSlots(window, nil, 10*time.Minute)

	require.Len(t, free, 1)
	assert.Equal(t, window, free[0])
}

func TestFreeSlots_SingleBusyWithBuffer(t *testing.T) {
	window := interval(9, 0, 17, 0)
	busy := []domain.Interval{interval(10, 0, 11, 0)}

	free := domain.FreeSlots(window, busy, 10*time.Minute)

	require.Len(t, free, 2)
	assert.Equal(t, interval(9, 0, 10, 0), free[0])
	// Free time resumes only after the buffer.
	assert.Equal(t, interval(11, 10, 17, 0), free[1])
}

func TestFreeSlots_UnsortedAndOverlappingBusy(t *testing.T) {
	window := interval(9, 0, 17, 0)
	busy := []domain.Interval{
		interval(13, 0, 14, 0),
		interval(10, 0, 11, 30),
		interval(11, 0, 12, 0), // overlaps the previous one
	}

	free := domain.FreeSlots(window, busy, 0)

	require.Len(t, free, 3)
	assert.Equal(t, interval(9, 0, 10, 0), free[0])
	assert.Equal(t, interval(12, 0, 13, 0), free[1])
	assert.Equal(t, interval(14, 0, 17, 0), free[2])
}

func TestFreeSlots_BusyCoversWindow(t *testing.T) {
	window := interval(9, 0, 17, 0)
	busy := []domain.Interval{interval(8, 0, 18, 0)}

	free := domain.FreeSlots(window, busy, 5*time.Minute)

	assert.Empty(t, free)
}

func TestFreeSlots_BusyBeforeWindow(t *testing.T) {
	window := interval(9, 0, 17, 0)
	busy := []domain.Interval{interval(7, 0, 8, 0)}

	free := domain.FreeSlots(window, busy, 10*time.Minute)

	require.Len(t, free, 1)
	assert.Equal(t, window, free[0])
}

func TestFreeSlots_BusyEndsJustBeforeWindow(t *testing.T) {
	// The buffer after a busy interval ending at 08:55 pushes the first
	// free minute past the window start.
	window := interval(9, 0, 17, 0)
	busy := []domain.Interval{interval(8, 0, 8, 55)}

	free := domain.FreeSlots(window, busy, 10*time.Minute)

	require.Len(t, free, 1)
	assert.Equal(t, interval(9, 5, 17, 0), free[0])
}

func TestFreeSlots_BusyAfterWindow(t *testing.T) {
	window := interval(9, 0, 17, 0)
	busy := []domain.Interval{interval(18, 0, 19, 0)}

	free := domain.FreeSlots(window, busy, 10*time.Minute)

	require.Len(t, free, 1)
	assert.Equal(t, window, free[0])
}

func TestFreeSlots_NeverOverlapBusy(t *testing.T) {
	window := interval(8, 0, 18, 0)
	busy := []domain.Interval{
		interval(9, 15, 9, 45),
		interval(9, 30, 10, 30),
		interval(12, 0, 13, 0),
		interval(16, 50, 17, 10),
	}

	free := domain.FreeSlots(window, busy, 15*time.Minute)

	for _, slot := range free {
		assert.False(t, slot.IsEmpty())
		assert.False(t, slot.Start.Before(window.Start))
		assert.False(t, slot.End.After(window.End))
		for _, b := range busy {
			assert.False(t, slot.Overlaps(b), "slot %v overlaps busy %v", slot, b)
		}
	}
	for i := 1; i < len(free); i++ {
		assert.False(t, free[i].Start.Before(free[i-1].End))
	}
}

func TestInterval_Overlaps(t *testing.T) {
	a := interval(9, 0, 10, 0)

	assert.True(t, a.Overlaps(interval(9, 30, 10, 30)))
	assert.True(t, a.Overlaps(interval(8, 0, 9, 1)))
	// Half-open ranges: touching intervals do not overlap.
	assert.False(t, a.Overlaps(interval(10, 0, 11, 0)))
	assert.False(t, a.Overlaps(interval(8, 0, 9, 0)))
}
