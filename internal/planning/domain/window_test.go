package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityDomain "github.com/felixgeelhaar/weekplan/internal/identity/domain"
	"github.com/felixgeelhaar/weekplan/internal/planning/domain"
)

func TestWeekStart(t *testing.T) {
	loc := time.UTC
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, loc)

	cases := []struct {
		name string
		now  time.Time
	}{
		{"monday morning", time.Date(2026, 1, 5, 8, 30, 0, 0, loc)},
		{"wednesday", time.Date(2026, 1, 7, 23, 59, 0, 0, loc)},
		{"sunday", time.Date(2026, 1, 11, 12, 0, 0, 0, loc)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, monday, domain.WeekStart(tc.now, loc))
		})
	}
}

func TestWeekStart_UsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// Monday 03:00 UTC is still Sunday evening in New York, so the week
	// starts on the previous Monday there.
	now := time.Date(2026, 1, 5, 3, 0, 0, 0, time.UTC)
	start := domain.WeekStart(now, loc)

	assert.Equal(t, time.Date(2025, 12, 29, 0, 0, 0, 0, loc), start)
}

func TestDayWindow(t *testing.T) {
	date := time.Date(2026, 1, 6, 15, 42, 0, 0, time.UTC)
	hours := identityDomain.DayHours{Enabled: true, Start: "09:00", End: "17:30"}

	window := domain.DayWindow(date, hours)

	assert.Equal(t, time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC), window.Start)
	assert.Equal(t, time.Date(2026, 1, 6, 17, 30, 0, 0, time.UTC), window.End)
	assert.Equal(t, 510, window.Minutes())
}
