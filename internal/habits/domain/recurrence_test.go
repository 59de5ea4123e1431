package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/habits/domain"
)

func TestParseRecurrence_Daily(t *testing.T) {
	rec, err := domain.ParseRecurrence("FREQ=DAILY")
	require.NoError(t, err)

	assert.False(t, rec.Unsupported())
	assert.True(t, rec.OccursOn(time.Sunday))
	assert.True(t, rec.OccursOn(time.Wednesday))
}

func TestParseRecurrence_EmptyDefaultsToDaily(t *testing.T) {
	rec, err := domain.ParseRecurrence("")
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultRecurrenceRule, rec.String())
	assert.True(t, rec.OccursOn(time.Saturday))
}

func TestParseRecurrence_WeeklyByDay(t *testing.T) {
	rec, err := domain.ParseRecurrence("FREQ=WEEKLY;BYDAY=TU,TH")
	require.NoError(t, err)

	assert.False(t, rec.Unsupported())
	assert.True(t, rec.OccursOn(time.Tuesday))
	assert.True(t, rec.OccursOn(time.Thursday))
	assert.False(t, rec.OccursOn(time.Monday))
}

func TestParseRecurrence_WeeklySundayMapping(t *testing.T) {
	rec, err := domain.ParseRecurrence("FREQ=WEEKLY;BYDAY=SU")
	require.NoError(t, err)

	assert.True(t, rec.OccursOn(time.Sunday))
	assert.False(t, rec.OccursOn(time.Monday))
}

func TestParseRecurrence_UnsupportedFallsBackToDaily(t *testing.T) {
	tests := []string{
		"FREQ=MONTHLY;BYMONTHDAY=1",
		"FREQ=YEARLY",
		"FREQ=WEEKLY",
	}

	for _, raw := range tests {
		rec, err := domain.ParseRecurrence(raw)
		require.NoError(t, err, raw)
		assert.True(t, rec.Unsupported(), raw)
		// Downgraded rules behave as daily.
		assert.True(t, rec.OccursOn(time.Monday), raw)
		assert.True(t, rec.OccursOn(time.Sunday), raw)
	}
}

func TestParseRecurrence_Malformed(t *testing.T) {
	_, err := domain.ParseRecurrence("every other tuesday")
	assert.ErrorIs(t, err, domain.ErrInvalidRecurrence)
}
