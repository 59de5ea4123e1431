package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/habits/domain"
)

func TestNewHabit(t *testing.T) {
	userID := uuid.New()

	habit, err := domain.NewHabit(userID, "Morning run", "07:00", 30, true, "")
	require.NoError(t, err)

	assert.Equal(t, userID, habit.UserID())
	assert.Equal(t, "Morning run", habit.Name())
	assert.Equal(t, "07:00", habit.StartTime())
	assert.Equal(t, 420, habit.StartMinutes())
	assert.Equal(t, 30, habit.DurationMin())
	assert.True(t, habit.Protected())
	assert.False(t, habit.IsArchived())
	assert.Equal(t, domain.DefaultRecurrenceRule, habit.Recurrence().String())

	events := habit.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, domain.RoutingKeyHabitCreated, events[0].RoutingKey())
}

func TestNewHabit_Validation(t *testing.T) {
	userID := uuid.New()

	_, err := domain.NewHabit(userID, "  ", "07:00", 30, false, "")
	assert.ErrorIs(t, err, domain.ErrEmptyName)

	_, err = domain.NewHabit(userID, "Run", "7am", 30, false, "")
	assert.ErrorIs(t, err, domain.ErrInvalidStart)

	_, err = domain.NewHabit(userID, "Run", "07:00", 0, false, "")
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	_, err = domain.NewHabit(userID, "Run", "07:00", 30, false, "not-an-rrule")
	assert.ErrorIs(t, err, domain.ErrInvalidRecurrence)
}

func TestHabit_OccursOn_Daily(t *testing.T) {
	habit, err := domain.NewHabit(uuid.New(), "Journal", "21:00", 15, false, "FREQ=DAILY")
	require.NoError(t, err)

	for day := time.Sunday; day <= time.Saturday; day++ {
		assert.True(t, habit.OccursOn(day))
	}
}

func TestHabit_OccursOn_WeeklyByDay(t *testing.T) {
	habit, err := domain.NewHabit(uuid.New(), "Gym", "18:00", 60, false, "FREQ=WEEKLY;BYDAY=MO,WE,FR")
	require.NoError(t, err)

	assert.True(t, habit.OccursOn(time.Monday))
	assert.True(t, habit.OccursOn(time.Wednesday))
	assert.True(t, habit.OccursOn(time.Friday))
	assert.False(t, habit.OccursOn(time.Tuesday))
	assert.False(t, habit.OccursOn(time.Sunday))
}

func TestHabit_Archive(t *testing.T) {
	habit, err := domain.NewHabit(uuid.New(), "Stretch", "08:00", 10, false, "")
	require.NoError(t, err)
	habit.ClearDomainEvents()

	require.NoError(t, habit.Archive())
	assert.True(t, habit.IsArchived())
	assert.False(t, habit.OccursOn(time.Monday))

	events := habit.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, domain.RoutingKeyHabitArchived, events[0].RoutingKey())

	assert.ErrorIs(t, habit.Archive(), domain.ErrHabitArchived)
}
