package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/identity/domain"
)

func TestNewProfile(t *testing.T) {
	userID := uuid.New()

	profile, err := domain.NewProfile(userID, "Europe/Berlin")
	require.NoError(t, err)

	assert.Equal(t, userID, profile.UserID())
	assert.Equal(t, "Europe/Berlin", profile.Timezone())
	assert.Equal(t, 90, profile.FocusLengthMin())
	assert.Equal(t, 10, profile.BufferMin())

	hours, ok := profile.HoursFor(time.Monday)
	require.True(t, ok)
	assert.Equal(t, "09:00", hours.Start)

	events := profile.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, domain.RoutingKeyProfileCreated, events[0].RoutingKey())
}

func TestNewProfile_InvalidTimezone(t *testing.T) {
	_, err := domain.NewProfile(uuid.New(), "Mars/Olympus")
	assert.ErrorIs(t, err, domain.ErrInvalidTimezone)
}

func TestNewProfile_RequiresUserID(t *testing.T) {
	_, err := domain.NewProfile(uuid.Nil, "UTC")
	assert.Error(t, err)
}

func TestProfile_SetTimezone(t *testing.T) {
	profile, err := domain.NewProfile(uuid.New(), "UTC")
	require.NoError(t, err)
	profile.ClearDomainEvents()

	require.NoError(t, profile.SetTimezone("America/New_York"))
	assert.Equal(t, "America/New_York", profile.Timezone())
	require.Len(t, profile.DomainEvents(), 1)

	// Unchanged value emits no event.
	profile.ClearDomainEvents()
	require.NoError(t, profile.SetTimezone("America/New_York"))
	assert.Empty(t, profile.DomainEvents())

	assert.ErrorIs(t, profile.SetTimezone("Nowhere/Null"), domain.ErrInvalidTimezone)
}

func TestProfile_SetDayHours(t *testing.T) {
	profile, err := domain.NewProfile(uuid.New(), "UTC")
	require.NoError(t, err)

	require.NoError(t, profile.SetDayHours(time.Saturday, domain.DayHours{
		Enabled: true, Start: "10:00", End: "14:00",
	}))

	hours, ok := profile.HoursFor(time.Saturday)
	require.True(t, ok)
	assert.Equal(t, "10:00", hours.Start)
	assert.Equal(t, "14:00", hours.End)

	err = profile.SetDayHours(time.Sunday, domain.DayHours{
		Enabled: true, Start: "14:00", End: "10:00",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDayHours)
}

func TestProfile_DisableAllDaysRejected(t *testing.T) {
	profile, err := domain.NewProfile(uuid.New(), "UTC")
	require.NoError(t, err)

	off := domain.WorkingHours{}
	for day := time.Sunday; day <= time.Saturday; day++ {
		off[domain.DayKey(day)] = domain.DayHours{Enabled: false}
	}

	assert.ErrorIs(t, profile.SetWorkingHours(off), domain.ErrNoWorkingHours)
}

func TestProfile_SetFocusLength(t *testing.T) {
	profile, err := domain.NewProfile(uuid.New(), "UTC")
	require.NoError(t, err)

	require.NoError(t, profile.SetFocusLength(120))
	assert.Equal(t, 120, profile.FocusLengthMin())

	assert.ErrorIs(t, profile.SetFocusLength(10), domain.ErrInvalidFocusLength)
	assert.ErrorIs(t, profile.SetFocusLength(300), domain.ErrInvalidFocusLength)
}

func TestProfile_SetBuffer(t *testing.T) {
	profile, err := domain.NewProfile(uuid.New(), "UTC")
	require.NoError(t, err)

	require.NoError(t, profile.SetBuffer(0))
	assert.Equal(t, 0, profile.BufferMin())

	assert.ErrorIs(t, profile.SetBuffer(-1), domain.ErrInvalidBuffer)
	assert.ErrorIs(t, profile.SetBuffer(61), domain.ErrInvalidBuffer)
}

func TestRehydrateProfile(t *testing.T) {
	id := uuid.New()
	userID := uuid.New()
	created := time.Now().UTC().Add(-time.Hour)
	updated := time.Now().UTC()

	profile := domain.RehydrateProfile(id, userID, "UTC", domain.DefaultWorkingHours(), 60, 5, created, updated)

	assert.Equal(t, id, profile.ID())
	assert.Equal(t, userID, profile.UserID())
	assert.Equal(t, 60, profile.FocusLengthMin())
	assert.Equal(t, 5, profile.BufferMin())
	assert.Equal(t, created, profile.CreatedAt())
	assert.Empty(t, profile.DomainEvents())
}
