package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/calendar/domain"
)

func TestNewEvent(t *testing.T) {
	userID := uuid.New()
	start := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	event, err := domain.NewEvent(userID, "Dentist", start, start.Add(time.Hour), true)
	require.NoError(t, err)

	assert.Equal(t, domain.SourceManual, event.Source())
	assert.Empty(t, event.ExternalID())
	assert.True(t, event.IsBusy())

	events := event.DomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, domain.RoutingKeyEventAdded, events[0].RoutingKey())
}

func TestNewEvent_InvalidRange(t *testing.T) {
	start := time.Now()
	_, err := domain.NewEvent(uuid.New(), "Backwards", start, start, true)
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestNewEvent_EmptyTitleDefaults(t *testing.T) {
	start := time.Now()
	event, err := domain.NewEvent(uuid.New(), "  ", start, start.Add(time.Minute), true)
	require.NoError(t, err)
	assert.Equal(t, "(busy)", event.Title())
}

func TestEvent_Overlaps(t *testing.T) {
	start := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	event, err := domain.NewEvent(uuid.New(), "Meeting", start, start.Add(time.Hour), true)
	require.NoError(t, err)

	assert.True(t, event.Overlaps(start.Add(30*time.Minute), start.Add(90*time.Minute)))
	assert.True(t, event.Overlaps(start.Add(-time.Hour), start.Add(time.Minute)))
	// Half-open ranges: touching ends do not overlap.
	assert.False(t, event.Overlaps(start.Add(time.Hour), start.Add(2*time.Hour)))
	assert.False(t, event.Overlaps(start.Add(-time.Hour), start))
}
