package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/calendar/application/commands"
	"github.com/felixgeelhaar/weekplan/internal/calendar/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
)

type memoryEventRepo struct {
	events map[uuid.UUID]*domain.Event
}

func newMemoryEventRepo() *memoryEventRepo {
	return &memoryEventRepo{events: map[uuid.UUID]*domain.Event{}}
}

func (r *memoryEventRepo) Save(_ context.Context, event *domain.Event) error {
	r.events[event.ID()] = event
	return nil
}

func (r *memoryEventRepo) SaveImported(_ context.Context, event *domain.Event) (bool, error) {
	for id, existing := range r.events {
		if existing.UserID() == event.UserID() &&
			existing.Source() == event.Source() &&
			existing.ExternalID() == event.ExternalID() {
			r.events[id] = event
			return false, nil
		}
	}
	r.events[event.ID()] = event
	return true, nil
}

func (r *memoryEventRepo) FindInRange(_ context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Event, error) {
	var result []*domain.Event
	for _, event := range r.events {
		if event.UserID() == userID && event.Overlaps(from, to) {
			result = append(result, event)
		}
	}
	return result, nil
}

func (r *memoryEventRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.events, id)
	return nil
}

type memoryOutbox struct {
	saved []*outbox.Message
}

func (o *memoryOutbox) SaveBatch(_ context.Context, messages []*outbox.Message) error {
	o.saved = append(o.saved, messages...)
	return nil
}

func (o *memoryOutbox) FetchPending(_ context.Context, _ int) ([]*outbox.Message, error) {
	return nil, nil
}

func (o *memoryOutbox) MarkPublished(_ context.Context, _ uuid.UUID) error { return nil }

func (o *memoryOutbox) MarkFailed(_ context.Context, _ uuid.UUID, _ int) error { return nil }

type noopUnitOfWork struct{}

func (noopUnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (noopUnitOfWork) Commit(context.Context) error                       { return nil }
func (noopUnitOfWork) Rollback(context.Context) error                     { return nil }

type stubSource struct {
	events []*domain.Event
	err    error
}

func (s *stubSource) FetchEvents(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]*domain.Event, error) {
	return s.events, s.err
}

func TestAddEventHandler(t *testing.T) {
	repo := newMemoryEventRepo()
	ob := &memoryOutbox{}
	handler := commands.NewAddEventHandler(repo, ob, noopUnitOfWork{})

	start := time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC)
	result, err := handler.Handle(context.Background(), commands.AddEventCommand{
		UserID: uuid.New(),
		Title:  "Dentist",
		Start:  start,
		End:    start.Add(time.Hour),
		IsBusy: true,
	})
	require.NoError(t, err)

	event := repo.events[result.EventID]
	require.NotNil(t, event)
	assert.Equal(t, "Dentist", event.Title())
	assert.Equal(t, domain.SourceManual, event.Source())

	require.Len(t, ob.saved, 1)
	assert.Equal(t, domain.RoutingKeyEventAdded, ob.saved[0].RoutingKey)
}

func TestAddEventHandler_InvalidRange(t *testing.T) {
	handler := commands.NewAddEventHandler(newMemoryEventRepo(), &memoryOutbox{}, noopUnitOfWork{})

	start := time.Now()
	_, err := handler.Handle(context.Background(), commands.AddEventCommand{
		UserID: uuid.New(),
		Title:  "Backwards",
		Start:  start,
		End:    start.Add(-time.Hour),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)
}

func TestImportEventsHandler(t *testing.T) {
	userID := uuid.New()
	repo := newMemoryEventRepo()
	ob := &memoryOutbox{}

	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	imported, err := domain.NewImportedEvent(userID, "ext-1", domain.SourceCalDAV, "Standup", start, start.Add(15*time.Minute), true)
	require.NoError(t, err)

	source := &stubSource{events: []*domain.Event{imported}}
	handler := commands.NewImportEventsHandler(source, repo, ob, noopUnitOfWork{})

	result, err := handler.Handle(context.Background(), commands.ImportEventsCommand{
		UserID: userID,
		From:   start.Add(-time.Hour),
		To:     start.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 0, result.Updated)

	// Re-importing the same external event updates in place.
	result, err = handler.Handle(context.Background(), commands.ImportEventsCommand{
		UserID: userID,
		From:   start.Add(-time.Hour),
		To:     start.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Imported)
	assert.Equal(t, 1, result.Updated)
	assert.Len(t, repo.events, 1)

	require.Len(t, ob.saved, 2)
	assert.Equal(t, domain.RoutingKeyImportRan, ob.saved[0].RoutingKey)
}
