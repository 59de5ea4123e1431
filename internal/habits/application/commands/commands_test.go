package commands_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/habits/application/commands"
	"github.com/felixgeelhaar/weekplan/internal/habits/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
)

type memoryHabitRepo struct {
	habits map[uuid.UUID]*domain.Habit
}

func newMemoryHabitRepo() *memoryHabitRepo {
	return &memoryHabitRepo{habits: map[uuid.UUID]*domain.Habit{}}
}

func (r *memoryHabitRepo) Save(_ context.Context, habit *domain.Habit) error {
	r.habits[habit.ID()] = habit
	return nil
}

func (r *memoryHabitRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Habit, error) {
	habit, ok := r.habits[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (r *memoryHabitRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	var result []*domain.Habit
	for _, habit := range r.habits {
		if habit.UserID() == userID {
			result = append(result, habit)
		}
	}
	return result, nil
}

func (r *memoryHabitRepo) FindActive(_ context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	var result []*domain.Habit
	for _, habit := range r.habits {
		if habit.UserID() == userID && !habit.IsArchived() {
			result = append(result, habit)
		}
	}
	return result, nil
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

func TestCreateHabitHandler(t *testing.T) {
	repo := newMemoryHabitRepo()
	ob := &memoryOutbox{}
	handler := commands.NewCreateHabitHandler(repo, ob, noopUnitOfWork{})

	result, err := handler.Handle(context.Background(), commands.CreateHabitCommand{
		UserID:      uuid.New(),
		Name:        "Gym",
		StartTime:   "18:00",
		DurationMin: 60,
		Protected:   true,
		Recurrence:  "FREQ=WEEKLY;BYDAY=MO,WE,FR",
	})
	require.NoError(t, err)
	assert.False(t, result.DowngradedRecurrence)

	habit, err := repo.FindByID(context.Background(), result.HabitID)
	require.NoError(t, err)
	assert.Equal(t, "Gym", habit.Name())
	assert.True(t, habit.Protected())

	require.Len(t, ob.saved, 1)
	assert.Equal(t, domain.RoutingKeyHabitCreated, ob.saved[0].RoutingKey)
}

func TestCreateHabitHandler_UnsupportedRecurrenceDowngraded(t *testing.T) {
	handler := commands.NewCreateHabitHandler(newMemoryHabitRepo(), &memoryOutbox{}, noopUnitOfWork{})

	result, err := handler.Handle(context.Background(), commands.CreateHabitCommand{
		UserID:      uuid.New(),
		Name:        "Monthly review",
		StartTime:   "09:00",
		DurationMin: 45,
		Recurrence:  "FREQ=MONTHLY",
	})
	require.NoError(t, err)
	assert.True(t, result.DowngradedRecurrence)
}

func TestCreateHabitHandler_InvalidInput(t *testing.T) {
	handler := commands.NewCreateHabitHandler(newMemoryHabitRepo(), &memoryOutbox{}, noopUnitOfWork{})

	_, err := handler.Handle(context.Background(), commands.CreateHabitCommand{
		UserID:      uuid.New(),
		Name:        "Run",
		StartTime:   "early",
		DurationMin: 30,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidStart)
}

func TestArchiveHabitHandler(t *testing.T) {
	repo := newMemoryHabitRepo()
	ob := &memoryOutbox{}

	habit, err := domain.NewHabit(uuid.New(), "Stretch", "08:00", 10, false, "")
	require.NoError(t, err)
	habit.ClearDomainEvents()
	require.NoError(t, repo.Save(context.Background(), habit))

	handler := commands.NewArchiveHabitHandler(repo, ob, noopUnitOfWork{})
	require.NoError(t, handler.Handle(context.Background(), commands.ArchiveHabitCommand{HabitID: habit.ID()}))

	assert.True(t, habit.IsArchived())
	require.Len(t, ob.saved, 1)
	assert.Equal(t, domain.RoutingKeyHabitArchived, ob.saved[0].RoutingKey)
}

func TestArchiveHabitHandler_NotFound(t *testing.T) {
	handler := commands.NewArchiveHabitHandler(newMemoryHabitRepo(), &memoryOutbox{}, noopUnitOfWork{})

	err := handler.Handle(context.Background(), commands.ArchiveHabitCommand{HabitID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrHabitNotFound)
}
