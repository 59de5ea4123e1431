package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/tasks/application/commands"
	"github.com/felixgeelhaar/weekplan/internal/tasks/domain"
)

func TestCreateTaskHandler(t *testing.T) {
	repo := newMemoryTaskRepo()
	ob := &memoryOutbox{}
	handler := commands.NewCreateTaskHandler(repo, ob, noopUnitOfWork{})

	due := time.Now().Add(72 * time.Hour)
	result, err := handler.Handle(context.Background(), commands.CreateTaskCommand{
		UserID:       uuid.New(),
		Title:        "Prepare quarterly review",
		Priority:     "p1",
		Due:          &due,
		EstMin:       180,
		MinChunkMin:  45,
		Energy:       "high",
		Window:       "morning",
		HardDeadline: true,
	})
	require.NoError(t, err)

	task, err := repo.FindByID(context.Background(), result.TaskID)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityP1, task.Priority())
	assert.Equal(t, 180, task.EstMin())
	assert.Equal(t, 45, task.MinChunkMin())
	assert.Equal(t, domain.EnergyHigh, task.Energy())
	assert.Equal(t, domain.WindowMorning, task.Window())
	assert.True(t, task.HardDeadline())

	require.Len(t, ob.saved, 1)
	assert.Equal(t, domain.RoutingKeyTaskCreated, ob.saved[0].RoutingKey)
	assert.Empty(t, task.DomainEvents())
}

func TestCreateTaskHandler_Defaults(t *testing.T) {
	repo := newMemoryTaskRepo()
	handler := commands.NewCreateTaskHandler(repo, &memoryOutbox{}, noopUnitOfWork{})

	result, err := handler.Handle(context.Background(), commands.CreateTaskCommand{
		UserID: uuid.New(),
		Title:  "Inbox zero",
		EstMin: 25,
	})
	require.NoError(t, err)

	task, err := repo.FindByID(context.Background(), result.TaskID)
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityP3, task.Priority())
	// Default 30 minute chunk clamps to the smaller estimate.
	assert.Equal(t, 25, task.MinChunkMin())
	assert.Equal(t, domain.WindowAny, task.Window())
}

func TestCreateTaskHandler_InvalidInput(t *testing.T) {
	handler := commands.NewCreateTaskHandler(newMemoryTaskRepo(), &memoryOutbox{}, noopUnitOfWork{})

	_, err := handler.Handle(context.Background(), commands.CreateTaskCommand{
		UserID:   uuid.New(),
		Title:    "Task",
		Priority: "urgent",
		EstMin:   60,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPriority)

	_, err = handler.Handle(context.Background(), commands.CreateTaskCommand{
		UserID: uuid.New(),
		Title:  "Task",
		EstMin: -10,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEstimate)
}
