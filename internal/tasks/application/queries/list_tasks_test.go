package queries_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/tasks/application/queries"
	"github.com/felixgeelhaar/weekplan/internal/tasks/domain"
)

type memoryTaskRepo struct {
	tasks []*domain.Task
}

func (r *memoryTaskRepo) Save(_ context.Context, task *domain.Task) error {
	r.tasks = append(r.tasks, task)
	return nil
}

func (r *memoryTaskRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	for _, task := range r.tasks {
		if task.ID() == id {
			return task, nil
		}
	}
	return nil, domain.ErrTaskNotFound
}

func (r *memoryTaskRepo) FindByUser(_ context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	var result []*domain.Task
	for _, task := range r.tasks {
		if task.UserID() == userID {
			result = append(result, task)
		}
	}
	return result, nil
}

func (r *memoryTaskRepo) FindPlannable(_ context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	var result []*domain.Task
	for _, task := range r.tasks {
		if task.UserID() == userID && task.Status().Plannable() {
			result = append(result, task)
		}
	}
	return result, nil
}

func (r *memoryTaskRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

func TestListTasksHandler(t *testing.T) {
	repo := &memoryTaskRepo{}
	userID := uuid.New()

	first, err := domain.NewTask(userID, "First", domain.PriorityP1, 60, 30)
	require.NoError(t, err)
	second, err := domain.NewTask(userID, "Second", domain.PriorityP2, 30, 30)
	require.NoError(t, err)
	require.NoError(t, second.Complete())
	other, err := domain.NewTask(uuid.New(), "Other user", domain.PriorityP3, 30, 30)
	require.NoError(t, err)

	for _, task := range []*domain.Task{first, second, other} {
		require.NoError(t, repo.Save(context.Background(), task))
	}

	handler := queries.NewListTasksHandler(repo)

	views, err := handler.Handle(context.Background(), queries.ListTasksQuery{UserID: userID})
	require.NoError(t, err)
	assert.Len(t, views, 2)

	done, err := handler.Handle(context.Background(), queries.ListTasksQuery{UserID: userID, Status: "done"})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "Second", done[0].Title)
}
