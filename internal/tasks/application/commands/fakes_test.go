package commands_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/weekplan/internal/tasks/domain"
)

type memoryTaskRepo struct {
	tasks map[uuid.UUID]*domain.Task
}

func newMemoryTaskRepo() *memoryTaskRepo {
	return &memoryTaskRepo{tasks: map[uuid.UUID]*domain.Task{}}
}

func (r *memoryTaskRepo) Save(_ context.Context, task *domain.Task) error {
	r.tasks[task.ID()] = task
	return nil
}

func (r *memoryTaskRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return task, nil
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

func (r *memoryTaskRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.tasks, id)
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
