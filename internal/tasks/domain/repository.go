package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for task persistence.
type Repository interface {
	Save(ctx context.Context, task *Task) error
	// FindByID returns ErrTaskNotFound when no task exists.
	FindByID(ctx context.Context, id uuid.UUID) (*Task, error)
	// FindByUser returns all tasks for a user, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Task, error)
	// FindPlannable returns tasks eligible for planning: backlog,
	// scheduled, and in-progress tasks, plus snoozed tasks whose
	// snooze time has passed.
	FindPlannable(ctx context.Context, userID uuid.UUID) ([]*Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
