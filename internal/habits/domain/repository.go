package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for habit persistence.
type Repository interface {
	Save(ctx context.Context, habit *Habit) error
	// FindByID returns ErrHabitNotFound when no habit exists.
	FindByID(ctx context.Context, id uuid.UUID) (*Habit, error)
	// FindByUser returns all habits for a user, including archived ones.
	FindByUser(ctx context.Context, userID uuid.UUID) ([]*Habit, error)
	// FindActive returns non-archived habits for planning.
	FindActive(ctx context.Context, userID uuid.UUID) ([]*Habit, error)
}
