// Package queries contains the read-side handlers for habits.
package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/habits/domain"
)

// ListHabitsQuery lists a user's habits.
type ListHabitsQuery struct {
	UserID          uuid.UUID
	IncludeArchived bool
}

// HabitView is the read model returned to callers.
type HabitView struct {
	ID          uuid.UUID
	Name        string
	StartTime   string
	DurationMin int
	Protected   bool
	Recurrence  string
	Archived    bool
}

// ListHabitsHandler handles the ListHabitsQuery.
type ListHabitsHandler struct {
	habitRepo domain.Repository
}

// NewListHabitsHandler creates a new ListHabitsHandler.
func NewListHabitsHandler(habitRepo domain.Repository) *ListHabitsHandler {
	return &ListHabitsHandler{habitRepo: habitRepo}
}

// Handle executes the ListHabitsQuery.
func (h *ListHabitsHandler) Handle(ctx context.Context, query ListHabitsQuery) ([]HabitView, error) {
	var (
		habits []*domain.Habit
		err    error
	)
	if query.IncludeArchived {
		habits, err = h.habitRepo.FindByUser(ctx, query.UserID)
	} else {
		habits, err = h.habitRepo.FindActive(ctx, query.UserID)
	}
	if err != nil {
		return nil, err
	}

	views := make([]HabitView, 0, len(habits))
	for _, habit := range habits {
		views = append(views, HabitView{
			ID:          habit.ID(),
			Name:        habit.Name(),
			StartTime:   habit.StartTime(),
			DurationMin: habit.DurationMin(),
			Protected:   habit.Protected(),
			Recurrence:  habit.Recurrence().String(),
			Archived:    habit.IsArchived(),
		})
	}
	return views, nil
}
