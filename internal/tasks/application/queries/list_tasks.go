// Package queries contains the read-side handlers for tasks.
package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/tasks/domain"
)

// ListTasksQuery lists a user's tasks, optionally filtered by status.
type ListTasksQuery struct {
	UserID uuid.UUID
	Status string
}

// TaskView is the read model returned to callers.
type TaskView struct {
	ID           uuid.UUID
	Title        string
	Priority     string
	Due          *time.Time
	EstMin       int
	MinChunkMin  int
	Energy       string
	Window       string
	HardDeadline bool
	Status       string
	SnoozedUntil *time.Time
}

// ListTasksHandler handles the ListTasksQuery.
type ListTasksHandler struct {
	taskRepo domain.Repository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo domain.Repository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

// Handle executes the ListTasksQuery.
func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskView, error) {
	tasks, err := h.taskRepo.FindByUser(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		if query.Status != "" && t.Status().String() != query.Status {
			continue
		}
		views = append(views, TaskView{
			ID:           t.ID(),
			Title:        t.Title(),
			Priority:     t.Priority().String(),
			Due:          t.Due(),
			EstMin:       t.EstMin(),
			MinChunkMin:  t.MinChunkMin(),
			Energy:       t.Energy().String(),
			Window:       t.Window().String(),
			HardDeadline: t.HardDeadline(),
			Status:       t.Status().String(),
			SnoozedUntil: t.SnoozedUntil(),
		})
	}
	return views, nil
}
