package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/weekplan/internal/shared/domain"
)

const (
	AggregateType = "Task"

	RoutingKeyTaskCreated   = "tasks.task.created"
	RoutingKeyTaskScheduled = "tasks.task.scheduled"
	RoutingKeyTaskCompleted = "tasks.task.completed"
	RoutingKeyTaskSnoozed   = "tasks.task.snoozed"
)

// TaskCreated is emitted when a new task enters the backlog.
type TaskCreated struct {
	sharedDomain.BaseEvent
	UserID   uuid.UUID `json:"user_id"`
	Title    string    `json:"title"`
	Priority string    `json:"priority"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(taskID, userID uuid.UUID, title, priority string) TaskCreated {
	return TaskCreated{
		BaseEvent: sharedDomain.NewBaseEvent(taskID, AggregateType, RoutingKeyTaskCreated),
		UserID:    userID,
		Title:     title,
		Priority:  priority,
	}
}

// TaskScheduled is emitted when the planner places blocks for a task.
type TaskScheduled struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewTaskScheduled creates a TaskScheduled event.
func NewTaskScheduled(taskID, userID uuid.UUID) TaskScheduled {
	return TaskScheduled{
		BaseEvent: sharedDomain.NewBaseEvent(taskID, AggregateType, RoutingKeyTaskScheduled),
		UserID:    userID,
	}
}

// TaskCompleted is emitted when a task is marked done.
type TaskCompleted struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewTaskCompleted creates a TaskCompleted event.
func NewTaskCompleted(taskID, userID uuid.UUID) TaskCompleted {
	return TaskCompleted{
		BaseEvent: sharedDomain.NewBaseEvent(taskID, AggregateType, RoutingKeyTaskCompleted),
		UserID:    userID,
	}
}

// TaskSnoozed is emitted when a task is hidden from planning.
type TaskSnoozed struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
	Until  time.Time `json:"until"`
}

// NewTaskSnoozed creates a TaskSnoozed event.
func NewTaskSnoozed(taskID, userID uuid.UUID, until time.Time) TaskSnoozed {
	return TaskSnoozed{
		BaseEvent: sharedDomain.NewBaseEvent(taskID, AggregateType, RoutingKeyTaskSnoozed),
		UserID:    userID,
		Until:     until,
	}
}
