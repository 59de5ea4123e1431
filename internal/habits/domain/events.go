package domain

import (
	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/weekplan/internal/shared/domain"
)

const (
	AggregateType = "Habit"

	RoutingKeyHabitCreated  = "habits.habit.created"
	RoutingKeyHabitArchived = "habits.habit.archived"
)

// HabitCreated is emitted when a new habit is created.
type HabitCreated struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
}

// NewHabitCreated creates a HabitCreated event.
func NewHabitCreated(habitID, userID uuid.UUID, name string) HabitCreated {
	return HabitCreated{
		BaseEvent: sharedDomain.NewBaseEvent(habitID, AggregateType, RoutingKeyHabitCreated),
		UserID:    userID,
		Name:      name,
	}
}

// HabitArchived is emitted when a habit is retired.
type HabitArchived struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
}

// NewHabitArchived creates a HabitArchived event.
func NewHabitArchived(habitID, userID uuid.UUID) HabitArchived {
	return HabitArchived{
		BaseEvent: sharedDomain.NewBaseEvent(habitID, AggregateType, RoutingKeyHabitArchived),
		UserID:    userID,
	}
}
