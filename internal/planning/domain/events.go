package domain

import (
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/weekplan/internal/shared/domain"
)

const (
	AggregateType = "WeekPlan"

	RoutingKeyWeekPlanned = "planning.week.planned"
)

// WeekPlanned is emitted after a planning run rebuilt the schedule.
type WeekPlanned struct {
	sharedDomain.BaseEvent
	UserID      uuid.UUID `json:"user_id"`
	WeekStart   time.Time `json:"week_start"`
	BlockCount  int       `json:"block_count"`
	TaskBlocks  int       `json:"task_blocks"`
	HabitBlocks int       `json:"habit_blocks"`
}

// NewWeekPlanned creates a WeekPlanned event.
func NewWeekPlanned(userID uuid.UUID, weekStart time.Time, blockCount, taskBlocks, habitBlocks int) WeekPlanned {
	return WeekPlanned{
		BaseEvent:   sharedDomain.NewBaseEvent(userID, AggregateType, RoutingKeyWeekPlanned),
		UserID:      userID,
		WeekStart:   weekStart,
		BlockCount:  blockCount,
		TaskBlocks:  taskBlocks,
		HabitBlocks: habitBlocks,
	}
}
