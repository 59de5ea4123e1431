// Package queries computes read-only statistics over the planned week.
package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	planningDomain "github.com/felixgeelhaar/weekplan/internal/planning/domain"
	tasksDomain "github.com/felixgeelhaar/weekplan/internal/tasks/domain"
)

// WeeklyStatsQuery asks for a summary of one planned week.
type WeeklyStatsQuery struct {
	UserID uuid.UUID
	// WeekStart is Monday midnight in the user's location.
	WeekStart time.Time
}

// WeeklyStats summarizes a planned week.
type WeeklyStats struct {
	WeekStart        time.Time      `json:"week_start"`
	FocusMinutes     int            `json:"focus_minutes"`
	HabitMinutes     int            `json:"habit_minutes"`
	TaskBlocks       int            `json:"task_blocks"`
	HabitBlocks      int            `json:"habit_blocks"`
	TasksTotal       int            `json:"tasks_total"`
	TasksDone        int            `json:"tasks_done"`
	CompletionRate   float64        `json:"completion_rate"`
	MinutesByWindow  map[string]int `json:"minutes_by_window"`
	MinutesByWeekday map[string]int `json:"minutes_by_weekday"`
}

// WeeklyStatsHandler handles the WeeklyStatsQuery.
type WeeklyStatsHandler struct {
	blockRepo planningDomain.BlockRepository
	taskRepo  tasksDomain.Repository
}

// NewWeeklyStatsHandler creates a new WeeklyStatsHandler.
func NewWeeklyStatsHandler(blockRepo planningDomain.BlockRepository, taskRepo tasksDomain.Repository) *WeeklyStatsHandler {
	return &WeeklyStatsHandler{blockRepo: blockRepo, taskRepo: taskRepo}
}

// Handle executes the WeeklyStatsQuery.
func (h *WeeklyStatsHandler) Handle(ctx context.Context, query WeeklyStatsQuery) (*WeeklyStats, error) {
	horizonEnd := query.WeekStart.AddDate(0, 0, planningDomain.HorizonDays)

	blocks, err := h.blockRepo.FindInRange(ctx, query.UserID, query.WeekStart, horizonEnd)
	if err != nil {
		return nil, err
	}
	tasks, err := h.taskRepo.FindByUser(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	stats := &WeeklyStats{
		WeekStart:        query.WeekStart,
		MinutesByWindow:  map[string]int{},
		MinutesByWeekday: map[string]int{},
	}

	loc := query.WeekStart.Location()
	for _, block := range blocks {
		minutes := block.Minutes()
		switch block.Type() {
		case planningDomain.BlockTypeTask:
			stats.TaskBlocks++
			stats.FocusMinutes += minutes
			start := block.Start().In(loc)
			stats.MinutesByWindow[windowOf(start.Hour())] += minutes
			stats.MinutesByWeekday[start.Weekday().String()] += minutes
		case planningDomain.BlockTypeHabit:
			stats.HabitBlocks++
			stats.HabitMinutes += minutes
		}
	}

	for _, task := range tasks {
		stats.TasksTotal++
		if task.IsDone() {
			stats.TasksDone++
		}
	}
	if stats.TasksTotal > 0 {
		stats.CompletionRate = float64(stats.TasksDone) / float64(stats.TasksTotal)
	}

	return stats, nil
}

// windowOf maps a clock hour to the time-of-day band used in reports.
func windowOf(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return string(tasksDomain.WindowMorning)
	case hour >= 12 && hour < 17:
		return string(tasksDomain.WindowAfternoon)
	case hour >= 17 && hour < 22:
		return string(tasksDomain.WindowEvening)
	default:
		return "off_hours"
	}
}
