package domain

import (
	"math"
	"time"

	tasksDomain "github.com/felixgeelhaar/weekplan/internal/tasks/domain"
)

// Window bonus levels. A slot matching the task's explicit preference
// scores WindowMatchBonus; a task without a preference scores
// WindowAnyBonus regardless of slot.
const (
	WindowMatchBonus = 20
	WindowAnyBonus   = 10
)

// Time-of-day bands, by starting clock hour.
const (
	morningStart   = 6
	afternoonStart = 12
	eveningStart   = 17
	eveningEnd     = 22
)

// UrgencyScore ranks a task for placement ordering. Higher is more
// urgent. The score has no absolute meaning, only the ordering matters.
func UrgencyScore(task *tasksDomain.Task, now time.Time) int {
	score := task.Priority().BaseScore()
	if task.HardDeadline() {
		score += 50
	}
	if due := task.Due(); due != nil {
		days := int(math.Ceil(due.Sub(now).Hours() / 24))
		if days < 0 {
			days = 0 // Overdue tasks get the full proximity bonus
		}
		if bonus := 30 - 5*days; bonus > 0 {
			score += bonus
		}
	}
	return score
}

// WindowBonus scores how well a candidate start time matches a task's
// preferred time-of-day window. It annotates explanations only; slots
// are still tried in chronological order.
func WindowBonus(window tasksDomain.Window, start time.Time) int {
	hour := start.Hour()
	switch window {
	case tasksDomain.WindowAny:
		return WindowAnyBonus
	case tasksDomain.WindowMorning:
		if hour >= morningStart && hour < afternoonStart {
			return WindowMatchBonus
		}
	case tasksDomain.WindowAfternoon:
		if hour >= afternoonStart && hour < eveningStart {
			return WindowMatchBonus
		}
	case tasksDomain.WindowEvening:
		if hour >= eveningStart && hour < eveningEnd {
			return WindowMatchBonus
		}
	}
	return 0
}
