// Package services contains the placement engine: the pure planning
// core that turns tasks, habits, and events into schedule blocks.
package services

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	calendarDomain "github.com/felixgeelhaar/weekplan/internal/calendar/domain"
	habitsDomain "github.com/felixgeelhaar/weekplan/internal/habits/domain"
	identityDomain "github.com/felixgeelhaar/weekplan/internal/identity/domain"
	"github.com/felixgeelhaar/weekplan/internal/planning/domain"
	tasksDomain "github.com/felixgeelhaar/weekplan/internal/tasks/domain"
)

// PlanInput carries everything one planning run needs. The engine does
// no I/O, the run controller loads and persists around it.
type PlanInput struct {
	Profile   *identityDomain.Profile
	Tasks     []*tasksDomain.Task
	Habits    []*habitsDomain.Habit
	Events    []*calendarDomain.Event
	WeekStart time.Time // Monday midnight in the profile's location
	Now       time.Time
	// RespectBusyFlag makes free-marked events transparent to planning.
	// Off by default: every event blocks time regardless of its flag.
	RespectBusyFlag bool
}

// UnplacedTask reports task minutes that found no slot in the horizon.
type UnplacedTask struct {
	TaskID       uuid.UUID
	Title        string
	RemainingMin int
}

// PlanResult is the outcome of one planning run.
type PlanResult struct {
	Blocks []*domain.Block
	// PlacedMinutes maps task IDs to the minutes that were scheduled.
	PlacedMinutes map[uuid.UUID]int
	Unplaced      []UnplacedTask
}

// daySchedule tracks one horizon day while the engine fills it. The
// free list shrinks in place as chunks are placed, so later tasks see
// the time earlier tasks consumed.
type daySchedule struct {
	window domain.Interval
	busy   []domain.Interval
	free   []domain.Interval
}

// PlacementEngine places habit instances and task chunks into the free
// time of a seven day horizon. Habits claim their fixed slots first,
// then tasks are allocated greedily in urgency order.
type PlacementEngine struct {
	logger *slog.Logger
}

// NewPlacementEngine creates a new PlacementEngine.
func NewPlacementEngine(logger *slog.Logger) *PlacementEngine {
	return &PlacementEngine{logger: logger}
}

// PlanWeek computes the block set for the horizon starting at
// input.WeekStart. It never touches storage.
func (e *PlacementEngine) PlanWeek(input PlanInput) (*PlanResult, error) {
	loc, err := input.Profile.Location()
	if err != nil {
		return nil, err
	}
	buffer := time.Duration(input.Profile.BufferMin()) * time.Minute
	focus := input.Profile.FocusLengthMin()

	result := &PlanResult{PlacedMinutes: map[uuid.UUID]int{}}

	days, err := e.materializeDays(input, loc, buffer, result)
	if err != nil {
		return nil, err
	}

	if err := e.allocateTasks(input, days, buffer, focus, result); err != nil {
		return nil, err
	}

	return result, nil
}

// materializeDays resolves each day's working window, emits habit
// blocks, and computes the initial free-slot lists with events and
// habits marked busy.
func (e *PlacementEngine) materializeDays(input PlanInput, loc *time.Location, buffer time.Duration, result *PlanResult) ([]*daySchedule, error) {
	days := make([]*daySchedule, domain.HorizonDays)

	for d := 0; d < domain.HorizonDays; d++ {
		date := input.WeekStart.AddDate(0, 0, d)
		midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)

		var habitIntervals []domain.Interval
		for _, habit := range input.Habits {
			if !habit.OccursOn(date.Weekday()) {
				continue
			}
			start := midnight.Add(time.Duration(habit.StartMinutes()) * time.Minute)
			end := start.Add(time.Duration(habit.DurationMin()) * time.Minute)

			block, err := domain.NewBlock(input.Profile.UserID(), domain.BlockTypeHabit,
				habit.ID(), habit.Name(), start, end, habitExplanation(habit))
			if err != nil {
				return nil, fmt.Errorf("failed to materialize habit %q: %w", habit.Name(), err)
			}
			result.Blocks = append(result.Blocks, block)
			habitIntervals = append(habitIntervals, domain.Interval{Start: start, End: end})
		}

		hours, working := input.Profile.HoursFor(date.Weekday())
		if !working {
			continue
		}
		window := domain.DayWindow(midnight, hours)

		ds := &daySchedule{window: window, busy: habitIntervals}
		for _, event := range input.Events {
			if input.RespectBusyFlag && !event.IsBusy() {
				continue
			}
			if event.Overlaps(window.Start, window.End) {
				ds.busy = append(ds.busy, domain.Interval{
					Start: event.Start().In(loc),
					End:   event.End().In(loc),
				})
			}
		}
		ds.free = domain.FreeSlots(window, ds.busy, buffer)
		days[d] = ds
	}

	return days, nil
}

// allocateTasks walks the backlog in urgency order and fills free slots
// day by day, chunk by chunk.
func (e *PlacementEngine) allocateTasks(input PlanInput, days []*daySchedule, buffer time.Duration, focus int, result *PlanResult) error {
	backlog := e.orderedBacklog(input.Tasks, input.Now)

	for _, task := range backlog {
		remaining := task.EstMin()

		for d := 0; d < domain.HorizonDays && remaining > 0; d++ {
			ds := days[d]
			if ds == nil {
				continue
			}

			for si := 0; si < len(ds.free) && remaining > 0; si++ {
				slot := ds.free[si]

				// A slot can host several chunks of the same task:
				// after placing one, re-evaluate what is left of it.
				for remaining > 0 {
					chunk := remaining
					if slotMin := slot.Minutes(); slotMin < chunk {
						chunk = slotMin
					}
					if focus < chunk {
						chunk = focus
					}
					if chunk < task.MinChunkMin() {
						// Too small to be useful. Leave the slot for
						// tasks with a lower chunk floor.
						break
					}

					end := slot.Start.Add(time.Duration(chunk) * time.Minute)
					block, err := domain.NewBlock(input.Profile.UserID(), domain.BlockTypeTask,
						task.ID(), task.Title(), slot.Start, end, taskExplanation(task, slot.Start))
					if err != nil {
						return fmt.Errorf("failed to place task %q: %w", task.Title(), err)
					}
					result.Blocks = append(result.Blocks, block)
					result.PlacedMinutes[task.ID()] += chunk
					remaining -= chunk
					slot.Start = end.Add(buffer)
				}
				ds.free[si] = slot
			}
		}

		if remaining > 0 {
			result.Unplaced = append(result.Unplaced, UnplacedTask{
				TaskID:       task.ID(),
				Title:        task.Title(),
				RemainingMin: remaining,
			})
			e.logger.Warn("task not fully placed",
				slog.String("task_id", task.ID().String()),
				slog.String("title", task.Title()),
				slog.Int("remaining_min", remaining))
		}
	}

	return nil
}

// orderedBacklog filters to backlog tasks and sorts them by urgency,
// highest first. The sort is stable so equally urgent tasks keep their
// listing order.
func (e *PlacementEngine) orderedBacklog(tasks []*tasksDomain.Task, now time.Time) []*tasksDomain.Task {
	backlog := make([]*tasksDomain.Task, 0, len(tasks))
	for _, task := range tasks {
		if task.Status() != tasksDomain.StatusBacklog {
			continue
		}
		if task.EstMin() <= 0 || task.MinChunkMin() <= 0 {
			e.logger.Warn("skipping task with invalid estimate",
				slog.String("task_id", task.ID().String()),
				slog.String("title", task.Title()))
			continue
		}
		backlog = append(backlog, task)
	}

	scores := make(map[uuid.UUID]int, len(backlog))
	for _, task := range backlog {
		scores[task.ID()] = domain.UrgencyScore(task, now)
	}
	sort.SliceStable(backlog, func(i, j int) bool {
		return scores[backlog[i].ID()] > scores[backlog[j].ID()]
	})
	return backlog
}

func habitExplanation(habit *habitsDomain.Habit) string {
	if habit.Protected() {
		return "Protected recurring habit - scheduled at fixed time"
	}
	return "Recurring habit block"
}

// taskExplanation builds the human-readable placement justification.
// The window note only appears when the slot actually matched an
// explicit preference, not for "any" tasks.
func taskExplanation(task *tasksDomain.Task, start time.Time) string {
	parts := []string{"Priority: " + strings.ToUpper(task.Priority().String())}
	if task.HardDeadline() {
		parts = append(parts, "Hard deadline task")
	}
	if due := task.Due(); due != nil {
		parts = append(parts, "Due: "+due.Format("Jan 2"))
	}
	if domain.WindowBonus(task.Window(), start) > domain.WindowAnyBonus {
		parts = append(parts, fmt.Sprintf("Matched preferred %s window", task.Window()))
	}
	return strings.Join(parts, " • ")
}
