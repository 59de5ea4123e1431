// Package domain models tasks: prioritized units of work the planner
// splits into schedule blocks.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/weekplan/internal/shared/domain"
)

var (
	ErrEmptyTitle          = errors.New("task title cannot be empty")
	ErrInvalidEstimate     = errors.New("estimate must be positive")
	ErrInvalidMinChunk     = errors.New("minimum chunk must be positive")
	ErrTaskAlreadyComplete = errors.New("task is already completed")
	ErrTaskNotFound        = errors.New("task not found")
	ErrSnoozeInPast        = errors.New("snooze time must be in the future")
)

// Status represents the task lifecycle state.
type Status string

const (
	StatusBacklog    Status = "backlog"
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusSnoozed    Status = "snoozed"
)

func (s Status) String() string { return string(s) }

// Plannable reports whether the planner may place blocks for this status.
func (s Status) Plannable() bool {
	switch s {
	case StatusBacklog, StatusScheduled, StatusInProgress:
		return true
	default:
		return false
	}
}

// Task represents a unit of work to be planned into the week.
type Task struct {
	sharedDomain.BaseAggregateRoot
	userID       uuid.UUID
	title        string
	priority     Priority
	due          *time.Time
	estMin       int
	minChunkMin  int
	energy       Energy
	window       Window
	hardDeadline bool
	status       Status
	snoozedUntil *time.Time
}

// NewTask creates a new backlog task.
// A minimum chunk larger than the estimate is clamped to the estimate,
// so small tasks stay placeable in a single slot.
func NewTask(userID uuid.UUID, title string, priority Priority, estMin, minChunkMin int) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if estMin <= 0 {
		return nil, ErrInvalidEstimate
	}
	if minChunkMin <= 0 {
		return nil, ErrInvalidMinChunk
	}
	if minChunkMin > estMin {
		minChunkMin = estMin
	}

	t := &Task{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		title:             title,
		priority:          priority,
		estMin:            estMin,
		minChunkMin:       minChunkMin,
		energy:            EnergyMedium,
		window:            WindowAny,
		status:            StatusBacklog,
	}

	t.AddDomainEvent(NewTaskCreated(t.ID(), userID, title, priority.String()))

	return t, nil
}

// RehydrateTask recreates a task from persisted state.
func RehydrateTask(
	id uuid.UUID,
	userID uuid.UUID,
	title string,
	priority Priority,
	due *time.Time,
	estMin, minChunkMin int,
	energy Energy,
	window Window,
	hardDeadline bool,
	status Status,
	snoozedUntil *time.Time,
	createdAt, updatedAt time.Time,
) *Task {
	return &Task{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		userID:       userID,
		title:        title,
		priority:     priority,
		due:          due,
		estMin:       estMin,
		minChunkMin:  minChunkMin,
		energy:       energy,
		window:       window,
		hardDeadline: hardDeadline,
		status:       status,
		snoozedUntil: snoozedUntil,
	}
}

// Getters
func (t *Task) UserID() uuid.UUID        { return t.userID }
func (t *Task) Title() string            { return t.title }
func (t *Task) Priority() Priority       { return t.priority }
func (t *Task) Due() *time.Time          { return t.due }
func (t *Task) EstMin() int              { return t.estMin }
func (t *Task) MinChunkMin() int         { return t.minChunkMin }
func (t *Task) Energy() Energy           { return t.energy }
func (t *Task) Window() Window           { return t.window }
func (t *Task) HardDeadline() bool       { return t.hardDeadline }
func (t *Task) Status() Status           { return t.status }
func (t *Task) SnoozedUntil() *time.Time { return t.snoozedUntil }
func (t *Task) IsDone() bool             { return t.status == StatusDone }

// SetDue updates the due date. Clearing the due date also clears the
// hard deadline flag, a deadline without a date means nothing.
func (t *Task) SetDue(due *time.Time, hardDeadline bool) {
	t.due = due
	if due == nil {
		hardDeadline = false
	}
	t.hardDeadline = hardDeadline
	t.Touch()
}

// SetEnergy updates the energy level.
func (t *Task) SetEnergy(energy Energy) {
	t.energy = energy
	t.Touch()
}

// SetWindow updates the preferred time-of-day window.
func (t *Task) SetWindow(window Window) {
	t.window = window
	t.Touch()
}

// MarkScheduled flags that the planner placed at least one block.
// Tasks already in progress keep their status.
func (t *Task) MarkScheduled() {
	if t.status != StatusBacklog {
		return
	}
	t.status = StatusScheduled
	t.Touch()
	t.AddDomainEvent(NewTaskScheduled(t.ID(), t.userID))
}

// ReturnToBacklog reverts a scheduled task whose blocks were wiped.
func (t *Task) ReturnToBacklog() {
	if t.status != StatusScheduled {
		return
	}
	t.status = StatusBacklog
	t.Touch()
}

// Start marks the task as in progress.
func (t *Task) Start() error {
	if t.IsDone() {
		return ErrTaskAlreadyComplete
	}
	if t.status == StatusInProgress {
		return nil // Idempotent
	}
	t.status = StatusInProgress
	t.Touch()
	return nil
}

// Complete marks the task as done.
func (t *Task) Complete() error {
	if t.IsDone() {
		return ErrTaskAlreadyComplete
	}
	t.status = StatusDone
	t.snoozedUntil = nil
	t.Touch()
	t.AddDomainEvent(NewTaskCompleted(t.ID(), t.userID))
	return nil
}

// Snooze hides the task from planning until the given time.
func (t *Task) Snooze(until time.Time) error {
	if t.IsDone() {
		return ErrTaskAlreadyComplete
	}
	if !until.After(time.Now()) {
		return ErrSnoozeInPast
	}
	t.status = StatusSnoozed
	t.snoozedUntil = &until
	t.Touch()
	t.AddDomainEvent(NewTaskSnoozed(t.ID(), t.userID, until))
	return nil
}

// WakeIfDue returns a snoozed task to the backlog once its snooze
// time has passed. Reports whether the task changed.
func (t *Task) WakeIfDue(now time.Time) bool {
	if t.status != StatusSnoozed || t.snoozedUntil == nil {
		return false
	}
	if now.Before(*t.snoozedUntil) {
		return false
	}
	t.status = StatusBacklog
	t.snoozedUntil = nil
	t.Touch()
	return true
}
