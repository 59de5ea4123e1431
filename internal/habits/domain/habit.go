// Package domain models habits: recurring fixed-time routines that
// claim their slot before any task is placed.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/felixgeelhaar/weekplan/internal/identity/domain"
	sharedDomain "github.com/felixgeelhaar/weekplan/internal/shared/domain"
)

var (
	ErrEmptyName       = errors.New("habit name cannot be empty")
	ErrInvalidStart    = errors.New("habit start must be HH:MM")
	ErrInvalidDuration = errors.New("habit duration must be positive")
	ErrHabitNotFound   = errors.New("habit not found")
	ErrHabitArchived   = errors.New("habit is archived")
)

// Habit is a recurring routine anchored to a wall-clock start time.
type Habit struct {
	sharedDomain.BaseAggregateRoot
	userID      uuid.UUID
	name        string
	startTime   string
	durationMin int
	protected   bool
	recurrence  Recurrence
	archived    bool
}

// NewHabit creates a habit. An empty rrule defaults to daily.
func NewHabit(userID uuid.UUID, name, startTime string, durationMin int, protected bool, rrule string) (*Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, err := identityDomain.ParseClock(startTime); err != nil {
		return nil, ErrInvalidStart
	}
	if durationMin <= 0 {
		return nil, ErrInvalidDuration
	}

	recurrence, err := ParseRecurrence(rrule)
	if err != nil {
		return nil, err
	}

	h := &Habit{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		name:              name,
		startTime:         startTime,
		durationMin:       durationMin,
		protected:         protected,
		recurrence:        recurrence,
	}

	h.AddDomainEvent(NewHabitCreated(h.ID(), userID, name))

	return h, nil
}

// RehydrateHabit recreates a habit from persisted state.
func RehydrateHabit(
	id uuid.UUID,
	userID uuid.UUID,
	name, startTime string,
	durationMin int,
	protected bool,
	rrule string,
	archived bool,
	createdAt, updatedAt time.Time,
) (*Habit, error) {
	recurrence, err := ParseRecurrence(rrule)
	if err != nil {
		return nil, err
	}
	return &Habit{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		userID:      userID,
		name:        name,
		startTime:   startTime,
		durationMin: durationMin,
		protected:   protected,
		recurrence:  recurrence,
		archived:    archived,
	}, nil
}

// Getters
func (h *Habit) UserID() uuid.UUID      { return h.userID }
func (h *Habit) Name() string           { return h.name }
func (h *Habit) StartTime() string      { return h.startTime }
func (h *Habit) DurationMin() int       { return h.durationMin }
func (h *Habit) Protected() bool        { return h.protected }
func (h *Habit) Recurrence() Recurrence { return h.recurrence }
func (h *Habit) IsArchived() bool       { return h.archived }

// StartMinutes returns the start time as minutes from midnight.
func (h *Habit) StartMinutes() int {
	minutes, _ := identityDomain.ParseClock(h.startTime)
	return minutes
}

// OccursOn reports whether the habit recurs on the given weekday.
func (h *Habit) OccursOn(day time.Weekday) bool {
	if h.archived {
		return false
	}
	return h.recurrence.OccursOn(day)
}

// Archive removes the habit from future planning runs.
func (h *Habit) Archive() error {
	if h.archived {
		return ErrHabitArchived
	}
	h.archived = true
	h.Touch()
	h.AddDomainEvent(NewHabitArchived(h.ID(), h.userID))
	return nil
}
