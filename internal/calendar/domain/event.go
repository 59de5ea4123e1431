// Package domain models calendar events: fixed appointments, imported
// or entered by hand, that block planning time.
package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/weekplan/internal/shared/domain"
)

var (
	ErrInvalidRange  = errors.New("event end must be after start")
	ErrEventNotFound = errors.New("event not found")
)

// Event sources.
const (
	SourceManual = "manual"
	SourceCalDAV = "caldav"
)

// Event is a fixed appointment on the calendar.
type Event struct {
	sharedDomain.BaseAggregateRoot
	userID     uuid.UUID
	externalID string
	source     string
	title      string
	start      time.Time
	end        time.Time
	isBusy     bool
}

// NewEvent creates a manual event.
func NewEvent(userID uuid.UUID, title string, start, end time.Time, isBusy bool) (*Event, error) {
	return newEvent(userID, "", SourceManual, title, start, end, isBusy)
}

// NewImportedEvent creates an event from an external calendar.
func NewImportedEvent(userID uuid.UUID, externalID, source, title string, start, end time.Time, isBusy bool) (*Event, error) {
	return newEvent(userID, externalID, source, title, start, end, isBusy)
}

func newEvent(userID uuid.UUID, externalID, source, title string, start, end time.Time, isBusy bool) (*Event, error) {
	if !end.After(start) {
		return nil, ErrInvalidRange
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "(busy)"
	}

	e := &Event{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		externalID:        externalID,
		source:            source,
		title:             title,
		start:             start.UTC(),
		end:               end.UTC(),
		isBusy:            isBusy,
	}

	e.AddDomainEvent(NewEventAdded(e.ID(), userID, source, title))

	return e, nil
}

// RehydrateEvent recreates an event from persisted state.
func RehydrateEvent(
	id uuid.UUID,
	userID uuid.UUID,
	externalID, source, title string,
	start, end time.Time,
	isBusy bool,
	createdAt, updatedAt time.Time,
) *Event {
	return &Event{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		userID:     userID,
		externalID: externalID,
		source:     source,
		title:      title,
		start:      start,
		end:        end,
		isBusy:     isBusy,
	}
}

// Getters
func (e *Event) UserID() uuid.UUID  { return e.userID }
func (e *Event) ExternalID() string { return e.externalID }
func (e *Event) Source() string     { return e.source }
func (e *Event) Title() string      { return e.title }
func (e *Event) Start() time.Time   { return e.start }
func (e *Event) End() time.Time     { return e.end }
func (e *Event) IsBusy() bool       { return e.isBusy }

// Update refreshes the mutable fields from a newer import.
func (e *Event) Update(title string, start, end time.Time, isBusy bool) error {
	if !end.After(start) {
		return ErrInvalidRange
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "(busy)"
	}
	e.title = title
	e.start = start.UTC()
	e.end = end.UTC()
	e.isBusy = isBusy
	e.Touch()
	return nil
}

// Overlaps reports whether the event intersects the half-open range.
func (e *Event) Overlaps(start, end time.Time) bool {
	return e.start.Before(end) && start.Before(e.end)
}
