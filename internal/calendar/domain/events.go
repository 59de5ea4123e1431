package domain

import (
	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/weekplan/internal/shared/domain"
)

const (
	AggregateType = "CalendarEvent"

	RoutingKeyEventAdded = "calendar.event.added"
	RoutingKeyImportRan  = "calendar.import.completed"
)

// EventAdded is emitted when an event enters the calendar.
type EventAdded struct {
	sharedDomain.BaseEvent
	UserID uuid.UUID `json:"user_id"`
	Source string    `json:"source"`
	Title  string    `json:"title"`
}

// NewEventAdded creates an EventAdded event.
func NewEventAdded(eventID, userID uuid.UUID, source, title string) EventAdded {
	return EventAdded{
		BaseEvent: sharedDomain.NewBaseEvent(eventID, AggregateType, RoutingKeyEventAdded),
		UserID:    userID,
		Source:    source,
		Title:     title,
	}
}

// ImportCompleted is emitted after a calendar import run.
type ImportCompleted struct {
	sharedDomain.BaseEvent
	UserID   uuid.UUID `json:"user_id"`
	Source   string    `json:"source"`
	Imported int       `json:"imported"`
	Updated  int       `json:"updated"`
}

// NewImportCompleted creates an ImportCompleted event.
func NewImportCompleted(userID uuid.UUID, source string, imported, updated int) ImportCompleted {
	return ImportCompleted{
		BaseEvent: sharedDomain.NewBaseEvent(userID, AggregateType, RoutingKeyImportRan),
		UserID:    userID,
		Source:    source,
		Imported:  imported,
		Updated:   updated,
	}
}
