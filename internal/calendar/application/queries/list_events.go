// Package queries contains the read-side handlers for the calendar.
package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/calendar/domain"
)

// ListEventsQuery lists events overlapping a time range.
type ListEventsQuery struct {
	UserID uuid.UUID
	From   time.Time
	To     time.Time
}

// EventView is the read model returned to callers.
type EventView struct {
	ID     uuid.UUID
	Title  string
	Source string
	Start  time.Time
	End    time.Time
	IsBusy bool
}

// ListEventsHandler handles the ListEventsQuery.
type ListEventsHandler struct {
	eventRepo domain.Repository
}

// NewListEventsHandler creates a new ListEventsHandler.
func NewListEventsHandler(eventRepo domain.Repository) *ListEventsHandler {
	return &ListEventsHandler{eventRepo: eventRepo}
}

// Handle executes the ListEventsQuery.
func (h *ListEventsHandler) Handle(ctx context.Context, query ListEventsQuery) ([]EventView, error) {
	events, err := h.eventRepo.FindInRange(ctx, query.UserID, query.From, query.To)
	if err != nil {
		return nil, err
	}

	views := make([]EventView, 0, len(events))
	for _, event := range events {
		views = append(views, EventView{
			ID:     event.ID(),
			Title:  event.Title(),
			Source: event.Source(),
			Start:  event.Start(),
			End:    event.End(),
			IsBusy: event.IsBusy(),
		})
	}
	return views, nil
}
