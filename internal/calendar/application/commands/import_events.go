// Package commands contains the write-side handlers for the calendar.
package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/calendar/domain"
	sharedApplication "github.com/felixgeelhaar/weekplan/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/weekplan/internal/shared/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
)

// EventSource fetches events from an external calendar.
type EventSource interface {
	FetchEvents(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]*domain.Event, error)
}

// ImportEventsCommand pulls external events into the local calendar.
type ImportEventsCommand struct {
	UserID uuid.UUID
	From   time.Time
	To     time.Time
}

// ImportEventsResult summarizes an import run.
type ImportEventsResult struct {
	Imported int
	Updated  int
}

// ImportEventsHandler handles the ImportEventsCommand.
type ImportEventsHandler struct {
	source     EventSource
	eventRepo  domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewImportEventsHandler creates a new ImportEventsHandler.
func NewImportEventsHandler(source EventSource, eventRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ImportEventsHandler {
	return &ImportEventsHandler{
		source:     source,
		eventRepo:  eventRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the ImportEventsCommand.
func (h *ImportEventsHandler) Handle(ctx context.Context, cmd ImportEventsCommand) (*ImportEventsResult, error) {
	fetched, err := h.source.FetchEvents(ctx, cmd.UserID, cmd.From, cmd.To)
	if err != nil {
		return nil, err
	}

	result := &ImportEventsResult{}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		for _, event := range fetched {
			created, err := h.eventRepo.SaveImported(txCtx, event)
			if err != nil {
				return err
			}
			if created {
				result.Imported++
			} else {
				result.Updated++
			}
		}

		completed := domain.NewImportCompleted(cmd.UserID, domain.SourceCalDAV, result.Imported, result.Updated)
		return saveEvents(txCtx, h.outboxRepo, cmd.UserID, []sharedDomain.DomainEvent{completed})
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// saveEvents stamps metadata on the events and writes them to the outbox.
func saveEvents(ctx context.Context, outboxRepo outbox.Repository, userID uuid.UUID, events []sharedDomain.DomainEvent) error {
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(userID))

	msgs, err := outbox.FromEvents(events)
	if err != nil {
		return err
	}
	return outboxRepo.SaveBatch(ctx, msgs)
}
