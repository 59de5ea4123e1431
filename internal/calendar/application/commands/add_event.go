package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/calendar/domain"
	sharedApplication "github.com/felixgeelhaar/weekplan/internal/shared/application"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
)

// AddEventCommand creates a manual calendar event.
type AddEventCommand struct {
	UserID uuid.UUID
	Title  string
	Start  time.Time
	End    time.Time
	IsBusy bool
}

// AddEventResult contains the result of adding an event.
type AddEventResult struct {
	EventID uuid.UUID
}

// AddEventHandler handles the AddEventCommand.
type AddEventHandler struct {
	eventRepo  domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewAddEventHandler creates a new AddEventHandler.
func NewAddEventHandler(eventRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *AddEventHandler {
	return &AddEventHandler{
		eventRepo:  eventRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the AddEventCommand.
func (h *AddEventHandler) Handle(ctx context.Context, cmd AddEventCommand) (*AddEventResult, error) {
	var result *AddEventResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		event, err := domain.NewEvent(cmd.UserID, cmd.Title, cmd.Start, cmd.End, cmd.IsBusy)
		if err != nil {
			return err
		}

		if err := h.eventRepo.Save(txCtx, event); err != nil {
			return err
		}

		if err := saveEvents(txCtx, h.outboxRepo, cmd.UserID, event.DomainEvents()); err != nil {
			return err
		}
		event.ClearDomainEvents()

		result = &AddEventResult{EventID: event.ID()}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
