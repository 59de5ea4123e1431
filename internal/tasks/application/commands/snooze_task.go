package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	sharedApplication "github.com/felixgeelhaar/weekplan/internal/shared/application"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/weekplan/internal/tasks/domain"
)

// SnoozeTaskCommand hides a task from planning until the given time.
type SnoozeTaskCommand struct {
	TaskID uuid.UUID
	Until  time.Time
}

// SnoozeTaskHandler handles the SnoozeTaskCommand.
type SnoozeTaskHandler struct {
	taskRepo   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewSnoozeTaskHandler creates a new SnoozeTaskHandler.
func NewSnoozeTaskHandler(taskRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *SnoozeTaskHandler {
	return &SnoozeTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the SnoozeTaskCommand.
func (h *SnoozeTaskHandler) Handle(ctx context.Context, cmd SnoozeTaskCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		if err := t.Snooze(cmd.Until); err != nil {
			return err
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		if err := saveEvents(txCtx, h.outboxRepo, t.UserID(), t.DomainEvents()); err != nil {
			return err
		}
		t.ClearDomainEvents()
		return nil
	})
}
