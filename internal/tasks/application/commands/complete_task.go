package commands

import (
	"context"

	"github.com/google/uuid"

	sharedApplication "github.com/felixgeelhaar/weekplan/internal/shared/application"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/weekplan/internal/tasks/domain"
)

// CompleteTaskCommand marks a task as done.
type CompleteTaskCommand struct {
	TaskID uuid.UUID
}

// CompleteTaskHandler handles the CompleteTaskCommand.
type CompleteTaskHandler struct {
	taskRepo   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCompleteTaskHandler creates a new CompleteTaskHandler.
func NewCompleteTaskHandler(taskRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CompleteTaskHandler {
	return &CompleteTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the CompleteTaskCommand.
func (h *CompleteTaskHandler) Handle(ctx context.Context, cmd CompleteTaskCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		if err := t.Complete(); err != nil {
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
