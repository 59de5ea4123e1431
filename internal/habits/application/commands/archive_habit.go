package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/weekplan/internal/shared/application"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
)

// ArchiveHabitCommand retires a habit from future planning.
type ArchiveHabitCommand struct {
	HabitID uuid.UUID
}

// ArchiveHabitHandler handles the ArchiveHabitCommand.
type ArchiveHabitHandler struct {
	habitRepo  domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewArchiveHabitHandler creates a new ArchiveHabitHandler.
func NewArchiveHabitHandler(habitRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ArchiveHabitHandler {
	return &ArchiveHabitHandler{
		habitRepo:  habitRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the ArchiveHabitCommand.
func (h *ArchiveHabitHandler) Handle(ctx context.Context, cmd ArchiveHabitCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		habit, err := h.habitRepo.FindByID(txCtx, cmd.HabitID)
		if err != nil {
			return err
		}

		if err := habit.Archive(); err != nil {
			return err
		}

		if err := h.habitRepo.Save(txCtx, habit); err != nil {
			return err
		}

		if err := saveEvents(txCtx, h.outboxRepo, habit.UserID(), habit.DomainEvents()); err != nil {
			return err
		}
		habit.ClearDomainEvents()
		return nil
	})
}
