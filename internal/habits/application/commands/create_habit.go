// Package commands contains the write-side handlers for habits.
package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/habits/domain"
	sharedApplication "github.com/felixgeelhaar/weekplan/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/weekplan/internal/shared/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
)

// CreateHabitCommand contains the data needed to create a habit.
type CreateHabitCommand struct {
	UserID      uuid.UUID
	Name        string
	StartTime   string
	DurationMin int
	Protected   bool
	Recurrence  string
}

// CreateHabitResult contains the result of creating a habit.
type CreateHabitResult struct {
	HabitID uuid.UUID
	// DowngradedRecurrence is set when the rule was not daily or
	// weekly BYDAY and the habit will recur daily instead.
	DowngradedRecurrence bool
}

// CreateHabitHandler handles the CreateHabitCommand.
type CreateHabitHandler struct {
	habitRepo  domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCreateHabitHandler creates a new CreateHabitHandler.
func NewCreateHabitHandler(habitRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateHabitHandler {
	return &CreateHabitHandler{
		habitRepo:  habitRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the CreateHabitCommand.
func (h *CreateHabitHandler) Handle(ctx context.Context, cmd CreateHabitCommand) (*CreateHabitResult, error) {
	var result *CreateHabitResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		habit, err := domain.NewHabit(cmd.UserID, cmd.Name, cmd.StartTime, cmd.DurationMin, cmd.Protected, cmd.Recurrence)
		if err != nil {
			return err
		}

		if err := h.habitRepo.Save(txCtx, habit); err != nil {
			return err
		}

		if err := saveEvents(txCtx, h.outboxRepo, cmd.UserID, habit.DomainEvents()); err != nil {
			return err
		}
		habit.ClearDomainEvents()

		result = &CreateHabitResult{
			HabitID:              habit.ID(),
			DowngradedRecurrence: habit.Recurrence().Unsupported(),
		}
		return nil
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
