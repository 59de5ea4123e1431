// Package commands contains the write-side handlers for tasks.
package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	sharedApplication "github.com/felixgeelhaar/weekplan/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/weekplan/internal/shared/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/weekplan/internal/tasks/domain"
)

// CreateTaskCommand contains the data needed to create a task.
type CreateTaskCommand struct {
	UserID       uuid.UUID
	Title        string
	Priority     string
	Due          *time.Time
	EstMin       int
	MinChunkMin  int
	Energy       string
	Window       string
	HardDeadline bool
}

// CreateTaskResult contains the result of creating a task.
type CreateTaskResult struct {
	TaskID uuid.UUID
}

// CreateTaskHandler handles the CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(taskRepo domain.Repository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateTaskHandler {
	return &CreateTaskHandler{
		taskRepo:   taskRepo,
		outboxRepo: outboxRepo,
		uow:        uow,
	}
}

// Handle executes the CreateTaskCommand.
func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	priority := domain.PriorityP3
	if cmd.Priority != "" {
		parsed, err := domain.ParsePriority(cmd.Priority)
		if err != nil {
			return nil, err
		}
		priority = parsed
	}

	minChunk := cmd.MinChunkMin
	if minChunk == 0 {
		minChunk = 30
	}

	var result *CreateTaskResult

	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		t, err := domain.NewTask(cmd.UserID, cmd.Title, priority, cmd.EstMin, minChunk)
		if err != nil {
			return err
		}

		if cmd.Due != nil {
			t.SetDue(cmd.Due, cmd.HardDeadline)
		}

		if cmd.Energy != "" {
			energy, err := domain.ParseEnergy(cmd.Energy)
			if err != nil {
				return err
			}
			t.SetEnergy(energy)
		}

		if cmd.Window != "" {
			window, err := domain.ParseWindow(cmd.Window)
			if err != nil {
				return err
			}
			t.SetWindow(window)
		}

		if err := h.taskRepo.Save(txCtx, t); err != nil {
			return err
		}

		if err := saveEvents(txCtx, h.outboxRepo, cmd.UserID, t.DomainEvents()); err != nil {
			return err
		}
		t.ClearDomainEvents()

		result = &CreateTaskResult{TaskID: t.ID()}
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
