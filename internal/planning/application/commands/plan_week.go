// Package commands contains the write-side handlers for planning.
package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	calendarDomain "github.com/felixgeelhaar/weekplan/internal/calendar/domain"
	habitsDomain "github.com/felixgeelhaar/weekplan/internal/habits/domain"
	identityDomain "github.com/felixgeelhaar/weekplan/internal/identity/domain"
	"github.com/felixgeelhaar/weekplan/internal/planning/application/services"
	"github.com/felixgeelhaar/weekplan/internal/planning/domain"
	sharedApplication "github.com/felixgeelhaar/weekplan/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/weekplan/internal/shared/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
	tasksDomain "github.com/felixgeelhaar/weekplan/internal/tasks/domain"
)

// ScheduleCache invalidates cached week views after a replan. A nil
// cache is allowed, invalidation is best effort.
type ScheduleCache interface {
	InvalidateWeek(ctx context.Context, userID uuid.UUID, weekStart time.Time) error
}

// PlanWeekCommand triggers a planning run for the user's current week.
type PlanWeekCommand struct {
	UserID uuid.UUID
}

// PlanWeekResult reports what a planning run produced.
type PlanWeekResult struct {
	WeekStart     time.Time
	BlocksCreated int
	TaskBlocks    int
	HabitBlocks   int
	Unplaced      []services.UnplacedTask
}

// PlanWeekHandler is the run controller: it loads the planning inputs,
// invokes the placement engine, and swaps the schedule inside one
// transaction so a failed run never leaves a half-built week behind.
type PlanWeekHandler struct {
	profileRepo     identityDomain.ProfileRepository
	taskRepo        tasksDomain.Repository
	habitRepo       habitsDomain.Repository
	eventRepo       calendarDomain.Repository
	blockRepo       domain.BlockRepository
	outboxRepo      outbox.Repository
	uow             sharedApplication.UnitOfWork
	engine          *services.PlacementEngine
	cache           ScheduleCache
	logger          *slog.Logger
	respectBusyFlag bool
	now             func() time.Time
}

// NewPlanWeekHandler creates a new PlanWeekHandler.
func NewPlanWeekHandler(
	profileRepo identityDomain.ProfileRepository,
	taskRepo tasksDomain.Repository,
	habitRepo habitsDomain.Repository,
	eventRepo calendarDomain.Repository,
	blockRepo domain.BlockRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	engine *services.PlacementEngine,
	cache ScheduleCache,
	logger *slog.Logger,
	respectBusyFlag bool,
) *PlanWeekHandler {
	return &PlanWeekHandler{
		profileRepo:     profileRepo,
		taskRepo:        taskRepo,
		habitRepo:       habitRepo,
		eventRepo:       eventRepo,
		blockRepo:       blockRepo,
		outboxRepo:      outboxRepo,
		uow:             uow,
		engine:          engine,
		cache:           cache,
		logger:          logger,
		respectBusyFlag: respectBusyFlag,
		now:             time.Now,
	}
}

// WithClock overrides the handler's time source for tests.
func (h *PlanWeekHandler) WithClock(now func() time.Time) *PlanWeekHandler {
	h.now = now
	return h
}

// Handle executes the PlanWeekCommand.
func (h *PlanWeekHandler) Handle(ctx context.Context, cmd PlanWeekCommand) (*PlanWeekResult, error) {
	profile, err := h.profileRepo.FindByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if err := profile.WorkingHours().Validate(); err != nil {
		return nil, err
	}
	loc, err := profile.Location()
	if err != nil {
		return nil, err
	}

	now := h.now()
	weekStart := domain.WeekStart(now, loc)
	horizonEnd := weekStart.AddDate(0, 0, domain.HorizonDays)

	tasks, err := h.taskRepo.FindPlannable(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	habits, err := h.habitRepo.FindActive(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	events, err := h.eventRepo.FindInRange(ctx, cmd.UserID, weekStart, horizonEnd)
	if err != nil {
		return nil, err
	}

	// Reset task state before scoring: wake expired snoozes and demote
	// previously scheduled tasks, their blocks are about to be wiped.
	changed := make(map[uuid.UUID]tasksDomain.Status, len(tasks))
	for _, task := range tasks {
		changed[task.ID()] = task.Status()
		task.WakeIfDue(now)
		task.ReturnToBacklog()
	}

	plan, err := h.engine.PlanWeek(services.PlanInput{
		Profile:         profile,
		Tasks:           tasks,
		Habits:          habits,
		Events:          events,
		WeekStart:       weekStart,
		Now:             now,
		RespectBusyFlag: h.respectBusyFlag,
	})
	if err != nil {
		return nil, err
	}

	result := &PlanWeekResult{
		WeekStart: weekStart,
		Unplaced:  plan.Unplaced,
	}
	for _, block := range plan.Blocks {
		result.BlocksCreated++
		switch block.Type() {
		case domain.BlockTypeTask:
			result.TaskBlocks++
		case domain.BlockTypeHabit:
			result.HabitBlocks++
		}
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.blockRepo.DeleteForUser(txCtx, cmd.UserID); err != nil {
			return err
		}
		if err := h.blockRepo.SaveBatch(txCtx, plan.Blocks); err != nil {
			return err
		}

		for _, task := range tasks {
			if plan.PlacedMinutes[task.ID()] > 0 {
				task.MarkScheduled()
			}
			if task.Status() == changed[task.ID()] && len(task.DomainEvents()) == 0 {
				continue
			}
			if err := h.taskRepo.Save(txCtx, task); err != nil {
				return err
			}
			if err := saveEvents(txCtx, h.outboxRepo, cmd.UserID, task.DomainEvents()); err != nil {
				return err
			}
			task.ClearDomainEvents()
		}

		planned := domain.NewWeekPlanned(cmd.UserID, weekStart,
			result.BlocksCreated, result.TaskBlocks, result.HabitBlocks)
		return saveEvents(txCtx, h.outboxRepo, cmd.UserID, []sharedDomain.DomainEvent{planned})
	})
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.InvalidateWeek(ctx, cmd.UserID, weekStart); err != nil {
			h.logger.Warn("failed to invalidate week view cache",
				slog.String("user_id", cmd.UserID.String()),
				slog.String("error", err.Error()))
		}
	}

	h.logger.Info("week planned",
		slog.String("user_id", cmd.UserID.String()),
		slog.Time("week_start", weekStart),
		slog.Int("blocks", result.BlocksCreated),
		slog.Int("unplaced_tasks", len(result.Unplaced)))

	return result, nil
}

// saveEvents stamps metadata on the events and writes them to the outbox.
func saveEvents(ctx context.Context, outboxRepo outbox.Repository, userID uuid.UUID, events []sharedDomain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(userID))

	msgs, err := outbox.FromEvents(events)
	if err != nil {
		return err
	}
	return outboxRepo.SaveBatch(ctx, msgs)
}
