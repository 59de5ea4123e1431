// Package queries contains the read-side handlers for planning.
package queries

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	calendarDomain "github.com/felixgeelhaar/weekplan/internal/calendar/domain"
	"github.com/felixgeelhaar/weekplan/internal/planning/domain"
)

// WeekViewCache caches rendered week views. A nil cache disables
// caching, errors degrade to a miss.
type WeekViewCache interface {
	GetWeek(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*WeekView, error)
	SetWeek(ctx context.Context, userID uuid.UUID, weekStart time.Time, view *WeekView) error
}

// GetWeekQuery fetches the rendered schedule for one week.
type GetWeekQuery struct {
	UserID uuid.UUID
	// WeekStart is Monday midnight in the user's location.
	WeekStart time.Time
}

// BlockView is one schedule entry in the week view. Calendar events
// appear as read-only shadows alongside the stored blocks.
type BlockView struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	RefID       uuid.UUID `json:"ref_id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Status      string    `json:"status"`
	Explanation string    `json:"explanation,omitempty"`
}

// DayView groups one day's blocks.
type DayView struct {
	Date   time.Time   `json:"date"`
	Blocks []BlockView `json:"blocks"`
}

// WeekView is the full seven day schedule.
type WeekView struct {
	WeekStart time.Time `json:"week_start"`
	Days      []DayView `json:"days"`
}

// GetWeekHandler handles the GetWeekQuery.
type GetWeekHandler struct {
	blockRepo domain.BlockRepository
	eventRepo calendarDomain.Repository
	cache     WeekViewCache
	logger    *slog.Logger
}

// NewGetWeekHandler creates a new GetWeekHandler.
func NewGetWeekHandler(blockRepo domain.BlockRepository, eventRepo calendarDomain.Repository, cache WeekViewCache, logger *slog.Logger) *GetWeekHandler {
	return &GetWeekHandler{
		blockRepo: blockRepo,
		eventRepo: eventRepo,
		cache:     cache,
		logger:    logger,
	}
}

// Handle executes the GetWeekQuery.
func (h *GetWeekHandler) Handle(ctx context.Context, query GetWeekQuery) (*WeekView, error) {
	if h.cache != nil {
		view, err := h.cache.GetWeek(ctx, query.UserID, query.WeekStart)
		if err != nil {
			h.logger.Warn("week view cache read failed", slog.String("error", err.Error()))
		} else if view != nil {
			return view, nil
		}
	}

	horizonEnd := query.WeekStart.AddDate(0, 0, domain.HorizonDays)

	blocks, err := h.blockRepo.FindInRange(ctx, query.UserID, query.WeekStart, horizonEnd)
	if err != nil {
		return nil, err
	}
	events, err := h.eventRepo.FindInRange(ctx, query.UserID, query.WeekStart, horizonEnd)
	if err != nil {
		return nil, err
	}

	view := buildWeekView(query.WeekStart, blocks, events)

	if h.cache != nil {
		if err := h.cache.SetWeek(ctx, query.UserID, query.WeekStart, view); err != nil {
			h.logger.Warn("week view cache write failed", slog.String("error", err.Error()))
		}
	}

	return view, nil
}

func buildWeekView(weekStart time.Time, blocks []*domain.Block, events []*calendarDomain.Event) *WeekView {
	loc := weekStart.Location()

	view := &WeekView{
		WeekStart: weekStart,
		Days:      make([]DayView, domain.HorizonDays),
	}
	bounds := make([]time.Time, domain.HorizonDays+1)
	for d := 0; d <= domain.HorizonDays; d++ {
		bounds[d] = weekStart.AddDate(0, 0, d)
	}
	for d := 0; d < domain.HorizonDays; d++ {
		view.Days[d].Date = bounds[d]
	}

	place := func(entry BlockView) {
		start := entry.Start.In(loc)
		for d := 0; d < domain.HorizonDays; d++ {
			if !start.Before(bounds[d]) && start.Before(bounds[d+1]) {
				view.Days[d].Blocks = append(view.Days[d].Blocks, entry)
				return
			}
		}
	}

	for _, block := range blocks {
		place(BlockView{
			ID:          block.ID(),
			Type:        block.Type().String(),
			RefID:       block.RefID(),
			Title:       block.Title(),
			Start:       block.Start(),
			End:         block.End(),
			Status:      block.Status().String(),
			Explanation: block.Explanation(),
		})
	}
	for _, event := range events {
		place(BlockView{
			ID:     event.ID(),
			Type:   domain.BlockTypeEvent.String(),
			RefID:  event.ID(),
			Title:  event.Title(),
			Start:  event.Start(),
			End:    event.End(),
			Status: domain.BlockStatusScheduled.String(),
		})
	}

	for d := range view.Days {
		day := view.Days[d].Blocks
		sort.SliceStable(day, func(i, j int) bool { return day[i].Start.Before(day[j].Start) })
	}

	return view
}
