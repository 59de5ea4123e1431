package queries_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calendarDomain "github.com/felixgeelhaar/weekplan/internal/calendar/domain"
	"github.com/felixgeelhaar/weekplan/internal/planning/application/queries"
	"github.com/felixgeelhaar/weekplan/internal/planning/domain"
)

var weekStart = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC) // a Monday

type memoryBlockRepo struct {
	blocks []*domain.Block
}

func (r *memoryBlockRepo) SaveBatch(_ context.Context, blocks []*domain.Block) error {
	r.blocks = append(r.blocks, blocks...)
	return nil
}

func (r *memoryBlockRepo) DeleteForUser(_ context.Context, _ uuid.UUID) error {
	r.blocks = nil
	return nil
}

func (r *memoryBlockRepo) FindInRange(_ context.Context, _ uuid.UUID, from, to time.Time) ([]*domain.Block, error) {
	var out []*domain.Block
	for _, block := range r.blocks {
		if block.Overlaps(from, to) {
			out = append(out, block)
		}
	}
	return out, nil
}

type memoryEventRepo struct {
	events []*calendarDomain.Event
}

func (r *memoryEventRepo) Save(_ context.Context, event *calendarDomain.Event) error {
	r.events = append(r.events, event)
	return nil
}

func (r *memoryEventRepo) SaveImported(_ context.Context, event *calendarDomain.Event) (bool, error) {
	r.events = append(r.events, event)
	return true, nil
}

func (r *memoryEventRepo) FindInRange(_ context.Context, _ uuid.UUID, from, to time.Time) ([]*calendarDomain.Event, error) {
	var out []*calendarDomain.Event
	for _, event := range r.events {
		if event.Overlaps(from, to) {
			out = append(out, event)
		}
	}
	return out, nil
}

func (r *memoryEventRepo) Delete(_ context.Context, _ uuid.UUID) error { return nil }

type stubCache struct {
	views map[string]*queries.WeekView
	sets  int
}

func newStubCache() *stubCache {
	return &stubCache{views: map[string]*queries.WeekView{}}
}

func (c *stubCache) key(userID uuid.UUID, weekStart time.Time) string {
	return userID.String() + weekStart.Format(time.RFC3339)
}

func (c *stubCache) GetWeek(_ context.Context, userID uuid.UUID, weekStart time.Time) (*queries.WeekView, error) {
	return c.views[c.key(userID, weekStart)], nil
}

func (c *stubCache) SetWeek(_ context.Context, userID uuid.UUID, weekStart time.Time, view *queries.WeekView) error {
	c.views[c.key(userID, weekStart)] = view
	c.sets++
	return nil
}

func mustBlock(t *testing.T, userID uuid.UUID, blockType domain.BlockType, title string, start, end time.Time) *domain.Block {
	t.Helper()
	block, err := domain.NewBlock(userID, blockType, uuid.New(), title, start, end, "")
	require.NoError(t, err)
	return block
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetWeekHandler_MergesBlocksAndEvents(t *testing.T) {
	userID := uuid.New()
	blockRepo := &memoryBlockRepo{}
	eventRepo := &memoryEventRepo{}

	monday := weekStart
	require.NoError(t, blockRepo.SaveBatch(context.Background(), []*domain.Block{
		mustBlock(t, userID, domain.BlockTypeTask, "Write report", monday.Add(10*time.Hour), monday.Add(11*time.Hour)),
		mustBlock(t, userID, domain.BlockTypeHabit, "Yoga", monday.Add(8*time.Hour), monday.Add(8*time.Hour+30*time.Minute)),
	}))

	event, err := calendarDomain.NewEvent(userID, "Standup", monday.Add(9*time.Hour), monday.Add(9*time.Hour+15*time.Minute), true)
	require.NoError(t, err)
	require.NoError(t, eventRepo.Save(context.Background(), event))

	handler := queries.NewGetWeekHandler(blockRepo, eventRepo, nil, discardLogger())
	view, err := handler.Handle(context.Background(), queries.GetWeekQuery{UserID: userID, WeekStart: weekStart})
	require.NoError(t, err)

	require.Len(t, view.Days, 7)
	assert.Equal(t, weekStart, view.Days[0].Date)

	day := view.Days[0].Blocks
	require.Len(t, day, 3)
	// Chronological order, events interleaved as shadows.
	assert.Equal(t, "Yoga", day[0].Title)
	assert.Equal(t, "Standup", day[1].Title)
	assert.Equal(t, "event", day[1].Type)
	assert.Equal(t, "Write report", day[2].Title)

	for d := 1; d < 7; d++ {
		assert.Empty(t, view.Days[d].Blocks)
	}
}

func TestGetWeekHandler_UsesCache(t *testing.T) {
	userID := uuid.New()
	blockRepo := &memoryBlockRepo{}
	eventRepo := &memoryEventRepo{}
	cache := newStubCache()

	require.NoError(t, blockRepo.SaveBatch(context.Background(), []*domain.Block{
		mustBlock(t, userID, domain.BlockTypeTask, "Cached work", weekStart.Add(10*time.Hour), weekStart.Add(11*time.Hour)),
	}))

	handler := queries.NewGetWeekHandler(blockRepo, eventRepo, cache, discardLogger())
	query := queries.GetWeekQuery{UserID: userID, WeekStart: weekStart}

	first, err := handler.Handle(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// Mutate storage: the cached view should be served unchanged.
	blockRepo.blocks = nil
	second, err := handler.Handle(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first, second)
	require.Len(t, second.Days[0].Blocks, 1)
	assert.Equal(t, "Cached work", second.Days[0].Blocks[0].Title)
}
