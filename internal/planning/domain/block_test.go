package domain_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/planning/domain"
)

func TestNewBlock(t *testing.T) {
	userID := uuid.New()
	refID := uuid.New()
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)

	block, err := domain.NewBlock(userID, domain.BlockTypeTask, refID, "Write report", start, start.Add(90*time.Minute), "Priority: P1")
	require.NoError(t, err)

	assert.Equal(t, userID, block.UserID())
	assert.Equal(t, domain.BlockTypeTask, block.Type())
	assert.Equal(t, refID, block.RefID())
	assert.Equal(t, domain.BlockStatusScheduled, block.Status())
	assert.Equal(t, 90, block.Minutes())
	assert.Equal(t, "Priority: P1", block.Explanation())
}

func TestNewBlock_InvalidRange(t *testing.T) {
	start := time.Now()
	_, err := domain.NewBlock(uuid.New(), domain.BlockTypeHabit, uuid.New(), "Yoga", start, start, "")
	assert.ErrorIs(t, err, domain.ErrInvalidBlockRange)
}

func TestNewBlock_EmptyTitle(t *testing.T) {
	start := time.Now()
	_, err := domain.NewBlock(uuid.New(), domain.BlockTypeTask, uuid.New(), "", start, start.Add(time.Hour), "")
	assert.ErrorIs(t, err, domain.ErrEmptyBlockTitle)
}

func TestBlock_Overlaps(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	block, err := domain.NewBlock(uuid.New(), domain.BlockTypeTask, uuid.New(), "Deep work", start, start.Add(time.Hour), "")
	require.NoError(t, err)

	assert.True(t, block.Overlaps(start.Add(30*time.Minute), start.Add(2*time.Hour)))
	assert.False(t, block.Overlaps(start.Add(time.Hour), start.Add(2*time.Hour)))
}
