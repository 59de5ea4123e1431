// Package domain holds the planning core: schedule blocks, free-slot
// arithmetic, and the scoring functions that order the task backlog.
package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/weekplan/internal/shared/domain"
)

var (
	ErrInvalidBlockRange = errors.New("block end must be after start")
	ErrEmptyBlockTitle   = errors.New("block title cannot be empty")
)

// BlockType tells what kind of source entity a block represents.
type BlockType string

const (
	BlockTypeTask  BlockType = "task"
	BlockTypeHabit BlockType = "habit"
	// BlockTypeEvent is used for calendar shadows in the week view.
	// Event blocks are never persisted, events stay in their own table.
	BlockTypeEvent BlockType = "event"
)

func (t BlockType) String() string { return string(t) }

// BlockStatus is the lifecycle state of a placed block.
type BlockStatus string

const (
	BlockStatusScheduled  BlockStatus = "scheduled"
	BlockStatusInProgress BlockStatus = "in_progress"
	BlockStatusCompleted  BlockStatus = "completed"
	BlockStatusCancelled  BlockStatus = "cancelled"
)

func (s BlockStatus) String() string { return string(s) }

// Block is one placed interval on the schedule: a task chunk or a habit
// instance. Blocks are produced wholesale by a planning run and replaced
// wholesale by the next one.
type Block struct {
	sharedDomain.BaseEntity
	userID      uuid.UUID
	blockType   BlockType
	refID       uuid.UUID
	title       string
	start       time.Time
	end         time.Time
	status      BlockStatus
	explanation string
}

// NewBlock creates a scheduled block over the half-open range [start, end).
func NewBlock(userID uuid.UUID, blockType BlockType, refID uuid.UUID, title string, start, end time.Time, explanation string) (*Block, error) {
	if title == "" {
		return nil, ErrEmptyBlockTitle
	}
	if !end.After(start) {
		return nil, ErrInvalidBlockRange
	}
	return &Block{
		BaseEntity:  sharedDomain.NewBaseEntity(),
		userID:      userID,
		blockType:   blockType,
		refID:       refID,
		title:       title,
		start:       start,
		end:         end,
		status:      BlockStatusScheduled,
		explanation: explanation,
	}, nil
}

// RehydrateBlock recreates a block from persisted state.
func RehydrateBlock(
	id uuid.UUID,
	userID uuid.UUID,
	blockType BlockType,
	refID uuid.UUID,
	title string,
	start, end time.Time,
	status BlockStatus,
	explanation string,
	createdAt, updatedAt time.Time,
) *Block {
	return &Block{
		BaseEntity:  sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		userID:      userID,
		blockType:   blockType,
		refID:       refID,
		title:       title,
		start:       start,
		end:         end,
		status:      status,
		explanation: explanation,
	}
}

// Getters
func (b *Block) UserID() uuid.UUID   { return b.userID }
func (b *Block) Type() BlockType     { return b.blockType }
func (b *Block) RefID() uuid.UUID    { return b.refID }
func (b *Block) Title() string       { return b.title }
func (b *Block) Start() time.Time    { return b.start }
func (b *Block) End() time.Time      { return b.end }
func (b *Block) Status() BlockStatus { return b.status }
func (b *Block) Explanation() string { return b.explanation }

// Interval returns the block's time range.
func (b *Block) Interval() Interval {
	return Interval{Start: b.start, End: b.end}
}

// Minutes returns the block duration in whole minutes.
func (b *Block) Minutes() int {
	return int(b.end.Sub(b.start).Minutes())
}

// Overlaps reports whether the block intersects [start, end).
func (b *Block) Overlaps(start, end time.Time) bool {
	return b.start.Before(end) && start.Before(b.end)
}
