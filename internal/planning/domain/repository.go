package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BlockRepository persists schedule blocks.
type BlockRepository interface {
	// SaveBatch inserts all blocks of one planning run.
	SaveBatch(ctx context.Context, blocks []*Block) error
	// DeleteForUser wipes the user's entire schedule. Every run clears
	// and rebuilds, manual edits to placed blocks do not survive.
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
	// FindInRange returns blocks overlapping [from, to), ordered by start.
	FindInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Block, error)
}
