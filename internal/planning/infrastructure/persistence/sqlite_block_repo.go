package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/planning/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/persistence"
)

const sqliteBlockColumns = `id, user_id, block_type, ref_id, title, start_ts, end_ts, status, explanation, created_at, updated_at`

// SQLiteBlockRepository stores schedule blocks in SQLite.
type SQLiteBlockRepository struct {
	db *sql.DB
}

// NewSQLiteBlockRepository creates a SQLite-backed block repository.
func NewSQLiteBlockRepository(db *sql.DB) *SQLiteBlockRepository {
	return &SQLiteBlockRepository{db: db}
}

// SaveBatch inserts all blocks of one planning run.
func (r *SQLiteBlockRepository) SaveBatch(ctx context.Context, blocks []*domain.Block) error {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	for i, block := range blocks {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO schedule_blocks (id, user_id, block_type, ref_id, title, start_ts, end_ts, status, explanation, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			block.ID().String(), block.UserID().String(), block.Type().String(),
			block.RefID().String(), block.Title(), formatTime(block.Start()), formatTime(block.End()),
			block.Status().String(), block.Explanation(),
			formatTime(block.CreatedAt()), formatTime(block.UpdatedAt()),
		)
		if err != nil {
			return fmt.Errorf("failed to save block %d of %d: %w", i+1, len(blocks), err)
		}
	}
	return nil
}

// DeleteForUser wipes the user's entire schedule.
func (r *SQLiteBlockRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `DELETE FROM schedule_blocks WHERE user_id = ?`, userID.String())
	if err != nil {
		return fmt.Errorf("failed to delete blocks: %w", err)
	}
	return nil
}

// FindInRange returns blocks overlapping [from, to), ordered by start.
func (r *SQLiteBlockRepository) FindInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Block, error) {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT `+sqliteBlockColumns+` FROM schedule_blocks
		WHERE user_id = ? AND start_ts < ? AND end_ts > ?
		ORDER BY start_ts`,
		userID.String(), formatTime(to), formatTime(from),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*domain.Block
	for rows.Next() {
		block, err := scanSQLiteBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}

func scanSQLiteBlock(rows *sql.Rows) (*domain.Block, error) {
	var (
		id, userID, refID string
		blockType, title  string
		start, end        string
		status            string
		explanation       string
		created, updated  string
	)
	err := rows.Scan(&id, &userID, &blockType, &refID, &title, &start, &end, &status, &explanation, &created, &updated)
	if err != nil {
		return nil, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid block id: %w", err)
	}
	parsedUserID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid block user id: %w", err)
	}
	parsedRefID, err := uuid.Parse(refID)
	if err != nil {
		return nil, fmt.Errorf("invalid block ref id: %w", err)
	}
	startTime, err := time.Parse(time.RFC3339Nano, start)
	if err != nil {
		return nil, fmt.Errorf("invalid block start_ts: %w", err)
	}
	endTime, err := time.Parse(time.RFC3339Nano, end)
	if err != nil {
		return nil, fmt.Errorf("invalid block end_ts: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("invalid block created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return nil, fmt.Errorf("invalid block updated_at: %w", err)
	}

	return domain.RehydrateBlock(parsedID, parsedUserID, domain.BlockType(blockType), parsedRefID,
		title, startTime, endTime, domain.BlockStatus(status), explanation, createdAt, updatedAt), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
