// Package persistence provides schedule block repositories for both drivers.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/weekplan/internal/planning/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/persistence"
)

const postgresBlockColumns = `id, user_id, block_type, ref_id, title, start_ts, end_ts, status, explanation, created_at, updated_at`

// PostgresBlockRepository stores schedule blocks in PostgreSQL.
type PostgresBlockRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresBlockRepository creates a PostgreSQL-backed block repository.
func NewPostgresBlockRepository(pool *pgxpool.Pool) *PostgresBlockRepository {
	return &PostgresBlockRepository{pool: pool}
}

// SaveBatch inserts all blocks of one planning run.
func (r *PostgresBlockRepository) SaveBatch(ctx context.Context, blocks []*domain.Block) error {
	exec := persistence.Executor(ctx, r.pool)
	for i, block := range blocks {
		_, err := exec.Exec(ctx, `
			INSERT INTO schedule_blocks (id, user_id, block_type, ref_id, title, start_ts, end_ts, status, explanation, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			block.ID(), block.UserID(), block.Type().String(), block.RefID(), block.Title(),
			block.Start(), block.End(), block.Status().String(), block.Explanation(),
			block.CreatedAt(), block.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to save block %d of %d: %w", i+1, len(blocks), err)
		}
	}
	return nil
}

// DeleteForUser wipes the user's entire schedule.
func (r *PostgresBlockRepository) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	exec := persistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `DELETE FROM schedule_blocks WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete blocks: %w", err)
	}
	return nil
}

// FindInRange returns blocks overlapping [from, to), ordered by start.
func (r *PostgresBlockRepository) FindInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Block, error) {
	exec := persistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, `
		SELECT `+postgresBlockColumns+` FROM schedule_blocks
		WHERE user_id = $1 AND start_ts < $2 AND end_ts > $3
		ORDER BY start_ts`,
		userID, to, from,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocks: %w", err)
	}
	defer rows.Close()

	var blocks []*domain.Block
	for rows.Next() {
		block, err := scanPostgresBlock(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan block: %w", err)
		}
		blocks = append(blocks, block)
	}
	return blocks, rows.Err()
}

func scanPostgresBlock(row pgx.Row) (*domain.Block, error) {
	var (
		id, userID, refID uuid.UUID
		blockType, title  string
		start, end        time.Time
		status            string
		explanation       string
		created, updated  time.Time
	)
	err := row.Scan(&id, &userID, &blockType, &refID, &title, &start, &end, &status, &explanation, &created, &updated)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateBlock(id, userID, domain.BlockType(blockType), refID, title,
		start, end, domain.BlockStatus(status), explanation, created, updated), nil
}
