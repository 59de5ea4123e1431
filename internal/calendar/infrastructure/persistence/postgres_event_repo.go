// Package persistence provides calendar event repositories for both drivers.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/weekplan/internal/calendar/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/persistence"
)

const postgresEventColumns = `id, user_id, external_id, source, title, start_ts, end_ts, is_busy, created_at, updated_at`

// PostgresEventRepository stores calendar events in PostgreSQL.
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a PostgreSQL-backed event repository.
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

// Save upserts an event by its ID.
func (r *PostgresEventRepository) Save(ctx context.Context, event *domain.Event) error {
	exec := persistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `
		INSERT INTO events (id, user_id, external_id, source, title, start_ts, end_ts, is_busy, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			start_ts = EXCLUDED.start_ts,
			end_ts = EXCLUDED.end_ts,
			is_busy = EXCLUDED.is_busy,
			updated_at = EXCLUDED.updated_at`,
		event.ID(), event.UserID(), event.ExternalID(), event.Source(), event.Title(),
		event.Start(), event.End(), event.IsBusy(), event.CreatedAt(), event.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

// SaveImported upserts by (user, source, external ID).
func (r *PostgresEventRepository) SaveImported(ctx context.Context, event *domain.Event) (bool, error) {
	exec := persistence.Executor(ctx, r.pool)
	var created bool
	err := exec.QueryRow(ctx, `
		INSERT INTO events (id, user_id, external_id, source, title, start_ts, end_ts, is_busy, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, source, external_id) DO UPDATE SET
			title = EXCLUDED.title,
			start_ts = EXCLUDED.start_ts,
			end_ts = EXCLUDED.end_ts,
			is_busy = EXCLUDED.is_busy,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)`,
		event.ID(), event.UserID(), event.ExternalID(), event.Source(), event.Title(),
		event.Start(), event.End(), event.IsBusy(), event.CreatedAt(), event.UpdatedAt(),
	).Scan(&created)
	if err != nil {
		return false, fmt.Errorf("failed to save imported event: %w", err)
	}
	return created, nil
}

// FindInRange returns events overlapping [from, to), ordered by start.
func (r *PostgresEventRepository) FindInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Event, error) {
	exec := persistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, `
		SELECT `+postgresEventColumns+` FROM events
		WHERE user_id = $1 AND start_ts < $2 AND end_ts > $3
		ORDER BY start_ts`,
		userID, to, from,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanPostgresEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Delete removes an event.
func (r *PostgresEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := persistence.Executor(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func scanPostgresEvent(row pgx.Row) (*domain.Event, error) {
	var (
		id, userID       uuid.UUID
		externalID       *string
		source, title    string
		start, end       time.Time
		isBusy           bool
		created, updated time.Time
	)
	err := row.Scan(&id, &userID, &externalID, &source, &title, &start, &end, &isBusy, &created, &updated)
	if err != nil {
		return nil, err
	}

	ext := ""
	if externalID != nil {
		ext = *externalID
	}
	return domain.RehydrateEvent(id, userID, ext, source, title, start, end, isBusy, created, updated), nil
}
