package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/calendar/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/persistence"
)

const sqliteEventColumns = `id, user_id, external_id, source, title, start_ts, end_ts, is_busy, created_at, updated_at`

// SQLiteEventRepository stores calendar events in SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

// NewSQLiteEventRepository creates a SQLite-backed event repository.
func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

// Save upserts an event by its ID.
func (r *SQLiteEventRepository) Save(ctx context.Context, event *domain.Event) error {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO events (id, user_id, external_id, source, title, start_ts, end_ts, is_busy, created_at, updated_at)
		VALUES (?, ?, NULLIF(?, ''), ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			start_ts = excluded.start_ts,
			end_ts = excluded.end_ts,
			is_busy = excluded.is_busy,
			updated_at = excluded.updated_at`,
		event.ID().String(), event.UserID().String(), event.ExternalID(), event.Source(),
		event.Title(), formatTime(event.Start()), formatTime(event.End()),
		boolToInt(event.IsBusy()), formatTime(event.CreatedAt()), formatTime(event.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to save event: %w", err)
	}
	return nil
}

// SaveImported upserts by (user, source, external ID).
func (r *SQLiteEventRepository) SaveImported(ctx context.Context, event *domain.Event) (bool, error) {
	exec := persistence.SQLiteExecutor(ctx, r.db)

	var existing int
	err := exec.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM events WHERE user_id = ? AND source = ? AND external_id = ?`,
		event.UserID().String(), event.Source(), event.ExternalID(),
	).Scan(&existing)
	if err != nil {
		return false, fmt.Errorf("failed to check imported event: %w", err)
	}

	_, err = exec.ExecContext(ctx, `
		INSERT INTO events (id, user_id, external_id, source, title, start_ts, end_ts, is_busy, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, source, external_id) DO UPDATE SET
			title = excluded.title,
			start_ts = excluded.start_ts,
			end_ts = excluded.end_ts,
			is_busy = excluded.is_busy,
			updated_at = excluded.updated_at`,
		event.ID().String(), event.UserID().String(), event.ExternalID(), event.Source(),
		event.Title(), formatTime(event.Start()), formatTime(event.End()),
		boolToInt(event.IsBusy()), formatTime(event.CreatedAt()), formatTime(event.UpdatedAt()),
	)
	if err != nil {
		return false, fmt.Errorf("failed to save imported event: %w", err)
	}
	return existing == 0, nil
}

// FindInRange returns events overlapping [from, to), ordered by start.
func (r *SQLiteEventRepository) FindInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Event, error) {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT `+sqliteEventColumns+` FROM events
		WHERE user_id = ? AND start_ts < ? AND end_ts > ?
		ORDER BY start_ts`,
		userID.String(), formatTime(to), formatTime(from),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*domain.Event
	for rows.Next() {
		event, err := scanSQLiteEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Delete removes an event.
func (r *SQLiteEventRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func scanSQLiteEvent(rows *sql.Rows) (*domain.Event, error) {
	var (
		id, userID       string
		externalID       sql.NullString
		source, title    string
		start, end       string
		isBusy           int
		created, updated string
	)
	err := rows.Scan(&id, &userID, &externalID, &source, &title, &start, &end, &isBusy, &created, &updated)
	if err != nil {
		return nil, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid event id: %w", err)
	}
	parsedUserID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid event user id: %w", err)
	}
	startTime, err := time.Parse(time.RFC3339Nano, start)
	if err != nil {
		return nil, fmt.Errorf("invalid event start_ts: %w", err)
	}
	endTime, err := time.Parse(time.RFC3339Nano, end)
	if err != nil {
		return nil, fmt.Errorf("invalid event end_ts: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("invalid event created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return nil, fmt.Errorf("invalid event updated_at: %w", err)
	}

	return domain.RehydrateEvent(parsedID, parsedUserID, externalID.String, source, title,
		startTime, endTime, isBusy != 0, createdAt, updatedAt), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
