package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/persistence"
)

// SQLiteRepository stores outbox messages in SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a SQLite-backed outbox repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// SaveBatch inserts messages, joining a context transaction when present.
func (r *SQLiteRepository) SaveBatch(ctx context.Context, messages []*Message) error {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	for _, msg := range messages {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO outbox_messages (id, routing_key, payload, status, retries, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			msg.ID.String(), msg.RoutingKey, string(msg.Payload), msg.Status, msg.Retries,
			msg.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("failed to save outbox message: %w", err)
		}
	}
	return nil
}

// FetchPending returns up to limit pending messages, oldest first.
func (r *SQLiteRepository) FetchPending(ctx context.Context, limit int) ([]*Message, error) {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, `
		SELECT id, routing_key, payload, status, retries, created_at, published_at
		FROM outbox_messages
		WHERE status = ?
		ORDER BY created_at
		LIMIT ?`,
		StatusPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		var (
			id          string
			payload     string
			createdAt   string
			publishedAt sql.NullString
			msg         Message
		)
		if err := rows.Scan(&id, &msg.RoutingKey, &payload, &msg.Status, &msg.Retries, &createdAt, &publishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}
		msg.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid outbox message id: %w", err)
		}
		msg.Payload = []byte(payload)
		msg.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("invalid outbox created_at: %w", err)
		}
		if publishedAt.Valid {
			t, err := time.Parse(time.RFC3339Nano, publishedAt.String)
			if err != nil {
				return nil, fmt.Errorf("invalid outbox published_at: %w", err)
			}
			msg.PublishedAt = &t
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

// MarkPublished flags a message as published.
func (r *SQLiteRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
		UPDATE outbox_messages SET status = ?, published_at = ? WHERE id = ?`,
		StatusPublished, time.Now().UTC().Format(time.RFC3339Nano), id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to mark message published: %w", err)
	}
	return nil
}

// MarkFailed bumps the retry counter and dead-letters exhausted messages.
func (r *SQLiteRepository) MarkFailed(ctx context.Context, id uuid.UUID, maxRetries int) error {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
		UPDATE outbox_messages
		SET retries = retries + 1,
		    status = CASE WHEN retries + 1 >= ? THEN ? ELSE status END
		WHERE id = ?`,
		maxRetries, StatusFailed, id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to mark message failed: %w", err)
	}
	return nil
}
