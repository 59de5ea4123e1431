package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/persistence"
)

// PostgresRepository stores outbox messages in PostgreSQL.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a PostgreSQL-backed outbox repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// SaveBatch inserts messages, joining a context transaction when present.
func (r *PostgresRepository) SaveBatch(ctx context.Context, messages []*Message) error {
	exec := persistence.Executor(ctx, r.pool)
	for _, msg := range messages {
		_, err := exec.Exec(ctx, `
			INSERT INTO outbox_messages (id, routing_key, payload, status, retries, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			msg.ID, msg.RoutingKey, msg.Payload, msg.Status, msg.Retries, msg.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save outbox message: %w", err)
		}
	}
	return nil
}

// FetchPending returns up to limit pending messages, oldest first.
func (r *PostgresRepository) FetchPending(ctx context.Context, limit int) ([]*Message, error) {
	exec := persistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, `
		SELECT id, routing_key, payload, status, retries, created_at, published_at
		FROM outbox_messages
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2`,
		StatusPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending messages: %w", err)
	}
	defer rows.Close()

	var messages []*Message
	for rows.Next() {
		msg := &Message{}
		if err := rows.Scan(&msg.ID, &msg.RoutingKey, &msg.Payload, &msg.Status, &msg.Retries, &msg.CreatedAt, &msg.PublishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox message: %w", err)
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// MarkPublished flags a message as published.
func (r *PostgresRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	exec := persistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `
		UPDATE outbox_messages SET status = $1, published_at = $2 WHERE id = $3`,
		StatusPublished, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark message published: %w", err)
	}
	return nil
}

// MarkFailed bumps the retry counter and dead-letters exhausted messages.
func (r *PostgresRepository) MarkFailed(ctx context.Context, id uuid.UUID, maxRetries int) error {
	exec := persistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `
		UPDATE outbox_messages
		SET retries = retries + 1,
		    status = CASE WHEN retries + 1 >= $1 THEN $2 ELSE status END
		WHERE id = $3`,
		maxRetries, StatusFailed, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark message failed: %w", err)
	}
	return nil
}
