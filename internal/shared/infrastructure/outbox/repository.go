package outbox

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists outbox messages.
type Repository interface {
	// SaveBatch stores messages, joining any transaction in the context.
	SaveBatch(ctx context.Context, messages []*Message) error

	// FetchPending returns up to limit unpublished messages, oldest first.
	FetchPending(ctx context.Context, limit int) ([]*Message, error)

	// MarkPublished records a successful publish.
	MarkPublished(ctx context.Context, id uuid.UUID) error

	// MarkFailed increments the retry counter; once retries reach
	// maxRetries the message is dead-lettered as failed.
	MarkFailed(ctx context.Context, id uuid.UUID, maxRetries int) error
}
