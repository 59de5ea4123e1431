package outbox_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
)

type memoryRepo struct {
	mu       sync.Mutex
	messages []*outbox.Message
}

func (r *memoryRepo) SaveBatch(_ context.Context, messages []*outbox.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, messages...)
	return nil
}

func (r *memoryRepo) FetchPending(_ context.Context, limit int) ([]*outbox.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pending []*outbox.Message
	for _, msg := range r.messages {
		if msg.Status == outbox.StatusPending && len(pending) < limit {
			pending = append(pending, msg)
		}
	}
	return pending, nil
}

func (r *memoryRepo) MarkPublished(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.messages {
		if msg.ID == id {
			msg.Status = outbox.StatusPublished
		}
	}
	return nil
}

func (r *memoryRepo) MarkFailed(_ context.Context, id uuid.UUID, maxRetries int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.messages {
		if msg.ID == id {
			msg.Retries++
			if msg.Retries >= maxRetries {
				msg.Status = outbox.StatusFailed
			}
		}
	}
	return nil
}

type stubPublisher struct {
	mu        sync.Mutex
	published []string
	err       error
}

func (p *stubPublisher) Publish(_ context.Context, routingKey string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, routingKey)
	return nil
}

func (p *stubPublisher) Close() error { return nil }

func pendingMessage(routingKey string) *outbox.Message {
	return &outbox.Message{
		ID:         uuid.New(),
		RoutingKey: routingKey,
		Payload:    []byte(`{}`),
		Status:     outbox.StatusPending,
	}
}

func TestProcessor_ProcessBatch(t *testing.T) {
	repo := &memoryRepo{}
	publisher := &stubPublisher{}
	require.NoError(t, repo.SaveBatch(context.Background(), []*outbox.Message{
		pendingMessage("planning.week.planned"),
		pendingMessage("tasks.task.completed"),
	}))

	processor := outbox.NewProcessor(repo, publisher, outbox.DefaultProcessorConfig(), nil)

	require.NoError(t, processor.ProcessBatch(context.Background()))

	assert.Equal(t, []string{"planning.week.planned", "tasks.task.completed"}, publisher.published)
	pending, err := repo.FetchPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessor_ProcessBatch_PublishFailure(t *testing.T) {
	repo := &memoryRepo{}
	publisher := &stubPublisher{err: errors.New("broker down")}
	msg := pendingMessage("planning.week.planned")
	require.NoError(t, repo.SaveBatch(context.Background(), []*outbox.Message{msg}))

	config := outbox.DefaultProcessorConfig()
	config.MaxRetries = 2
	processor := outbox.NewProcessor(repo, publisher, config, nil)

	require.NoError(t, processor.ProcessBatch(context.Background()))
	assert.Equal(t, 1, msg.Retries)
	assert.Equal(t, outbox.StatusPending, msg.Status)

	// Second failure exhausts the retry budget.
	require.NoError(t, processor.ProcessBatch(context.Background()))
	assert.Equal(t, outbox.StatusFailed, msg.Status)

	pending, err := repo.FetchPending(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestProcessor_StartStop(t *testing.T) {
	repo := &memoryRepo{}
	publisher := &stubPublisher{}
	processor := outbox.NewProcessor(repo, publisher, outbox.DefaultProcessorConfig(), nil)

	processor.Start(context.Background())
	processor.Start(context.Background()) // idempotent
	processor.Stop()
	processor.Stop()
}
