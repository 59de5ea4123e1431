package eventbus

import (
	"context"
	"log/slog"
	"sync"
)

// Handler consumes a published payload for a routing key.
type Handler func(ctx context.Context, routingKey string, payload []byte) error

// InProcessBus is an in-memory event bus for local mode (no RabbitMQ).
// Events are delivered synchronously to registered handlers.
type InProcessBus struct {
	logger   *slog.Logger
	mu       sync.Mutex
	handlers []Handler
}

// NewInProcessBus creates a new in-process event bus.
func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{logger: logger}
}

// Subscribe registers a handler for all published events.
func (b *InProcessBus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish dispatches the payload synchronously to every handler.
// Handler errors are logged, not propagated; local mode never fails a
// write because a listener misbehaved.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.Lock()
	handlers := make([]Handler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	for _, h := range handlers {
		if err := h(ctx, routingKey, payload); err != nil {
			b.logger.Error("event handler failed",
				"routing_key", routingKey,
				"error", err,
			)
		}
	}

	return nil
}

// Close is a no-op for the in-process bus.
func (b *InProcessBus) Close() error {
	return nil
}
