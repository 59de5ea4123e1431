// Package outbox implements the transactional outbox pattern: domain
// events are written to the database in the same transaction as the
// state change, then published to the broker by a background processor.
package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/shared/domain"
)

// Message statuses.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
	StatusFailed    = "failed"
)

// Message is a serialized domain event waiting to be published.
type Message struct {
	ID          uuid.UUID
	RoutingKey  string
	Payload     json.RawMessage
	Status      string
	Retries     int
	CreatedAt   time.Time
	PublishedAt *time.Time
}

type eventEnvelope struct {
	EventID       uuid.UUID `json:"event_id"`
	AggregateID   uuid.UUID `json:"aggregate_id"`
	AggregateType string    `json:"aggregate_type"`
	RoutingKey    string    `json:"routing_key"`
	OccurredAt    time.Time `json:"occurred_at"`
	CorrelationID uuid.UUID `json:"correlation_id"`
	UserID        uuid.UUID `json:"user_id"`
	Data          any       `json:"data"`
}

// NewMessage wraps a domain event in a publishable envelope.
func NewMessage(event domain.DomainEvent) (*Message, error) {
	payload, err := json.Marshal(eventEnvelope{
		EventID:       event.EventID(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		RoutingKey:    event.RoutingKey(),
		OccurredAt:    event.OccurredAt(),
		CorrelationID: event.Metadata().CorrelationID,
		UserID:        event.Metadata().UserID,
		Data:          event,
	})
	if err != nil {
		return nil, err
	}

	return &Message{
		ID:         uuid.New(),
		RoutingKey: event.RoutingKey(),
		Payload:    payload,
		Status:     StatusPending,
		CreatedAt:  event.OccurredAt(),
	}, nil
}

// FromEvents converts a batch of domain events into outbox messages.
func FromEvents(events []domain.DomainEvent) ([]*Message, error) {
	messages := make([]*Message, 0, len(events))
	for _, event := range events {
		msg, err := NewMessage(event)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// CanRetry reports whether the message is below the retry limit.
func (m *Message) CanRetry(maxRetries int) bool {
	return m.Retries < maxRetries
}
