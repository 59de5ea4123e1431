package outbox_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/shared/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
)

type testEvent struct {
	domain.BaseEvent
	BlockCount int `json:"block_count"`
}

func newTestEvent() *testEvent {
	return &testEvent{
		BaseEvent:  domain.NewBaseEvent(uuid.New(), "Schedule", "planning.week.planned"),
		BlockCount: 12,
	}
}

func TestNewMessage(t *testing.T) {
	event := newTestEvent()

	msg, err := outbox.NewMessage(event)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, msg.ID)
	assert.Equal(t, "planning.week.planned", msg.RoutingKey)
	assert.Equal(t, outbox.StatusPending, msg.Status)
	assert.Equal(t, 0, msg.Retries)
	assert.Equal(t, event.OccurredAt(), msg.CreatedAt)
	assert.Nil(t, msg.PublishedAt)

	var envelope map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload, &envelope))
	assert.Equal(t, event.EventID().String(), envelope["event_id"])
	assert.Equal(t, event.AggregateID().String(), envelope["aggregate_id"])
	assert.Equal(t, "Schedule", envelope["aggregate_type"])
	assert.Equal(t, "planning.week.planned", envelope["routing_key"])

	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(12), data["block_count"])
}

func TestFromEvents(t *testing.T) {
	events := []domain.DomainEvent{newTestEvent(), newTestEvent()}

	messages, err := outbox.FromEvents(events)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.NotEqual(t, messages[0].ID, messages[1].ID)
}

func TestMessage_CanRetry(t *testing.T) {
	msg := &outbox.Message{Retries: 4}

	assert.True(t, msg.CanRetry(5))
	msg.Retries = 5
	assert.False(t, msg.CanRetry(5))
}
