package application

import (
	"github.com/felixgeelhaar/weekplan/internal/shared/domain"
	"github.com/google/uuid"
)

// NewEventMetadata builds metadata for events raised on behalf of a user.
func NewEventMetadata(userID uuid.UUID) domain.EventMetadata {
	return domain.EventMetadata{
		CorrelationID: uuid.New(),
		UserID:        userID,
	}
}

// ApplyEventMetadata stamps metadata onto every event that supports it.
func ApplyEventMetadata(events []domain.DomainEvent, metadata domain.EventMetadata) {
	for _, event := range events {
		if settable, ok := event.(interface{ SetMetadata(domain.EventMetadata) }); ok {
			settable.SetMetadata(metadata)
		}
	}
}
