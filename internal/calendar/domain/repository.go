package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for calendar event persistence.
type Repository interface {
	// Save upserts an event by its ID.
	Save(ctx context.Context, event *Event) error
	// SaveImported upserts by (user, source, external ID) so repeated
	// imports update in place. Reports whether a new row was created.
	SaveImported(ctx context.Context, event *Event) (created bool, err error)
	// FindInRange returns events overlapping [from, to), ordered by start.
	FindInRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
