package domain

import (
	"context"

	"github.com/google/uuid"
)

// ProfileRepository defines the interface for profile persistence.
type ProfileRepository interface {
	// Save upserts the profile keyed by user ID.
	Save(ctx context.Context, profile *Profile) error
	// FindByUserID returns ErrNoProfile when none exists.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Profile, error)
}
