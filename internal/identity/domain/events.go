package domain

import (
	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/weekplan/internal/shared/domain"
)

const (
	AggregateType = "Profile"

	RoutingKeyProfileCreated = "identity.profile.created"
	RoutingKeyProfileUpdated = "identity.profile.updated"
)

// ProfileCreated is emitted when the profile is first created.
type ProfileCreated struct {
	sharedDomain.BaseEvent
	UserID   uuid.UUID `json:"user_id"`
	Timezone string    `json:"timezone"`
}

// NewProfileCreated creates a ProfileCreated event.
func NewProfileCreated(profileID, userID uuid.UUID, timezone string) ProfileCreated {
	return ProfileCreated{
		BaseEvent: sharedDomain.NewBaseEvent(profileID, AggregateType, RoutingKeyProfileCreated),
		UserID:    userID,
		Timezone:  timezone,
	}
}

// ProfileUpdated is emitted when a profile setting changes.
type ProfileUpdated struct {
	sharedDomain.BaseEvent
	UserID  uuid.UUID `json:"user_id"`
	Setting string    `json:"setting"`
}

// NewProfileUpdated creates a ProfileUpdated event.
func NewProfileUpdated(profileID, userID uuid.UUID, setting string) ProfileUpdated {
	return ProfileUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(profileID, AggregateType, RoutingKeyProfileUpdated),
		UserID:    userID,
		Setting:   setting,
	}
}
