// Package domain holds the planning profile: timezone, working hours,
// and the knobs the placement engine reads.
package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/felixgeelhaar/weekplan/internal/shared/domain"
)

var (
	// ErrNoProfile indicates no profile exists for the user yet.
	ErrNoProfile = errors.New("profile not found")
	// ErrInvalidTimezone indicates an unknown IANA timezone name.
	ErrInvalidTimezone = errors.New("invalid timezone")
	// ErrInvalidFocusLength indicates a focus length outside 15..240 minutes.
	ErrInvalidFocusLength = errors.New("focus length must be between 15 and 240 minutes")
	// ErrInvalidBuffer indicates a buffer outside 0..60 minutes.
	ErrInvalidBuffer = errors.New("buffer must be between 0 and 60 minutes")
)

// Profile is the single user's planning configuration.
type Profile struct {
	sharedDomain.BaseAggregateRoot
	userID         uuid.UUID
	timezone       string
	workingHours   WorkingHours
	focusLengthMin int
	bufferMin      int
}

// NewProfile creates a profile with default working hours.
func NewProfile(userID uuid.UUID, timezone string) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, errors.New("user id is required")
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}

	p := &Profile{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		userID:            userID,
		timezone:          timezone,
		workingHours:      DefaultWorkingHours(),
		focusLengthMin:    90,
		bufferMin:         10,
	}

	p.AddDomainEvent(NewProfileCreated(p.ID(), userID, timezone))

	return p, nil
}

// RehydrateProfile recreates a profile from persisted state.
func RehydrateProfile(
	id uuid.UUID,
	userID uuid.UUID,
	timezone string,
	workingHours WorkingHours,
	focusLengthMin int,
	bufferMin int,
	createdAt, updatedAt time.Time,
) *Profile {
	return &Profile{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		),
		userID:         userID,
		timezone:       timezone,
		workingHours:   workingHours,
		focusLengthMin: focusLengthMin,
		bufferMin:      bufferMin,
	}
}

// Getters
func (p *Profile) UserID() uuid.UUID          { return p.userID }
func (p *Profile) Timezone() string           { return p.timezone }
func (p *Profile) WorkingHours() WorkingHours { return p.workingHours }
func (p *Profile) FocusLengthMin() int        { return p.focusLengthMin }
func (p *Profile) BufferMin() int             { return p.bufferMin }

// Location resolves the profile timezone. The timezone was validated on
// write, so a failure here means the tz database changed underneath us.
func (p *Profile) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(p.timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, p.timezone)
	}
	return loc, nil
}

// HoursFor returns the working hours for a weekday, false when the day is off.
func (p *Profile) HoursFor(day time.Weekday) (DayHours, bool) {
	return p.workingHours.For(day)
}

// SetTimezone changes the profile timezone.
func (p *Profile) SetTimezone(timezone string) error {
	if _, err := time.LoadLocation(timezone); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}
	if p.timezone == timezone {
		return nil
	}
	p.timezone = timezone
	p.Touch()
	p.AddDomainEvent(NewProfileUpdated(p.ID(), p.userID, "timezone"))
	return nil
}

// SetWorkingHours replaces the weekly working hours.
func (p *Profile) SetWorkingHours(hours WorkingHours) error {
	if err := hours.Validate(); err != nil {
		return err
	}
	p.workingHours = hours
	p.Touch()
	p.AddDomainEvent(NewProfileUpdated(p.ID(), p.userID, "working_hours"))
	return nil
}

// SetDayHours updates a single weekday's range.
func (p *Profile) SetDayHours(day time.Weekday, hours DayHours) error {
	if err := hours.Validate(); err != nil {
		return err
	}
	updated := WorkingHours{}
	for key, value := range p.workingHours {
		updated[key] = value
	}
	updated[DayKey(day)] = hours
	return p.SetWorkingHours(updated)
}

// SetFocusLength changes the maximum uninterrupted work chunk.
func (p *Profile) SetFocusLength(minutes int) error {
	if minutes < 15 || minutes > 240 {
		return ErrInvalidFocusLength
	}
	if p.focusLengthMin == minutes {
		return nil
	}
	p.focusLengthMin = minutes
	p.Touch()
	p.AddDomainEvent(NewProfileUpdated(p.ID(), p.userID, "focus_length"))
	return nil
}

// SetBuffer changes the gap kept between scheduled blocks.
func (p *Profile) SetBuffer(minutes int) error {
	if minutes < 0 || minutes > 60 {
		return ErrInvalidBuffer
	}
	if p.bufferMin == minutes {
		return nil
	}
	p.bufferMin = minutes
	p.Touch()
	p.AddDomainEvent(NewProfileUpdated(p.ID(), p.userID, "buffer"))
	return nil
}
