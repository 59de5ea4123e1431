// Package settings manages the planning profile: timezone, working
// hours, focus length, and the buffer kept between blocks.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/identity/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/application"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
)

// Service coordinates profile reads and writes.
type Service struct {
	profiles domain.ProfileRepository
	outbox   outbox.Repository
	uow      application.UnitOfWork
	logger   *slog.Logger
}

// NewService creates a settings service.
func NewService(
	profiles domain.ProfileRepository,
	outboxRepo outbox.Repository,
	uow application.UnitOfWork,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		profiles: profiles,
		outbox:   outboxRepo,
		uow:      uow,
		logger:   logger,
	}
}

// Get returns the user's profile, or domain.ErrNoProfile.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	return s.profiles.FindByUserID(ctx, userID)
}

// EnsureProfile returns the existing profile or creates one with defaults.
func (s *Service) EnsureProfile(ctx context.Context, userID uuid.UUID, timezone string) (*domain.Profile, error) {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, domain.ErrNoProfile) {
		return nil, err
	}

	profile, err = domain.NewProfile(userID, timezone)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "profile created",
		"user_id", userID,
		"timezone", timezone,
	)

	return profile, nil
}

// SetTimezone updates the profile timezone.
func (s *Service) SetTimezone(ctx context.Context, userID uuid.UUID, timezone string) error {
	return s.update(ctx, userID, func(p *domain.Profile) error {
		return p.SetTimezone(timezone)
	})
}

// SetDayHours sets the working range for one weekday.
func (s *Service) SetDayHours(ctx context.Context, userID uuid.UUID, day, start, end string) error {
	weekday, ok := domain.ParseDayKey(strings.ToLower(day))
	if !ok {
		return fmt.Errorf("unknown weekday %q", day)
	}
	return s.update(ctx, userID, func(p *domain.Profile) error {
		return p.SetDayHours(weekday, domain.DayHours{Enabled: true, Start: start, End: end})
	})
}

// DisableDay removes a weekday from the working week.
func (s *Service) DisableDay(ctx context.Context, userID uuid.UUID, day string) error {
	weekday, ok := domain.ParseDayKey(strings.ToLower(day))
	if !ok {
		return fmt.Errorf("unknown weekday %q", day)
	}
	return s.update(ctx, userID, func(p *domain.Profile) error {
		return p.SetDayHours(weekday, domain.DayHours{Enabled: false})
	})
}

// SetFocusLength updates the maximum uninterrupted work chunk.
func (s *Service) SetFocusLength(ctx context.Context, userID uuid.UUID, minutes int) error {
	return s.update(ctx, userID, func(p *domain.Profile) error {
		return p.SetFocusLength(minutes)
	})
}

// SetBuffer updates the gap kept between scheduled blocks.
func (s *Service) SetBuffer(ctx context.Context, userID uuid.UUID, minutes int) error {
	return s.update(ctx, userID, func(p *domain.Profile) error {
		return p.SetBuffer(minutes)
	})
}

func (s *Service) update(ctx context.Context, userID uuid.UUID, mutate func(*domain.Profile) error) error {
	profile, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if err := mutate(profile); err != nil {
		return err
	}
	return s.persist(ctx, profile)
}

func (s *Service) persist(ctx context.Context, profile *domain.Profile) error {
	return application.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		if err := s.profiles.Save(txCtx, profile); err != nil {
			return err
		}

		events := profile.DomainEvents()
		application.ApplyEventMetadata(events, application.NewEventMetadata(profile.UserID()))
		messages, err := outbox.FromEvents(events)
		if err != nil {
			return err
		}
		if err := s.outbox.SaveBatch(txCtx, messages); err != nil {
			return err
		}
		profile.ClearDomainEvents()
		return nil
	})
}

// ParseWeekday is a convenience wrapper for CLI input validation.
func ParseWeekday(day string) (time.Weekday, error) {
	weekday, ok := domain.ParseDayKey(strings.ToLower(day))
	if !ok {
		return 0, fmt.Errorf("unknown weekday %q", day)
	}
	return weekday, nil
}
