package settings_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/weekplan/internal/identity/application/settings"
	"github.com/felixgeelhaar/weekplan/internal/identity/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/outbox"
)

type memoryProfileRepo struct {
	profiles map[uuid.UUID]*domain.Profile
}

func newMemoryProfileRepo() *memoryProfileRepo {
	return &memoryProfileRepo{profiles: map[uuid.UUID]*domain.Profile{}}
}

func (r *memoryProfileRepo) Save(_ context.Context, profile *domain.Profile) error {
	r.profiles[profile.UserID()] = profile
	return nil
}

func (r *memoryProfileRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*domain.Profile, error) {
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, domain.ErrNoProfile
	}
	return profile, nil
}

type memoryOutbox struct {
	saved []*outbox.Message
}

func (o *memoryOutbox) SaveBatch(_ context.Context, messages []*outbox.Message) error {
	o.saved = append(o.saved, messages...)
	return nil
}

func (o *memoryOutbox) FetchPending(_ context.Context, _ int) ([]*outbox.Message, error) {
	return nil, nil
}

func (o *memoryOutbox) MarkPublished(_ context.Context, _ uuid.UUID) error { return nil }

func (o *memoryOutbox) MarkFailed(_ context.Context, _ uuid.UUID, _ int) error { return nil }

type noopUnitOfWork struct{}

func (noopUnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (noopUnitOfWork) Commit(context.Context) error                       { return nil }
func (noopUnitOfWork) Rollback(context.Context) error                     { return nil }

func newService() (*settings.Service, *memoryProfileRepo, *memoryOutbox) {
	repo := newMemoryProfileRepo()
	ob := &memoryOutbox{}
	return settings.NewService(repo, ob, noopUnitOfWork{}, nil), repo, ob
}

func TestService_EnsureProfile_CreatesOnce(t *testing.T) {
	service, repo, ob := newService()
	userID := uuid.New()

	profile, err := service.EnsureProfile(context.Background(), userID, "Europe/Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", profile.Timezone())
	assert.Len(t, repo.profiles, 1)
	require.Len(t, ob.saved, 1)
	assert.Equal(t, domain.RoutingKeyProfileCreated, ob.saved[0].RoutingKey)

	// A second call returns the stored profile without a new event.
	again, err := service.EnsureProfile(context.Background(), userID, "UTC")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", again.Timezone())
	assert.Len(t, ob.saved, 1)
}

func TestService_SetTimezone(t *testing.T) {
	service, repo, _ := newService()
	userID := uuid.New()
	_, err := service.EnsureProfile(context.Background(), userID, "UTC")
	require.NoError(t, err)

	require.NoError(t, service.SetTimezone(context.Background(), userID, "Asia/Tokyo"))
	assert.Equal(t, "Asia/Tokyo", repo.profiles[userID].Timezone())
}

func TestService_SetTimezone_NoProfile(t *testing.T) {
	service, _, _ := newService()

	err := service.SetTimezone(context.Background(), uuid.New(), "UTC")
	assert.ErrorIs(t, err, domain.ErrNoProfile)
}

func TestService_SetDayHours(t *testing.T) {
	service, repo, _ := newService()
	userID := uuid.New()
	_, err := service.EnsureProfile(context.Background(), userID, "UTC")
	require.NoError(t, err)

	require.NoError(t, service.SetDayHours(context.Background(), userID, "Saturday", "10:00", "13:00"))

	hours, ok := repo.profiles[userID].WorkingHours().For(6) // Saturday
	require.True(t, ok)
	assert.Equal(t, "10:00", hours.Start)

	assert.Error(t, service.SetDayHours(context.Background(), userID, "funday", "10:00", "13:00"))
}

func TestService_DisableDay(t *testing.T) {
	service, repo, _ := newService()
	userID := uuid.New()
	_, err := service.EnsureProfile(context.Background(), userID, "UTC")
	require.NoError(t, err)

	require.NoError(t, service.DisableDay(context.Background(), userID, "friday"))

	_, ok := repo.profiles[userID].WorkingHours().For(5) // Friday
	assert.False(t, ok)
}

func TestService_SetFocusLengthAndBuffer(t *testing.T) {
	service, repo, _ := newService()
	userID := uuid.New()
	_, err := service.EnsureProfile(context.Background(), userID, "UTC")
	require.NoError(t, err)

	require.NoError(t, service.SetFocusLength(context.Background(), userID, 45))
	require.NoError(t, service.SetBuffer(context.Background(), userID, 15))

	assert.Equal(t, 45, repo.profiles[userID].FocusLengthMin())
	assert.Equal(t, 15, repo.profiles[userID].BufferMin())

	assert.ErrorIs(t, service.SetFocusLength(context.Background(), userID, 5), domain.ErrInvalidFocusLength)
}
