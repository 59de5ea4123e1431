// Package persistence provides profile repositories for both drivers.
package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/weekplan/internal/identity/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/persistence"
)

// PostgresProfileRepository stores profiles in PostgreSQL.
type PostgresProfileRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProfileRepository creates a PostgreSQL-backed profile repository.
func NewPostgresProfileRepository(pool *pgxpool.Pool) *PostgresProfileRepository {
	return &PostgresProfileRepository{pool: pool}
}

// Save upserts the profile keyed by user ID.
func (r *PostgresProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	hoursJSON, err := json.Marshal(profile.WorkingHours())
	if err != nil {
		return fmt.Errorf("failed to marshal working hours: %w", err)
	}

	exec := persistence.Executor(ctx, r.pool)
	_, err = exec.Exec(ctx, `
		INSERT INTO profiles (user_id, id, timezone, working_hours_json, focus_length_min, buffer_min, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			timezone = EXCLUDED.timezone,
			working_hours_json = EXCLUDED.working_hours_json,
			focus_length_min = EXCLUDED.focus_length_min,
			buffer_min = EXCLUDED.buffer_min,
			updated_at = EXCLUDED.updated_at`,
		profile.UserID(), profile.ID(), profile.Timezone(), hoursJSON,
		profile.FocusLengthMin(), profile.BufferMin(),
		profile.CreatedAt(), profile.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// FindByUserID returns domain.ErrNoProfile when no row exists.
func (r *PostgresProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	exec := persistence.Executor(ctx, r.pool)
	row := exec.QueryRow(ctx, `
		SELECT user_id, id, timezone, working_hours_json, focus_length_min, buffer_min, created_at, updated_at
		FROM profiles
		WHERE user_id = $1`,
		userID,
	)

	var (
		uid, id        uuid.UUID
		timezone       string
		hoursJSON      []byte
		focusLengthMin int
		bufferMin      int
		createdAt      time.Time
		updatedAt      time.Time
	)
	if err := row.Scan(&uid, &id, &timezone, &hoursJSON, &focusLengthMin, &bufferMin, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoProfile
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	var hours domain.WorkingHours
	if err := json.Unmarshal(hoursJSON, &hours); err != nil {
		return nil, fmt.Errorf("failed to unmarshal working hours: %w", err)
	}

	return domain.RehydrateProfile(id, uid, timezone, hours, focusLengthMin, bufferMin, createdAt, updatedAt), nil
}
