package persistence

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/identity/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/persistence"
)

// SQLiteProfileRepository stores profiles in SQLite.
type SQLiteProfileRepository struct {
	db *sql.DB
}

// NewSQLiteProfileRepository creates a SQLite-backed profile repository.
func NewSQLiteProfileRepository(db *sql.DB) *SQLiteProfileRepository {
	return &SQLiteProfileRepository{db: db}
}

// Save upserts the profile keyed by user ID.
func (r *SQLiteProfileRepository) Save(ctx context.Context, profile *domain.Profile) error {
	hoursJSON, err := json.Marshal(profile.WorkingHours())
	if err != nil {
		return fmt.Errorf("failed to marshal working hours: %w", err)
	}

	exec := persistence.SQLiteExecutor(ctx, r.db)
	_, err = exec.ExecContext(ctx, `
		INSERT INTO profiles (user_id, id, timezone, working_hours_json, focus_length_min, buffer_min, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			timezone = excluded.timezone,
			working_hours_json = excluded.working_hours_json,
			focus_length_min = excluded.focus_length_min,
			buffer_min = excluded.buffer_min,
			updated_at = excluded.updated_at`,
		profile.UserID().String(), profile.ID().String(), profile.Timezone(), string(hoursJSON),
		profile.FocusLengthMin(), profile.BufferMin(),
		profile.CreatedAt().UTC().Format(time.RFC3339Nano),
		profile.UpdatedAt().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// FindByUserID returns domain.ErrNoProfile when no row exists.
func (r *SQLiteProfileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	row := exec.QueryRowContext(ctx, `
		SELECT user_id, id, timezone, working_hours_json, focus_length_min, buffer_min, created_at, updated_at
		FROM profiles
		WHERE user_id = ?`,
		userID.String(),
	)

	var (
		uid, id        string
		timezone       string
		hoursJSON      string
		focusLengthMin int
		bufferMin      int
		createdAt      string
		updatedAt      string
	)
	if err := row.Scan(&uid, &id, &timezone, &hoursJSON, &focusLengthMin, &bufferMin, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoProfile
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	parsedUserID, err := uuid.Parse(uid)
	if err != nil {
		return nil, fmt.Errorf("invalid profile user id: %w", err)
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid profile id: %w", err)
	}

	var hours domain.WorkingHours
	if err := json.Unmarshal([]byte(hoursJSON), &hours); err != nil {
		return nil, fmt.Errorf("failed to unmarshal working hours: %w", err)
	}

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("invalid profile created_at: %w", err)
	}
	updated, err := time.Parse(time.RFC3339Nano, updatedAt)
	if err != nil {
		return nil, fmt.Errorf("invalid profile updated_at: %w", err)
	}

	return domain.RehydrateProfile(parsedID, parsedUserID, timezone, hours, focusLengthMin, bufferMin, created, updated), nil
}
