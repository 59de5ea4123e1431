// Package persistence provides habit repositories for both drivers.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/weekplan/internal/habits/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/persistence"
)

const postgresHabitColumns = `id, user_id, name, start_time, duration_min, protected,
	recurrence_rrule, archived, created_at, updated_at`

// PostgresHabitRepository stores habits in PostgreSQL.
type PostgresHabitRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresHabitRepository creates a PostgreSQL-backed habit repository.
func NewPostgresHabitRepository(pool *pgxpool.Pool) *PostgresHabitRepository {
	return &PostgresHabitRepository{pool: pool}
}

// Save upserts a habit.
func (r *PostgresHabitRepository) Save(ctx context.Context, habit *domain.Habit) error {
	exec := persistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `
		INSERT INTO habits (id, user_id, name, start_time, duration_min, protected,
			recurrence_rrule, archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			start_time = EXCLUDED.start_time,
			duration_min = EXCLUDED.duration_min,
			protected = EXCLUDED.protected,
			recurrence_rrule = EXCLUDED.recurrence_rrule,
			archived = EXCLUDED.archived,
			updated_at = EXCLUDED.updated_at`,
		habit.ID(), habit.UserID(), habit.Name(), habit.StartTime(), habit.DurationMin(),
		habit.Protected(), habit.Recurrence().String(), habit.IsArchived(),
		habit.CreatedAt(), habit.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save habit: %w", err)
	}
	return nil
}

// FindByID returns domain.ErrHabitNotFound when no habit exists.
func (r *PostgresHabitRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	exec := persistence.Executor(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`SELECT `+postgresHabitColumns+` FROM habits WHERE id = $1`, id)

	habit, err := scanPostgresHabit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("failed to find habit: %w", err)
	}
	return habit, nil
}

// FindByUser returns all habits for a user, including archived ones.
func (r *PostgresHabitRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	return r.query(ctx,
		`SELECT `+postgresHabitColumns+` FROM habits WHERE user_id = $1 ORDER BY start_time`, userID)
}

// FindActive returns non-archived habits for planning.
func (r *PostgresHabitRepository) FindActive(ctx context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	return r.query(ctx,
		`SELECT `+postgresHabitColumns+` FROM habits WHERE user_id = $1 AND NOT archived ORDER BY start_time`, userID)
}

func (r *PostgresHabitRepository) query(ctx context.Context, sql string, args ...any) ([]*domain.Habit, error) {
	exec := persistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	var habits []*domain.Habit
	for rows.Next() {
		habit, err := scanPostgresHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
	}
	return habits, rows.Err()
}

func scanPostgresHabit(row pgx.Row) (*domain.Habit, error) {
	var (
		id, userID       uuid.UUID
		name, startTime  string
		durationMin      int
		protected        bool
		rrule            string
		archived         bool
		created, updated time.Time
	)
	err := row.Scan(&id, &userID, &name, &startTime, &durationMin, &protected,
		&rrule, &archived, &created, &updated)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateHabit(id, userID, name, startTime, durationMin, protected,
		rrule, archived, created, updated)
}
