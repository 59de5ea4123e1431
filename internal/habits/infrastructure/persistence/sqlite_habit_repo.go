package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/habits/domain"
	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/persistence"
)

const sqliteHabitColumns = `id, user_id, name, start_time, duration_min, protected,
	recurrence_rrule, archived, created_at, updated_at`

// SQLiteHabitRepository stores habits in SQLite.
type SQLiteHabitRepository struct {
	db *sql.DB
}

// NewSQLiteHabitRepository creates a SQLite-backed habit repository.
func NewSQLiteHabitRepository(db *sql.DB) *SQLiteHabitRepository {
	return &SQLiteHabitRepository{db: db}
}

// Save upserts a habit.
func (r *SQLiteHabitRepository) Save(ctx context.Context, habit *domain.Habit) error {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	protected := 0
	if habit.Protected() {
		protected = 1
	}
	archived := 0
	if habit.IsArchived() {
		archived = 1
	}
	_, err := exec.ExecContext(ctx, `
		INSERT INTO habits (id, user_id, name, start_time, duration_min, protected,
			recurrence_rrule, archived, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			start_time = excluded.start_time,
			duration_min = excluded.duration_min,
			protected = excluded.protected,
			recurrence_rrule = excluded.recurrence_rrule,
			archived = excluded.archived,
			updated_at = excluded.updated_at`,
		habit.ID().String(), habit.UserID().String(), habit.Name(), habit.StartTime(),
		habit.DurationMin(), protected, habit.Recurrence().String(), archived,
		habit.CreatedAt().UTC().Format(time.RFC3339Nano),
		habit.UpdatedAt().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save habit: %w", err)
	}
	return nil
}

// FindByID returns domain.ErrHabitNotFound when no habit exists.
func (r *SQLiteHabitRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	row := exec.QueryRowContext(ctx,
		`SELECT `+sqliteHabitColumns+` FROM habits WHERE id = ?`, id.String())

	habit, err := scanSQLiteHabit(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrHabitNotFound
		}
		return nil, fmt.Errorf("failed to find habit: %w", err)
	}
	return habit, nil
}

// FindByUser returns all habits for a user, including archived ones.
func (r *SQLiteHabitRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	return r.query(ctx,
		`SELECT `+sqliteHabitColumns+` FROM habits WHERE user_id = ? ORDER BY start_time`,
		userID.String())
}

// FindActive returns non-archived habits for planning.
func (r *SQLiteHabitRepository) FindActive(ctx context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	return r.query(ctx,
		`SELECT `+sqliteHabitColumns+` FROM habits WHERE user_id = ? AND archived = 0 ORDER BY start_time`,
		userID.String())
}

func (r *SQLiteHabitRepository) query(ctx context.Context, query string, args ...any) ([]*domain.Habit, error) {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	var habits []*domain.Habit
	for rows.Next() {
		habit, err := scanSQLiteHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, habit)
	}
	return habits, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteHabit(row rowScanner) (*domain.Habit, error) {
	var (
		id, userID       string
		name, startTime  string
		durationMin      int
		protected        int
		rrule            string
		archived         int
		created, updated string
	)
	err := row.Scan(&id, &userID, &name, &startTime, &durationMin, &protected,
		&rrule, &archived, &created, &updated)
	if err != nil {
		return nil, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid habit id: %w", err)
	}
	parsedUserID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid habit user id: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("invalid habit created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return nil, fmt.Errorf("invalid habit updated_at: %w", err)
	}

	return domain.RehydrateHabit(parsedID, parsedUserID, name, startTime, durationMin,
		protected != 0, rrule, archived != 0, createdAt, updatedAt)
}
