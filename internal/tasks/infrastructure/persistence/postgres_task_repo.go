// Package persistence provides task repositories for both drivers.
package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/weekplan/internal/tasks/domain"
)

const postgresTaskColumns = `id, user_id, title, priority, due_ts, est_min, min_chunk_min,
	energy, preferred_window, hard_deadline, status, snoozed_until, created_at, updated_at`

// PostgresTaskRepository stores tasks in PostgreSQL.
type PostgresTaskRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTaskRepository creates a PostgreSQL-backed task repository.
func NewPostgresTaskRepository(pool *pgxpool.Pool) *PostgresTaskRepository {
	return &PostgresTaskRepository{pool: pool}
}

// Save upserts a task.
func (r *PostgresTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	exec := persistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, `
		INSERT INTO tasks (id, user_id, title, priority, due_ts, est_min, min_chunk_min,
			energy, preferred_window, hard_deadline, status, snoozed_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			priority = EXCLUDED.priority,
			due_ts = EXCLUDED.due_ts,
			est_min = EXCLUDED.est_min,
			min_chunk_min = EXCLUDED.min_chunk_min,
			energy = EXCLUDED.energy,
			preferred_window = EXCLUDED.preferred_window,
			hard_deadline = EXCLUDED.hard_deadline,
			status = EXCLUDED.status,
			snoozed_until = EXCLUDED.snoozed_until,
			updated_at = EXCLUDED.updated_at`,
		task.ID(), task.UserID(), task.Title(), task.Priority().String(), task.Due(),
		task.EstMin(), task.MinChunkMin(), task.Energy().String(), task.Window().String(),
		task.HardDeadline(), task.Status().String(), task.SnoozedUntil(),
		task.CreatedAt(), task.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// FindByID returns domain.ErrTaskNotFound when no task exists.
func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	exec := persistence.Executor(ctx, r.pool)
	row := exec.QueryRow(ctx,
		`SELECT `+postgresTaskColumns+` FROM tasks WHERE id = $1`, id)

	task, err := scanPostgresTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// FindByUser returns all tasks for a user, newest first.
func (r *PostgresTaskRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	exec := persistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT `+postgresTaskColumns+` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	return collectPostgresTasks(rows)
}

// FindPlannable returns tasks eligible for the next planning run.
func (r *PostgresTaskRepository) FindPlannable(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	exec := persistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT `+postgresTaskColumns+` FROM tasks
		WHERE user_id = $1
		  AND (status IN ('backlog', 'scheduled', 'in_progress')
		       OR (status = 'snoozed' AND snoozed_until <= $2))
		ORDER BY created_at`, userID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list plannable tasks: %w", err)
	}
	defer rows.Close()

	return collectPostgresTasks(rows)
}

// Delete removes a task.
func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := persistence.Executor(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func collectPostgresTasks(rows pgx.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanPostgresTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func scanPostgresTask(row pgx.Row) (*domain.Task, error) {
	var (
		id, userID       uuid.UUID
		title            string
		priority         string
		due              *time.Time
		estMin, minChunk int
		energy, window   string
		hardDeadline     bool
		status           string
		snoozedUntil     *time.Time
		created, updated time.Time
	)
	err := row.Scan(&id, &userID, &title, &priority, &due, &estMin, &minChunk,
		&energy, &window, &hardDeadline, &status, &snoozedUntil, &created, &updated)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateTask(
		id, userID, title,
		domain.Priority(priority), due, estMin, minChunk,
		domain.Energy(energy), domain.Window(window),
		hardDeadline, domain.Status(status), snoozedUntil,
		created, updated,
	), nil
}
