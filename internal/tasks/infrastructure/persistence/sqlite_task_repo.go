package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/weekplan/internal/shared/infrastructure/persistence"
	"github.com/felixgeelhaar/weekplan/internal/tasks/domain"
)

const sqliteTaskColumns = `id, user_id, title, priority, due_ts, est_min, min_chunk_min,
	energy, preferred_window, hard_deadline, status, snoozed_until, created_at, updated_at`

// SQLiteTaskRepository stores tasks in SQLite.
type SQLiteTaskRepository struct {
	db *sql.DB
}

// NewSQLiteTaskRepository creates a SQLite-backed task repository.
func NewSQLiteTaskRepository(db *sql.DB) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{db: db}
}

// Save upserts a task.
func (r *SQLiteTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	_, err := exec.ExecContext(ctx, `
		INSERT INTO tasks (id, user_id, title, priority, due_ts, est_min, min_chunk_min,
			energy, preferred_window, hard_deadline, status, snoozed_until, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			priority = excluded.priority,
			due_ts = excluded.due_ts,
			est_min = excluded.est_min,
			min_chunk_min = excluded.min_chunk_min,
			energy = excluded.energy,
			preferred_window = excluded.preferred_window,
			hard_deadline = excluded.hard_deadline,
			status = excluded.status,
			snoozed_until = excluded.snoozed_until,
			updated_at = excluded.updated_at`,
		task.ID().String(), task.UserID().String(), task.Title(), task.Priority().String(),
		formatNullableTime(task.Due()), task.EstMin(), task.MinChunkMin(),
		task.Energy().String(), task.Window().String(), boolToInt(task.HardDeadline()),
		task.Status().String(), formatNullableTime(task.SnoozedUntil()),
		task.CreatedAt().UTC().Format(time.RFC3339Nano),
		task.UpdatedAt().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}
	return nil
}

// FindByID returns domain.ErrTaskNotFound when no task exists.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	row := exec.QueryRowContext(ctx,
		`SELECT `+sqliteTaskColumns+` FROM tasks WHERE id = ?`, id.String())

	task, err := scanSQLiteTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// FindByUser returns all tasks for a user, newest first.
func (r *SQLiteTaskRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx,
		`SELECT `+sqliteTaskColumns+` FROM tasks WHERE user_id = ? ORDER BY created_at DESC`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	return collectSQLiteTasks(rows)
}

// FindPlannable returns tasks eligible for the next planning run.
func (r *SQLiteTaskRepository) FindPlannable(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	rows, err := exec.QueryContext(ctx,
		`SELECT `+sqliteTaskColumns+` FROM tasks
		WHERE user_id = ?
		  AND (status IN ('backlog', 'scheduled', 'in_progress')
		       OR (status = 'snoozed' AND snoozed_until <= ?))
		ORDER BY created_at`,
		userID.String(), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("failed to list plannable tasks: %w", err)
	}
	defer rows.Close()

	return collectSQLiteTasks(rows)
}

// Delete removes a task.
func (r *SQLiteTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := persistence.SQLiteExecutor(ctx, r.db)
	result, err := exec.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func collectSQLiteTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func scanSQLiteTask(row rowScanner) (*domain.Task, error) {
	var (
		id, userID       string
		title            string
		priority         string
		due              sql.NullString
		estMin, minChunk int
		energy, window   string
		hardDeadline     int
		status           string
		snoozedUntil     sql.NullString
		created, updated string
	)
	err := row.Scan(&id, &userID, &title, &priority, &due, &estMin, &minChunk,
		&energy, &window, &hardDeadline, &status, &snoozedUntil, &created, &updated)
	if err != nil {
		return nil, err
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid task id: %w", err)
	}
	parsedUserID, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid task user id: %w", err)
	}
	dueTime, err := parseNullableTime(due)
	if err != nil {
		return nil, fmt.Errorf("invalid task due_ts: %w", err)
	}
	snoozedTime, err := parseNullableTime(snoozedUntil)
	if err != nil {
		return nil, fmt.Errorf("invalid task snoozed_until: %w", err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("invalid task created_at: %w", err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, updated)
	if err != nil {
		return nil, fmt.Errorf("invalid task updated_at: %w", err)
	}

	return domain.RehydrateTask(
		parsedID, parsedUserID, title,
		domain.Priority(priority), dueTime, estMin, minChunk,
		domain.Energy(energy), domain.Window(window),
		hardDeadline != 0, domain.Status(status), snoozedTime,
		createdAt, updatedAt,
	), nil
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseNullableTime(value sql.NullString) (*time.Time, error) {
	if !value.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, value.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
