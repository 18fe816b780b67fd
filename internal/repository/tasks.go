package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/moodpair/internal/models"
)

// PostgresTaskRepository implements daily-task persistence against a PostgreSQL database.
type PostgresTaskRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresTaskRepository creates a new PostgresTaskRepository using the provided *sql.DB.
func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{DB: db}
}

func scanTask(row interface {
	Scan(dest ...any) error
}) (*models.Task, error) {
	var task models.Task
	var taskDate time.Time
	err := row.Scan(&task.ID, &task.UserID, &task.Title, &taskDate, &task.IsDone, &task.CreatedAt)
	if err != nil {
		return nil, err
	}
	task.TaskDate = taskDate.Format("2006-01-02")
	return &task, nil
}

// Insert stores a new task and returns it with database-assigned fields.
func (r *PostgresTaskRepository) Insert(ctx context.Context, task models.Task) (*models.Task, error) {
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO daily_tasks (id, user_id, title, task_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, title, task_date, is_done, created_at
	`, task.ID, task.UserID, task.Title, task.TaskDate)
	created, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return created, nil
}

// ListByDate returns the user's non-deleted tasks for one calendar
// date, oldest first.
func (r *PostgresTaskRepository) ListByDate(ctx context.Context, userID, date string) ([]models.Task, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, title, task_date, is_done, created_at
		FROM daily_tasks
		WHERE is_deleted = false AND user_id = $1 AND task_date = $2
		ORDER BY created_at ASC
	`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// ListMonth returns the user's non-deleted tasks with task_date in
// [from, to), ordered by date.
func (r *PostgresTaskRepository) ListMonth(ctx context.Context, userID, from, to string) ([]models.Task, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, title, task_date, is_done, created_at
		FROM daily_tasks
		WHERE is_deleted = false AND user_id = $1
		  AND task_date >= $2 AND task_date < $3
		ORDER BY task_date ASC
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list month tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// SetDone flips the is_done flag on the caller's live task and returns
// the updated row. Returns ErrNotFound when no matching row exists.
func (r *PostgresTaskRepository) SetDone(ctx context.Context, id, userID string, done bool) (*models.Task, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE daily_tasks
		SET is_done = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3 AND is_deleted = false
		RETURNING id, user_id, title, task_date, is_done, created_at
	`, done, id, userID)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

// SoftDelete marks the caller's task deleted. Zero rows affected
// surfaces as ErrNotFound.
func (r *PostgresTaskRepository) SoftDelete(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE daily_tasks
		SET is_deleted = true, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_deleted = false
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
