package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/moodpair/internal/crypto"
	"github.com/atinyakov/moodpair/internal/models"
	"github.com/atinyakov/moodpair/internal/repository"
)

// TaskRepository defines the persistence operations needed by the TaskService.
type TaskRepository interface {
	Insert(ctx context.Context, task models.Task) (*models.Task, error)
	ListByDate(ctx context.Context, userID, date string) ([]models.Task, error)
	ListMonth(ctx context.Context, userID, from, to string) ([]models.Task, error)
	SetDone(ctx context.Context, id, userID string, done bool) (*models.Task, error)
	SoftDelete(ctx context.Context, id, userID string) error
}

// TaskService implements daily-task operations.
type TaskService struct {
	repo  TaskRepository
	codec *crypto.Codec
}

// NewTaskService constructs a TaskService with the provided repository
// and field codec.
func NewTaskService(repo TaskRepository, codec *crypto.Codec) *TaskService {
	return &TaskService{repo: repo, codec: codec}
}

// parseTaskDate normalizes input to a pure YYYY-MM-DD date. Timestamps
// are truncated to their date part; time zones never shift the day.
func parseTaskDate(value string) (string, bool) {
	if len(value) < 10 {
		return "", false
	}
	date := value[:10]
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return "", false
	}
	return date, true
}

func (s *TaskService) openTitle(task *models.Task) {
	task.Title = s.codec.OpenField("daily_tasks", "title", task.Title)
}

// Create validates and stores a new task for the session user.
func (s *TaskService) Create(ctx context.Context, userID, title, taskDate string) (*models.Task, error) {
	if userID == "" {
		return nil, errAuthRequired
	}
	if title == "" {
		return nil, BadRequest("title is required")
	}
	date, ok := parseTaskDate(taskDate)
	if !ok {
		return nil, BadRequest("task_date is required")
	}

	task := models.Task{
		ID:       uuid.NewString(),
		UserID:   userID,
		Title:    s.codec.SealField("daily_tasks", "title", title),
		TaskDate: date,
	}
	created, err := s.repo.Insert(ctx, task)
	if err != nil {
		return nil, err
	}
	created.Title = title
	return created, nil
}

// ListByDate returns the actor's tasks for one calendar date.
// Anonymous callers get an empty list.
func (s *TaskService) ListByDate(ctx context.Context, actor string, ok bool, date string) ([]models.Task, error) {
	parsed, valid := parseTaskDate(date)
	if !valid {
		return nil, BadRequest("date is required")
	}
	if !ok {
		return []models.Task{}, nil
	}
	tasks, err := s.repo.ListByDate(ctx, actor, parsed)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		s.openTitle(&tasks[i])
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// ListMonth returns the actor's tasks for one calendar month.
// Anonymous callers get an empty list.
func (s *TaskService) ListMonth(ctx context.Context, actor string, ok bool, year int, month time.Month) ([]models.Task, error) {
	if year == 0 || month < time.January || month > time.December {
		return nil, BadRequest("year and month are required")
	}
	if !ok {
		return []models.Task{}, nil
	}

	from := fmt.Sprintf("%04d-%02d-01", year, int(month))
	next := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	to := next.Format("2006-01-02")

	tasks, err := s.repo.ListMonth(ctx, actor, from, to)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		s.openTitle(&tasks[i])
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// SetDone updates the is_done flag of an owned, live task.
func (s *TaskService) SetDone(ctx context.Context, userID, taskID string, done bool) (*models.Task, error) {
	if userID == "" {
		return nil, errAuthRequired
	}
	if taskID == "" {
		return nil, BadRequest("Task ID is required")
	}
	task, err := s.repo.SetDone(ctx, taskID, userID, done)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Task not found")
	}
	if err != nil {
		return nil, err
	}
	s.openTitle(task)
	return task, nil
}

// Delete soft-deletes an owned, live task.
func (s *TaskService) Delete(ctx context.Context, userID, taskID string) error {
	if userID == "" {
		return errAuthRequired
	}
	if taskID == "" {
		return BadRequest("Task ID is required")
	}
	err := s.repo.SoftDelete(ctx, taskID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Task not found")
	}
	return err
}
