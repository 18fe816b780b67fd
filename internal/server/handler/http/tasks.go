package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/moodpair/internal/middleware"
	"github.com/atinyakov/moodpair/internal/models"
	"github.com/atinyakov/moodpair/internal/service"
)

// TaskService defines the interface for daily-task operations required
// by the TaskHandler.
type TaskService interface {
	Create(ctx context.Context, userID, title, taskDate string) (*models.Task, error)
	ListByDate(ctx context.Context, actor string, ok bool, date string) ([]models.Task, error)
	ListMonth(ctx context.Context, actor string, ok bool, year int, month time.Month) ([]models.Task, error)
	SetDone(ctx context.Context, userID, taskID string, done bool) (*models.Task, error)
	Delete(ctx context.Context, userID, taskID string) error
}

// TaskHandler handles HTTP requests for daily tasks.
type TaskHandler struct {
	TaskService TaskService
}

// List handles GET /api/tasks?date=.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := service.ResolveActor(
		r.URL.Query().Get("user_id"),
		middleware.GetUserIDFromContext(r.Context()),
	)

	items, err := h.TaskService.ListByDate(r.Context(), actor, ok, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"items": items})
}

// ListMonth handles GET /api/tasks/month?year=&month=.
func (h *TaskHandler) ListMonth(w http.ResponseWriter, r *http.Request) {
	actor, ok := service.ResolveActor(
		r.URL.Query().Get("user_id"),
		middleware.GetUserIDFromContext(r.Context()),
	)

	tasks, err := h.TaskService.ListMonth(r.Context(), actor, ok,
		queryInt(r, "year"), time.Month(queryInt(r, "month")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"tasks": tasks})
}

// Create handles POST /api/tasks. Identity comes from the session alone.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    string `json:"title"`
		TaskDate string `json:"task_date"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	record, err := h.TaskService.Create(r.Context(), userID, strings.TrimSpace(req.Title), req.TaskDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"record": record})
}

// SetDone handles PATCH /api/tasks/{id}. Only the is_done boolean is
// mutable, and it must be present.
func (h *TaskHandler) SetDone(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IsDone *bool `json:"is_done"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.IsDone == nil {
		writeFail(w, http.StatusBadRequest, "is_done is required")
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	record, err := h.TaskService.SetDone(r.Context(), userID, chi.URLParam(r, "id"), *req.IsDone)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"record": record})
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	taskID := chi.URLParam(r, "id")

	if err := h.TaskService.Delete(r.Context(), userID, taskID); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"deleted_id": taskID})
}
