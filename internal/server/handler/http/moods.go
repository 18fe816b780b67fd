package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/moodpair/internal/analytics"
	"github.com/atinyakov/moodpair/internal/middleware"
	"github.com/atinyakov/moodpair/internal/models"
	"github.com/atinyakov/moodpair/internal/service"
)

// MoodService defines the interface for personal mood-record
// operations required by the MoodHandler.
type MoodService interface {
	List(ctx context.Context, actor string, ok bool, limit, offset int) ([]models.MoodRecord, error)
	Create(ctx context.Context, userID string, in service.MoodInput) (*models.MoodRecord, error)
	Update(ctx context.Context, userID, recordID string, in service.MoodInput) (*models.MoodRecord, error)
	Delete(ctx context.Context, userID, recordID string) error
	Analytics(ctx context.Context, actor string, ok bool, year int, month time.Month) (analytics.Result, error)
}

// MoodHandler handles HTTP requests for personal mood records.
type MoodHandler struct {
	MoodService MoodService
}

// moodRequest is the JSON payload for creating or updating a record.
// Tags is raw so a wrong-typed value degrades to an empty list instead
// of failing the whole body.
type moodRequest struct {
	UserID    string          `json:"user_id"`
	MoodType  string          `json:"mood_type"`
	Intensity int             `json:"intensity"`
	Note      string          `json:"note"`
	Tags      json.RawMessage `json:"tags"`
}

func (req *moodRequest) input() service.MoodInput {
	return service.MoodInput{
		MoodType:  strings.TrimSpace(req.MoodType),
		Intensity: req.Intensity,
		Note:      strings.TrimSpace(req.Note),
		Tags:      decodeTags(req.Tags),
	}
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

// List handles GET /api/moods. Reads are permissive: an explicit
// user_id query parameter may stand in for the session, and anonymous
// callers get an empty list.
func (h *MoodHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := service.ResolveActor(
		r.URL.Query().Get("user_id"),
		middleware.GetUserIDFromContext(r.Context()),
	)

	items, err := h.MoodService.List(r.Context(), actor, ok, queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"items": items})
}

// Create handles POST /api/moods. Identity comes from the session
// alone; a user_id field in the body is ignored.
func (h *MoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	record, err := h.MoodService.Create(r.Context(), userID, req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"record": record})
}

// Update handles PUT /api/moods/{id} with full re-validation.
func (h *MoodHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	record, err := h.MoodService.Update(r.Context(), userID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"record": record})
}

// Delete handles DELETE /api/moods/{id}.
func (h *MoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	recordID := chi.URLParam(r, "id")

	if err := h.MoodService.Delete(r.Context(), userID, recordID); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"deleted_id": recordID})
}

// MonthlyAnalytics handles GET /api/moods/analytics?year=&month=.
// Missing parameters default to the current month.
func (h *MoodHandler) MonthlyAnalytics(w http.ResponseWriter, r *http.Request) {
	actor, ok := service.ResolveActor(
		r.URL.Query().Get("user_id"),
		middleware.GetUserIDFromContext(r.Context()),
	)

	result, err := h.MoodService.Analytics(r.Context(), actor, ok,
		queryInt(r, "year"), time.Month(queryInt(r, "month")))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, result)
}
