package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/atinyakov/moodpair/internal/middleware"
	"github.com/atinyakov/moodpair/internal/models"
	"github.com/atinyakov/moodpair/internal/service"
)

// CoupleService defines the interface for couple-space and shared
// mood-record operations required by the CoupleHandler.
type CoupleService interface {
	ListSpaces(ctx context.Context, userID string) ([]models.CoupleSpace, error)
	CreateSpace(ctx context.Context, userID, partnerEmail, partnerUsername, spaceName string) (*models.CoupleSpace, *models.User, error)
	UpdateSpace(ctx context.Context, userID, spaceID string, update service.SpaceUpdate) (*models.CoupleSpace, error)
	DeleteSpace(ctx context.Context, userID, spaceID string) error

	ListMoods(ctx context.Context, userID, spaceID string, limit, offset int) ([]models.CoupleMoodRecord, error)
	CreateMood(ctx context.Context, userID, spaceID string, in service.MoodInput) (*models.CoupleMoodRecord, error)
	UpdateMood(ctx context.Context, userID, recordID string, in service.MoodInput) (*models.CoupleMoodRecord, error)
	DeleteMood(ctx context.Context, userID, recordID string) error
}

// CoupleHandler handles HTTP requests for couple spaces and their
// shared mood records. All routes here derive identity from the
// session only.
type CoupleHandler struct {
	CoupleService CoupleService
}

// ListSpaces handles GET /api/couple-spaces. Pending invitations are
// included; anonymous callers get an empty list.
func (h *CoupleHandler) ListSpaces(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	items, err := h.CoupleService.ListSpaces(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"items": items})
}

// CreateSpace handles POST /api/couple-spaces.
func (h *CoupleHandler) CreateSpace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PartnerEmail    string `json:"partner_email"`
		PartnerUsername string `json:"partner_username"`
		SpaceName       string `json:"space_name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	space, partner, err := h.CoupleService.CreateSpace(r.Context(), userID,
		strings.TrimSpace(req.PartnerEmail),
		strings.TrimSpace(req.PartnerUsername),
		strings.TrimSpace(req.SpaceName))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"space": map[string]any{
		"id":               space.ID,
		"user_id_1":        space.UserID1,
		"user_id_2":        space.UserID2,
		"creator_user_id":  space.CreatorUserID,
		"status":           space.Status,
		"space_name":       space.SpaceName,
		"created_at":       space.CreatedAt,
		"partner_email":    partner.Email,
		"partner_username": partner.Username,
	}})
}

// UpdateSpace handles PATCH /api/couple-spaces/{id}: either a status
// transition by the invited member or a rename by either member.
func (h *CoupleHandler) UpdateSpace(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status    string `json:"status"`
		SpaceName string `json:"space_name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	space, err := h.CoupleService.UpdateSpace(r.Context(), userID, chi.URLParam(r, "id"), service.SpaceUpdate{
		Status:    strings.TrimSpace(req.Status),
		SpaceName: strings.TrimSpace(req.SpaceName),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"space": space})
}

// DeleteSpace handles DELETE /api/couple-spaces/{id}.
func (h *CoupleHandler) DeleteSpace(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	spaceID := chi.URLParam(r, "id")

	if err := h.CoupleService.DeleteSpace(r.Context(), userID, spaceID); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"deleted_id": spaceID})
}

// ListMoods handles GET /api/couple-moods?space_id=.
func (h *CoupleHandler) ListMoods(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	items, err := h.CoupleService.ListMoods(r.Context(), userID,
		r.URL.Query().Get("space_id"), queryInt(r, "limit"), queryInt(r, "offset"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"items": items})
}

// CreateMood handles POST /api/couple-moods.
func (h *CoupleHandler) CreateMood(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SpaceID string `json:"space_id"`
		moodRequest
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	record, err := h.CoupleService.CreateMood(r.Context(), userID,
		strings.TrimSpace(req.SpaceID), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"record": record})
}

// UpdateMood handles PUT /api/couple-moods/{id}.
func (h *CoupleHandler) UpdateMood(w http.ResponseWriter, r *http.Request) {
	var req moodRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := middleware.GetUserIDFromContext(r.Context())
	record, err := h.CoupleService.UpdateMood(r.Context(), userID, chi.URLParam(r, "id"), req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"record": record})
}

// DeleteMood handles DELETE /api/couple-moods/{id}.
func (h *CoupleHandler) DeleteMood(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())
	recordID := chi.URLParam(r, "id")

	if err := h.CoupleService.DeleteMood(r.Context(), userID, recordID); err != nil {
		writeError(w, err)
		return
	}
	writeOK(w, map[string]any{"deleted_id": recordID})
}
