package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/atinyakov/moodpair/internal/middleware"
	"github.com/atinyakov/moodpair/internal/models"
)

// AuthService defines the interface for authentication operations
// required by the HTTP handlers.
type AuthService interface {
	// Register creates a user and opens a session.
	Register(ctx context.Context, email, username, password string) (*models.User, *models.Session, error)
	// Login verifies credentials for an email or username and opens a session.
	Login(ctx context.Context, account, password string) (*models.User, *models.Session, error)
	// Logout deletes the session row; unknown tokens are a no-op.
	Logout(ctx context.Context, sessionID string) error
	// Profile returns the user for an id, or nil when absent.
	Profile(ctx context.Context, userID string) (*models.User, error)
	// Search finds another user by exact email or username match.
	Search(ctx context.Context, userID, query string) (*models.User, error)
}

// AuthHandler handles HTTP requests for registration, login, logout,
// profile, and user search.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	// SecureCookies marks session cookies Secure (production only).
	SecureCookies bool
}

// sessionMaxAge is the cookie and session lifetime in seconds: 7 days.
const sessionMaxAge = 7 * 24 * 60 * 60

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func userPayload(user *models.User) map[string]any {
	return map[string]any{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"avatar_url": user.AvatarURL,
	}
}

func (h *AuthHandler) writeSessionResponse(w http.ResponseWriter, user *models.User, session *models.Session) {
	h.setSessionCookie(w, session.ID, sessionMaxAge)
	writeOK(w, map[string]any{
		"user":       userPayload(user),
		"session_id": session.ID,
		"expires_at": session.ExpiresAt,
	})
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, session, err := h.AuthService.Register(r.Context(),
		strings.TrimSpace(req.Email), strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeSessionResponse(w, user, session)
}

// Login handles POST /api/auth/login. The account field matches either
// email or username.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Account  string `json:"account"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, session, err := h.AuthService.Login(r.Context(), strings.TrimSpace(req.Account), req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	h.writeSessionResponse(w, user, session)
}

// Logout handles POST /api/auth/logout. It always succeeds, clearing
// the cookie even when no session exists.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.AuthService.Logout(r.Context(), cookie.Value); err != nil {
			writeError(w, err)
			return
		}
	}
	h.setSessionCookie(w, "", -1)
	writeOK(w, nil)
}

// Profile handles GET /api/auth/profile. Anonymous callers get a null
// user, not an error.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserIDFromContext(r.Context())

	user, err := h.AuthService.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeOK(w, map[string]any{"user": nil})
		return
	}
	writeOK(w, map[string]any{"user": userPayload(user)})
}

// Search handles GET /api/users/search?q=. It answers existence plus
// minimal identity, never credentials, and never matches the caller.
func (h *AuthHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	userID := middleware.GetUserIDFromContext(r.Context())

	user, err := h.AuthService.Search(r.Context(), userID, q)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		writeOK(w, map[string]any{"exists": false, "userId": nil})
		return
	}
	writeOK(w, map[string]any{
		"exists":   true,
		"userId":   user.ID,
		"email":    user.Email,
		"username": user.Username,
	})
}
