package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/atinyakov/moodpair/internal/models"
	"github.com/atinyakov/moodpair/internal/repository"
)

// SessionTTL is how long a session stays valid after login or
// registration: 7 days.
const SessionTTL = 7 * 24 * time.Hour

// UserRepository defines the user persistence operations required by
// the authentication service.
type UserRepository interface {
	// EmailExists returns true if a user with the given email exists.
	EmailExists(ctx context.Context, email string) (bool, error)
	// Create stores a new user record.
	Create(ctx context.Context, user models.User) error
	// FindByAccount looks a user up by exact email or username match.
	FindByAccount(ctx context.Context, account string) (*models.User, error)
	// FindByID fetches a single user by id.
	FindByID(ctx context.Context, id string) (*models.User, error)
	// SearchExcluding finds a user by exact email or username match,
	// skipping the given user id.
	SearchExcluding(ctx context.Context, query, excludeID string) (*models.User, error)
}

// SessionRepository defines the session persistence operations required
// by the authentication service.
type SessionRepository interface {
	Create(ctx context.Context, session models.Session) error
	Find(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// AuthService implements registration, login, logout, profile lookup,
// session resolution, and partner search.
type AuthService struct {
	users    UserRepository
	sessions SessionRepository
	// now is swappable for expiry tests.
	now func() time.Time
}

// NewAuthService constructs an AuthService over the given repositories.
func NewAuthService(users UserRepository, sessions SessionRepository) *AuthService {
	return &AuthService{users: users, sessions: sessions, now: time.Now}
}

// Register creates a user plus a fresh session. The email must be
// unused; the username, when given, must be unique as well.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, *models.Session, error) {
	if email == "" || password == "" {
		return nil, nil, BadRequest("Email and password required")
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, nil, Conflict("Email already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nil, Conflict("Email already exists")
		}
		return nil, nil, err
	}

	session, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return &user, session, nil
}

// Login verifies credentials for an email-or-username account value
// and opens a fresh session.
func (s *AuthService) Login(ctx context.Context, account, password string) (*models.User, *models.Session, error) {
	if account == "" || password == "" {
		return nil, nil, BadRequest("Account and password required")
	}

	user, err := s.users.FindByAccount(ctx, account)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, Unauthorized("User not found")
	}
	if err != nil {
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil, Unauthorized("Invalid password")
	}

	session, err := s.startSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

func (s *AuthService) startSession(ctx context.Context, userID string) (*models.Session, error) {
	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: s.now().Add(SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Logout deletes the session row. An empty or unknown token is a no-op.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// ResolveSessionUser maps an opaque session token to a user id.
// Absent, unknown, or expired tokens resolve to "" without error and
// without side effects; expiry is enforced only at read time.
func (s *AuthService) ResolveSessionUser(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", nil
	}
	session, err := s.sessions.Find(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if !s.now().Before(session.ExpiresAt) {
		return "", nil
	}
	return session.UserID, nil
}

// Profile returns the user behind an id, or nil (without error) when
// the id is empty or unknown. Guests get a null profile, not a 401.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, nil
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Search finds another user by exact email or username match. The
// searching user never matches themselves. A miss returns (nil, nil).
func (s *AuthService) Search(ctx context.Context, userID, query string) (*models.User, error) {
	if userID == "" || query == "" {
		return nil, nil
	}
	user, err := s.users.SearchExcluding(ctx, query, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
