package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/moodpair/internal/models"
)

// PostgresUserRepository implements user persistence using a PostgreSQL database.
type PostgresUserRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository with the given database connection.
// db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{DB: db}
}

// EmailExists checks whether a user with the specified email exists.
func (r *PostgresUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`,
		email,
	).Scan(&exists)
	return exists, err
}

// Create inserts a new user row. Returns ErrDuplicate when the email or
// username is already taken.
func (r *PostgresUserRepository) Create(ctx context.Context, user models.User) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (id, email, username, password_hash)
		VALUES ($1, $2, NULLIF($3, ''), $4)
	`, user.ID, user.Email, user.Username, user.PasswordHash)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByAccount looks a user up by exact email or username match,
// including the password hash for credential verification.
func (r *PostgresUserRepository) FindByAccount(ctx context.Context, account string) (*models.User, error) {
	var user models.User
	var username, avatarURL sql.NullString
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, email, username, password_hash, avatar_url FROM users
		WHERE email = $1 OR username = $1
		LIMIT 1
	`, account).Scan(&user.ID, &user.Email, &username, &user.PasswordHash, &avatarURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by account: %w", err)
	}
	user.Username = username.String
	user.AvatarURL = avatarURL.String
	return &user, nil
}

// FindByID fetches a single user by id.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	var username, avatarURL sql.NullString
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, email, username, avatar_url FROM users WHERE id = $1
	`, id).Scan(&user.ID, &user.Email, &username, &avatarURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	user.Username = username.String
	user.AvatarURL = avatarURL.String
	return &user, nil
}

// SearchExcluding finds a user by exact email or username match,
// skipping the given user id. Used for partner lookup so callers can
// never "find" themselves.
func (r *PostgresUserRepository) SearchExcluding(ctx context.Context, query, excludeID string) (*models.User, error) {
	var user models.User
	var username sql.NullString
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, email, username FROM users
		WHERE (email = $1 OR username = $1) AND id <> $2
		LIMIT 1
	`, query, excludeID).Scan(&user.ID, &user.Email, &username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("search user: %w", err)
	}
	user.Username = username.String
	return &user, nil
}
