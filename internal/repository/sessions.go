package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/moodpair/internal/models"
)

// PostgresSessionRepository implements session persistence using a PostgreSQL database.
type PostgresSessionRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresSessionRepository creates a new PostgresSessionRepository using the provided *sql.DB.
func NewPostgresSessionRepository(db *sql.DB) *PostgresSessionRepository {
	return &PostgresSessionRepository{DB: db}
}

// Create stores a new session row.
func (r *PostgresSessionRepository) Create(ctx context.Context, session models.Session) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO user_sessions (id, user_id, expires_at) VALUES ($1, $2, $3)
	`, session.ID, session.UserID, session.ExpiresAt)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Find fetches a session by its token. Expiry is not enforced here;
// it is the resolver's concern at read time.
func (r *PostgresSessionRepository) Find(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, expires_at FROM user_sessions WHERE id = $1
	`, id).Scan(&session.ID, &session.UserID, &session.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &session, nil
}

// Delete removes a session row. Deleting an absent session is not an error.
func (r *PostgresSessionRepository) Delete(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM user_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
