package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/atinyakov/moodpair/internal/models"
)

// PostgresMoodRepository implements mood-record persistence against a PostgreSQL database.
type PostgresMoodRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresMoodRepository creates a new PostgresMoodRepository using the provided *sql.DB.
func NewPostgresMoodRepository(db *sql.DB) *PostgresMoodRepository {
	return &PostgresMoodRepository{DB: db}
}

// encodeTags marshals tags for a JSONB column. nil becomes [].
func encodeTags(tags []string) ([]byte, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	return data, nil
}

// decodeTags unmarshals a JSONB tags column; anything unreadable
// degrades to an empty list.
func decodeTags(raw []byte) []string {
	var tags []string
	if len(raw) == 0 || json.Unmarshal(raw, &tags) != nil || tags == nil {
		return []string{}
	}
	return tags
}

// List returns the newest non-deleted records for a user, paginated.
func (r *PostgresMoodRepository) List(ctx context.Context, userID string, limit, offset int) ([]models.MoodRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, mood_type, intensity, COALESCE(note, ''), tags, created_at
		FROM mood_records
		WHERE is_deleted = false AND user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list moods: %w", err)
	}
	defer rows.Close()

	var records []models.MoodRecord
	for rows.Next() {
		var rec models.MoodRecord
		var tags []byte
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.MoodType, &rec.Intensity, &rec.Note, &tags, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec.Tags = decodeTags(tags)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListRange returns non-deleted records created within [from, to),
// oldest first. Used by the analytics aggregator.
func (r *PostgresMoodRepository) ListRange(ctx context.Context, userID string, from, to time.Time) ([]models.MoodRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, mood_type, intensity, COALESCE(note, ''), tags, created_at
		FROM mood_records
		WHERE is_deleted = false AND user_id = $1
		  AND created_at >= $2 AND created_at < $3
		ORDER BY created_at ASC
	`, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list mood range: %w", err)
	}
	defer rows.Close()

	var records []models.MoodRecord
	for rows.Next() {
		var rec models.MoodRecord
		var tags []byte
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.MoodType, &rec.Intensity, &rec.Note, &tags, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		rec.Tags = decodeTags(tags)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Insert stores a new record and returns it with the database-assigned
// created_at.
func (r *PostgresMoodRepository) Insert(ctx context.Context, rec models.MoodRecord) (*models.MoodRecord, error) {
	tags, err := encodeTags(rec.Tags)
	if err != nil {
		return nil, err
	}
	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO mood_records (id, user_id, mood_type, intensity, note, tags)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6::jsonb)
		RETURNING created_at
	`, rec.ID, rec.UserID, rec.MoodType, rec.Intensity, rec.Note, tags).Scan(&rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert mood: %w", err)
	}
	return &rec, nil
}

// Update rewrites mood_type, intensity, note, and tags of the caller's
// live record in place. Returns ErrNotFound when no matching row exists.
func (r *PostgresMoodRepository) Update(ctx context.Context, rec models.MoodRecord) (*models.MoodRecord, error) {
	tags, err := encodeTags(rec.Tags)
	if err != nil {
		return nil, err
	}
	err = r.DB.QueryRowContext(ctx, `
		UPDATE mood_records
		SET mood_type = $1, intensity = $2, note = NULLIF($3, ''), tags = $4::jsonb, updated_at = NOW()
		WHERE id = $5 AND user_id = $6 AND is_deleted = false
		RETURNING created_at
	`, rec.MoodType, rec.Intensity, rec.Note, tags, rec.ID, rec.UserID).Scan(&rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update mood: %w", err)
	}
	return &rec, nil
}

// SoftDelete marks the caller's record deleted. Zero rows affected
// surfaces as ErrNotFound rather than silent success.
func (r *PostgresMoodRepository) SoftDelete(ctx context.Context, id, userID string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE mood_records
		SET is_deleted = true, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_deleted = false
	`, id, userID)
	if err != nil {
		return fmt.Errorf("delete mood: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete mood: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
