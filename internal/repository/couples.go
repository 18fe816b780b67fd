package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/moodpair/internal/models"
)

// PostgresCoupleRepository implements couple-space and couple-mood
// persistence against a PostgreSQL database.
type PostgresCoupleRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sql.DB
}

// NewPostgresCoupleRepository creates a new PostgresCoupleRepository using the provided *sql.DB.
func NewPostgresCoupleRepository(db *sql.DB) *PostgresCoupleRepository {
	return &PostgresCoupleRepository{DB: db}
}

const spaceColumns = `id, user_id_1, user_id_2, creator_user_id, status, space_name, created_at, updated_at`

func scanSpace(row interface {
	Scan(dest ...any) error
}) (*models.CoupleSpace, error) {
	var space models.CoupleSpace
	err := row.Scan(&space.ID, &space.UserID1, &space.UserID2, &space.CreatorUserID,
		&space.Status, &space.SpaceName, &space.CreatedAt, &space.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &space, nil
}

// ListSpacesForUser returns every non-deleted space the user is a
// member of, newest first. Pending invitations are included so the
// client can render them.
func (r *PostgresCoupleRepository) ListSpacesForUser(ctx context.Context, userID string) ([]models.CoupleSpace, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+spaceColumns+` FROM couple_spaces
		WHERE is_deleted = false AND (user_id_1 = $1 OR user_id_2 = $1)
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list spaces: %w", err)
	}
	defer rows.Close()

	var spaces []models.CoupleSpace
	for rows.Next() {
		space, err := scanSpace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		spaces = append(spaces, *space)
	}
	return spaces, rows.Err()
}

// FindSpaceByPair fetches the non-deleted space for a canonical
// (sorted) member pair, any status.
func (r *PostgresCoupleRepository) FindSpaceByPair(ctx context.Context, userID1, userID2 string) (*models.CoupleSpace, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+spaceColumns+` FROM couple_spaces
		WHERE is_deleted = false AND user_id_1 = $1 AND user_id_2 = $2
	`, userID1, userID2)
	space, err := scanSpace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find space by pair: %w", err)
	}
	return space, nil
}

// FindSpaceByID fetches a non-deleted space by id.
func (r *PostgresCoupleRepository) FindSpaceByID(ctx context.Context, id string) (*models.CoupleSpace, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+spaceColumns+` FROM couple_spaces
		WHERE is_deleted = false AND id = $1
	`, id)
	space, err := scanSpace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find space: %w", err)
	}
	return space, nil
}

// InsertSpace stores a new pending space and returns it with
// database-assigned timestamps. Returns ErrDuplicate when the pair
// already has a space.
func (r *PostgresCoupleRepository) InsertSpace(ctx context.Context, space models.CoupleSpace) (*models.CoupleSpace, error) {
	row := r.DB.QueryRowContext(ctx, `
		INSERT INTO couple_spaces (id, user_id_1, user_id_2, creator_user_id, status, space_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+spaceColumns+`
	`, space.ID, space.UserID1, space.UserID2, space.CreatorUserID, space.Status, space.SpaceName)
	created, err := scanSpace(row)
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	if err != nil {
		return nil, fmt.Errorf("insert space: %w", err)
	}
	return created, nil
}

// UpdateSpaceStatus transitions a live space to the given status.
func (r *PostgresCoupleRepository) UpdateSpaceStatus(ctx context.Context, id, status string) (*models.CoupleSpace, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE couple_spaces
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND is_deleted = false
		RETURNING `+spaceColumns+`
	`, status, id)
	space, err := scanSpace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update space status: %w", err)
	}
	return space, nil
}

// UpdateSpaceName renames a live space.
func (r *PostgresCoupleRepository) UpdateSpaceName(ctx context.Context, id, name string) (*models.CoupleSpace, error) {
	row := r.DB.QueryRowContext(ctx, `
		UPDATE couple_spaces
		SET space_name = $1, updated_at = NOW()
		WHERE id = $2 AND is_deleted = false
		RETURNING `+spaceColumns+`
	`, name, id)
	space, err := scanSpace(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update space name: %w", err)
	}
	return space, nil
}

// SoftDeleteSpace marks a space deleted. Zero rows affected surfaces
// as ErrNotFound.
func (r *PostgresCoupleRepository) SoftDeleteSpace(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE couple_spaces
		SET is_deleted = true, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND is_deleted = false
	`, id)
	if err != nil {
		return fmt.Errorf("delete space: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete space: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

const coupleMoodColumns = `id, space_id, created_by_user_id, mood_type, intensity, COALESCE(note, ''), tags, created_at`

func (r *PostgresCoupleRepository) scanCoupleMood(row interface {
	Scan(dest ...any) error
}) (*models.CoupleMoodRecord, error) {
	var rec models.CoupleMoodRecord
	var tags []byte
	err := row.Scan(&rec.ID, &rec.SpaceID, &rec.CreatedByUserID, &rec.MoodType,
		&rec.Intensity, &rec.Note, &tags, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	rec.Tags = decodeTags(tags)
	return &rec, nil
}

// ListMoodsBySpace returns the newest non-deleted shared records for a
// space, paginated.
func (r *PostgresCoupleRepository) ListMoodsBySpace(ctx context.Context, spaceID string, limit, offset int) ([]models.CoupleMoodRecord, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+coupleMoodColumns+` FROM couple_mood_records
		WHERE is_deleted = false AND space_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, spaceID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list couple moods: %w", err)
	}
	defer rows.Close()

	var records []models.CoupleMoodRecord
	for rows.Next() {
		rec, err := r.scanCoupleMood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// FindMoodByID fetches a non-deleted shared record by id.
func (r *PostgresCoupleRepository) FindMoodByID(ctx context.Context, id string) (*models.CoupleMoodRecord, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT `+coupleMoodColumns+` FROM couple_mood_records
		WHERE is_deleted = false AND id = $1
	`, id)
	rec, err := r.scanCoupleMood(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find couple mood: %w", err)
	}
	return rec, nil
}

// InsertMood stores a new shared record.
func (r *PostgresCoupleRepository) InsertMood(ctx context.Context, rec models.CoupleMoodRecord) (*models.CoupleMoodRecord, error) {
	tags, err := encodeTags(rec.Tags)
	if err != nil {
		return nil, err
	}
	err = r.DB.QueryRowContext(ctx, `
		INSERT INTO couple_mood_records (id, space_id, created_by_user_id, mood_type, intensity, note, tags)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7::jsonb)
		RETURNING created_at
	`, rec.ID, rec.SpaceID, rec.CreatedByUserID, rec.MoodType, rec.Intensity, rec.Note, tags).Scan(&rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert couple mood: %w", err)
	}
	return &rec, nil
}

// UpdateMood rewrites the mutable fields of a live shared record in
// place. Membership is the service's concern; this matches by id only.
func (r *PostgresCoupleRepository) UpdateMood(ctx context.Context, rec models.CoupleMoodRecord) (*models.CoupleMoodRecord, error) {
	tags, err := encodeTags(rec.Tags)
	if err != nil {
		return nil, err
	}
	row := r.DB.QueryRowContext(ctx, `
		UPDATE couple_mood_records
		SET mood_type = $1, intensity = $2, note = NULLIF($3, ''), tags = $4::jsonb, updated_at = NOW()
		WHERE id = $5 AND is_deleted = false
		RETURNING `+coupleMoodColumns+`
	`, rec.MoodType, rec.Intensity, rec.Note, tags, rec.ID)
	updated, err := r.scanCoupleMood(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update couple mood: %w", err)
	}
	return updated, nil
}

// SoftDeleteMood marks a shared record deleted. Zero rows affected
// surfaces as ErrNotFound.
func (r *PostgresCoupleRepository) SoftDeleteMood(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE couple_mood_records
		SET is_deleted = true, deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND is_deleted = false
	`, id)
	if err != nil {
		return fmt.Errorf("delete couple mood: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete couple mood: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
