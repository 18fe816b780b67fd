package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/atinyakov/moodpair/internal/analytics"
	"github.com/atinyakov/moodpair/internal/crypto"
	"github.com/atinyakov/moodpair/internal/models"
	"github.com/atinyakov/moodpair/internal/repository"
)

// DefaultListLimit applies when the caller sends no or a non-positive
// limit.
const DefaultListLimit = 50

// MoodRepository defines the persistence operations needed by the MoodService.
type MoodRepository interface {
	List(ctx context.Context, userID string, limit, offset int) ([]models.MoodRecord, error)
	ListRange(ctx context.Context, userID string, from, to time.Time) ([]models.MoodRecord, error)
	Insert(ctx context.Context, rec models.MoodRecord) (*models.MoodRecord, error)
	// Update rewrites the record in place; ErrNotFound when the
	// caller has no live row with that id.
	Update(ctx context.Context, rec models.MoodRecord) (*models.MoodRecord, error)
	SoftDelete(ctx context.Context, id, userID string) error
}

// MoodInput is the caller-supplied portion of a mood record.
type MoodInput struct {
	MoodType  string
	Intensity int
	Note      string
	Tags      []string
}

// validate enforces the create/update rules shared by both paths.
func (in MoodInput) validate() error {
	if in.MoodType == "" {
		return BadRequest("mood_type is required")
	}
	if in.Intensity < 1 || in.Intensity > 10 {
		return BadRequest("intensity must be between 1 and 10")
	}
	return nil
}

// normalizeTags coerces absent tags to an empty list.
func normalizeTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

// MoodService implements personal mood-record operations.
type MoodService struct {
	repo  MoodRepository
	codec *crypto.Codec
}

// NewMoodService constructs a MoodService with the provided repository
// and field codec.
func NewMoodService(repo MoodRepository, codec *crypto.Codec) *MoodService {
	return &MoodService{repo: repo, codec: codec}
}

// clampPage coerces limit/offset into sane bounds.
func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// List returns the actor's records, newest first. Anonymous callers
// get an empty list; only mutations are gated.
func (s *MoodService) List(ctx context.Context, actor string, ok bool, limit, offset int) ([]models.MoodRecord, error) {
	if !ok {
		return []models.MoodRecord{}, nil
	}
	limit, offset = clampPage(limit, offset)
	records, err := s.repo.List(ctx, actor, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Note = s.codec.OpenField("mood_records", "note", records[i].Note)
	}
	if records == nil {
		records = []models.MoodRecord{}
	}
	return records, nil
}

// Create validates and stores a new record for the session user.
func (s *MoodService) Create(ctx context.Context, userID string, in MoodInput) (*models.MoodRecord, error) {
	if userID == "" {
		return nil, errAuthRequired
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	rec := models.MoodRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		MoodType:  in.MoodType,
		Intensity: in.Intensity,
		Note:      s.codec.SealField("mood_records", "note", in.Note),
		Tags:      normalizeTags(in.Tags),
	}
	created, err := s.repo.Insert(ctx, rec)
	if err != nil {
		return nil, err
	}
	created.Note = in.Note
	return created, nil
}

// Update rewrites an owned, live record in place after full
// re-validation. Identity comes from the session alone.
func (s *MoodService) Update(ctx context.Context, userID, recordID string, in MoodInput) (*models.MoodRecord, error) {
	if userID == "" {
		return nil, errAuthRequired
	}
	if recordID == "" {
		return nil, BadRequest("Record ID is required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	rec := models.MoodRecord{
		ID:        recordID,
		UserID:    userID,
		MoodType:  in.MoodType,
		Intensity: in.Intensity,
		Note:      s.codec.SealField("mood_records", "note", in.Note),
		Tags:      normalizeTags(in.Tags),
	}
	updated, err := s.repo.Update(ctx, rec)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Record not found")
	}
	if err != nil {
		return nil, err
	}
	updated.Note = in.Note
	return updated, nil
}

// Delete soft-deletes an owned, live record. A row that is already
// deleted or belongs to someone else surfaces as NotFound.
func (s *MoodService) Delete(ctx context.Context, userID, recordID string) error {
	if userID == "" {
		return errAuthRequired
	}
	if recordID == "" {
		return BadRequest("Record ID is required")
	}
	err := s.repo.SoftDelete(ctx, recordID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Record not found")
	}
	return err
}

// Analytics aggregates the actor's records for one calendar month.
// Anonymous callers get the empty-month shape.
func (s *MoodService) Analytics(ctx context.Context, actor string, ok bool, year int, month time.Month) (analytics.Result, error) {
	if year == 0 || month == 0 {
		now := time.Now().UTC()
		year, month = now.Year(), now.Month()
	}
	if month < time.January || month > time.December {
		return analytics.Result{}, BadRequest("month must be between 1 and 12")
	}

	if !ok {
		return analytics.Build(nil, year, month), nil
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	records, err := s.repo.ListRange(ctx, actor, from, to)
	if err != nil {
		return analytics.Result{}, err
	}

	input := make([]analytics.Record, len(records))
	for i, rec := range records {
		input[i] = analytics.Record{
			MoodType:  rec.MoodType,
			Intensity: rec.Intensity,
			CreatedAt: rec.CreatedAt,
		}
	}
	return analytics.Build(input, year, month), nil
}
