package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/atinyakov/moodpair/internal/crypto"
	"github.com/atinyakov/moodpair/internal/models"
	"github.com/atinyakov/moodpair/internal/repository"
)

// DefaultSpaceName is used when the creator supplies no name.
const DefaultSpaceName = "Our Space"

// CoupleRepository defines the persistence operations needed by the CoupleService.
type CoupleRepository interface {
	ListSpacesForUser(ctx context.Context, userID string) ([]models.CoupleSpace, error)
	FindSpaceByPair(ctx context.Context, userID1, userID2 string) (*models.CoupleSpace, error)
	FindSpaceByID(ctx context.Context, id string) (*models.CoupleSpace, error)
	InsertSpace(ctx context.Context, space models.CoupleSpace) (*models.CoupleSpace, error)
	UpdateSpaceStatus(ctx context.Context, id, status string) (*models.CoupleSpace, error)
	UpdateSpaceName(ctx context.Context, id, name string) (*models.CoupleSpace, error)
	SoftDeleteSpace(ctx context.Context, id string) error

	ListMoodsBySpace(ctx context.Context, spaceID string, limit, offset int) ([]models.CoupleMoodRecord, error)
	FindMoodByID(ctx context.Context, id string) (*models.CoupleMoodRecord, error)
	InsertMood(ctx context.Context, rec models.CoupleMoodRecord) (*models.CoupleMoodRecord, error)
	UpdateMood(ctx context.Context, rec models.CoupleMoodRecord) (*models.CoupleMoodRecord, error)
	SoftDeleteMood(ctx context.Context, id string) error
}

// SpaceUpdate carries the mutually exclusive PATCH fields for a space.
type SpaceUpdate struct {
	Status    string
	SpaceName string
}

// CoupleService implements couple-space and shared mood-record
// operations. Every operation requires a session user.
type CoupleService struct {
	repo  CoupleRepository
	users UserRepository
	codec *crypto.Codec
}

// NewCoupleService constructs a CoupleService over the given
// repositories and field codec.
func NewCoupleService(repo CoupleRepository, users UserRepository, codec *crypto.Codec) *CoupleService {
	return &CoupleService{repo: repo, users: users, codec: codec}
}

func (s *CoupleService) isMember(space *models.CoupleSpace, userID string) bool {
	return space.UserID1 == userID || space.UserID2 == userID
}

// ListSpaces returns every space the user belongs to, pending ones
// included. Anonymous callers get an empty list.
func (s *CoupleService) ListSpaces(ctx context.Context, userID string) ([]models.CoupleSpace, error) {
	if userID == "" {
		return []models.CoupleSpace{}, nil
	}
	spaces, err := s.repo.ListSpacesForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if spaces == nil {
		spaces = []models.CoupleSpace{}
	}
	return spaces, nil
}

// CreateSpace invites a partner, found by exact email or username
// match, into a new pending space. Member ids are stored in sorted
// order so an unordered pair can hold at most one live space.
func (s *CoupleService) CreateSpace(ctx context.Context, userID, partnerEmail, partnerUsername, spaceName string) (*models.CoupleSpace, *models.User, error) {
	if userID == "" {
		return nil, nil, errAuthRequired
	}
	account := partnerEmail
	if account == "" {
		account = partnerUsername
	}
	if account == "" {
		return nil, nil, BadRequest("partner_email or partner_username is required")
	}

	partner, err := s.users.FindByAccount(ctx, account)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, NotFound("Partner user not found")
	}
	if err != nil {
		return nil, nil, err
	}
	if partner.ID == userID {
		return nil, nil, BadRequest("Cannot create space with yourself")
	}

	smaller, larger := userID, partner.ID
	if larger < smaller {
		smaller, larger = larger, smaller
	}

	if _, err := s.repo.FindSpaceByPair(ctx, smaller, larger); err == nil {
		return nil, nil, Conflict("A space already exists with this user")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, err
	}

	if spaceName == "" {
		spaceName = DefaultSpaceName
	}
	space := models.CoupleSpace{
		ID:            uuid.NewString(),
		UserID1:       smaller,
		UserID2:       larger,
		CreatorUserID: userID,
		Status:        models.SpacePending,
		SpaceName:     spaceName,
	}
	created, err := s.repo.InsertSpace(ctx, space)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, nil, Conflict("A space already exists with this user")
	}
	if err != nil {
		return nil, nil, err
	}
	return created, partner, nil
}

// UpdateSpace handles the two PATCH variants: a status transition by
// the invited member, or a rename by either member.
func (s *CoupleService) UpdateSpace(ctx context.Context, userID, spaceID string, update SpaceUpdate) (*models.CoupleSpace, error) {
	if userID == "" {
		return nil, errAuthRequired
	}
	if spaceID == "" {
		return nil, BadRequest("Space ID is required")
	}

	space, err := s.repo.FindSpaceByID(ctx, spaceID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Space not found")
	}
	if err != nil {
		return nil, err
	}
	if !s.isMember(space, userID) {
		return nil, Forbidden("You are not a member of this space")
	}

	if update.Status != "" {
		// Only the invited member decides, and only once.
		if space.CreatorUserID == userID {
			return nil, Forbidden("Cannot accept/reject your own invitation")
		}
		if space.Status != models.SpacePending {
			return nil, BadRequest("Space invitation already processed")
		}
		if update.Status != models.SpaceAccepted && update.Status != models.SpaceRejected {
			return nil, BadRequest("Invalid status value")
		}
		return s.repo.UpdateSpaceStatus(ctx, spaceID, update.Status)
	}

	if update.SpaceName != "" {
		return s.repo.UpdateSpaceName(ctx, spaceID, update.SpaceName)
	}

	return nil, BadRequest("No valid update fields provided")
}

// DeleteSpace soft-deletes a space; either member may do it.
func (s *CoupleService) DeleteSpace(ctx context.Context, userID, spaceID string) error {
	if userID == "" {
		return errAuthRequired
	}
	if spaceID == "" {
		return BadRequest("Space ID is required")
	}

	space, err := s.repo.FindSpaceByID(ctx, spaceID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Space not found")
	}
	if err != nil {
		return err
	}
	if !s.isMember(space, userID) {
		return Forbidden("You are not a member of this space")
	}

	err = s.repo.SoftDeleteSpace(ctx, spaceID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Space not found")
	}
	return err
}

// accessibleSpace loads a space and verifies the caller may touch its
// shared records: member of a live, accepted space. Anything else is
// indistinguishable from a missing space.
func (s *CoupleService) accessibleSpace(ctx context.Context, userID, spaceID string) (*models.CoupleSpace, error) {
	space, err := s.repo.FindSpaceByID(ctx, spaceID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Space not found or not accessible")
	}
	if err != nil {
		return nil, err
	}
	if space.Status != models.SpaceAccepted || !s.isMember(space, userID) {
		return nil, NotFound("Space not found or not accessible")
	}
	return space, nil
}

// checkRecordSpace guards edits to an existing shared record. Unlike
// the list/create path, a live accepted space with a non-member caller
// answers Forbidden here, not NotFound: the record id was valid, the
// caller just is not a party to it.
func (s *CoupleService) checkRecordSpace(ctx context.Context, userID, spaceID string) error {
	space, err := s.repo.FindSpaceByID(ctx, spaceID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Space not found or not accessible")
	}
	if err != nil {
		return err
	}
	if space.Status != models.SpaceAccepted {
		return NotFound("Space not found or not accessible")
	}
	if !s.isMember(space, userID) {
		return Forbidden("You are not a member of this space")
	}
	return nil
}

// ListMoods returns the newest shared records of an accessible space.
func (s *CoupleService) ListMoods(ctx context.Context, userID, spaceID string, limit, offset int) ([]models.CoupleMoodRecord, error) {
	if userID == "" {
		return nil, errAuthRequired
	}
	if spaceID == "" {
		return nil, BadRequest("space_id is required")
	}
	if _, err := s.accessibleSpace(ctx, userID, spaceID); err != nil {
		return nil, err
	}

	limit, offset = clampPage(limit, offset)
	records, err := s.repo.ListMoodsBySpace(ctx, spaceID, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Note = s.codec.OpenField("couple_mood_records", "note", records[i].Note)
	}
	if records == nil {
		records = []models.CoupleMoodRecord{}
	}
	return records, nil
}

// CreateMood stores a shared record in an accessible space.
func (s *CoupleService) CreateMood(ctx context.Context, userID, spaceID string, in MoodInput) (*models.CoupleMoodRecord, error) {
	if userID == "" {
		return nil, errAuthRequired
	}
	if spaceID == "" {
		return nil, BadRequest("space_id is required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.accessibleSpace(ctx, userID, spaceID); err != nil {
		return nil, err
	}

	rec := models.CoupleMoodRecord{
		ID:              uuid.NewString(),
		SpaceID:         spaceID,
		CreatedByUserID: userID,
		MoodType:        in.MoodType,
		Intensity:       in.Intensity,
		Note:            s.codec.SealField("couple_mood_records", "note", in.Note),
		Tags:            normalizeTags(in.Tags),
	}
	created, err := s.repo.InsertMood(ctx, rec)
	if err != nil {
		return nil, err
	}
	created.Note = in.Note
	return created, nil
}

// UpdateMood rewrites a shared record in place. Both members may edit
// any record in their space.
func (s *CoupleService) UpdateMood(ctx context.Context, userID, recordID string, in MoodInput) (*models.CoupleMoodRecord, error) {
	if userID == "" {
		return nil, errAuthRequired
	}
	if recordID == "" {
		return nil, BadRequest("Record ID is required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindMoodByID(ctx, recordID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Record not found")
	}
	if err != nil {
		return nil, err
	}
	if err := s.checkRecordSpace(ctx, userID, existing.SpaceID); err != nil {
		return nil, err
	}

	rec := models.CoupleMoodRecord{
		ID:        recordID,
		MoodType:  in.MoodType,
		Intensity: in.Intensity,
		Note:      s.codec.SealField("couple_mood_records", "note", in.Note),
		Tags:      normalizeTags(in.Tags),
	}
	updated, err := s.repo.UpdateMood(ctx, rec)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("Record not found")
	}
	if err != nil {
		return nil, err
	}
	updated.Note = in.Note
	return updated, nil
}

// DeleteMood soft-deletes a shared record; either member may do it.
func (s *CoupleService) DeleteMood(ctx context.Context, userID, recordID string) error {
	if userID == "" {
		return errAuthRequired
	}
	if recordID == "" {
		return BadRequest("Record ID is required")
	}

	existing, err := s.repo.FindMoodByID(ctx, recordID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Record not found")
	}
	if err != nil {
		return err
	}
	if err := s.checkRecordSpace(ctx, userID, existing.SpaceID); err != nil {
		return err
	}

	err = s.repo.SoftDeleteMood(ctx, recordID)
	if errors.Is(err, repository.ErrNotFound) {
		return NotFound("Record not found")
	}
	return err
}
