package service

import (
	"context"
	"testing"

	"github.com/atinyakov/moodpair/internal/models"
	"github.com/atinyakov/moodpair/internal/repository"
)

// fakeCoupleRepo implements CoupleRepository for testing.
type fakeCoupleRepo struct {
	spaces        []models.CoupleSpace
	pairHit       *models.CoupleSpace
	byID          *models.CoupleSpace
	insertErr     error
	inserted      *models.CoupleSpace
	statusSet     string
	nameSet       string
	spaceDeleted  string
	moods         []models.CoupleMoodRecord
	moodByID      *models.CoupleMoodRecord
	moodInserted  *models.CoupleMoodRecord
	moodUpdateErr error
	moodDeleted   string
}

func (f *fakeCoupleRepo) ListSpacesForUser(ctx context.Context, userID string) ([]models.CoupleSpace, error) {
	return f.spaces, nil
}

func (f *fakeCoupleRepo) FindSpaceByPair(ctx context.Context, userID1, userID2 string) (*models.CoupleSpace, error) {
	if f.pairHit == nil {
		return nil, repository.ErrNotFound
	}
	return f.pairHit, nil
}

func (f *fakeCoupleRepo) FindSpaceByID(ctx context.Context, id string) (*models.CoupleSpace, error) {
	if f.byID == nil || f.byID.ID != id {
		return nil, repository.ErrNotFound
	}
	return f.byID, nil
}

func (f *fakeCoupleRepo) InsertSpace(ctx context.Context, space models.CoupleSpace) (*models.CoupleSpace, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.inserted = &space
	out := space
	return &out, nil
}

func (f *fakeCoupleRepo) UpdateSpaceStatus(ctx context.Context, id, status string) (*models.CoupleSpace, error) {
	f.statusSet = status
	out := *f.byID
	out.Status = status
	return &out, nil
}

func (f *fakeCoupleRepo) UpdateSpaceName(ctx context.Context, id, name string) (*models.CoupleSpace, error) {
	f.nameSet = name
	out := *f.byID
	out.SpaceName = name
	return &out, nil
}

func (f *fakeCoupleRepo) SoftDeleteSpace(ctx context.Context, id string) error {
	f.spaceDeleted = id
	return nil
}

func (f *fakeCoupleRepo) ListMoodsBySpace(ctx context.Context, spaceID string, limit, offset int) ([]models.CoupleMoodRecord, error) {
	return f.moods, nil
}

func (f *fakeCoupleRepo) FindMoodByID(ctx context.Context, id string) (*models.CoupleMoodRecord, error) {
	if f.moodByID == nil || f.moodByID.ID != id {
		return nil, repository.ErrNotFound
	}
	return f.moodByID, nil
}

func (f *fakeCoupleRepo) InsertMood(ctx context.Context, rec models.CoupleMoodRecord) (*models.CoupleMoodRecord, error) {
	f.moodInserted = &rec
	out := rec
	return &out, nil
}

func (f *fakeCoupleRepo) UpdateMood(ctx context.Context, rec models.CoupleMoodRecord) (*models.CoupleMoodRecord, error) {
	if f.moodUpdateErr != nil {
		return nil, f.moodUpdateErr
	}
	out := rec
	return &out, nil
}

func (f *fakeCoupleRepo) SoftDeleteMood(ctx context.Context, id string) error {
	f.moodDeleted = id
	return nil
}

func acceptedSpace(id string) *models.CoupleSpace {
	return &models.CoupleSpace{
		ID:            id,
		UserID1:       "uA",
		UserID2:       "uB",
		CreatorUserID: "uA",
		Status:        models.SpaceAccepted,
		SpaceName:     "Our Space",
	}
}

func pendingSpace(id string) *models.CoupleSpace {
	s := acceptedSpace(id)
	s.Status = models.SpacePending
	return s
}

func newCoupleService(t *testing.T, repo *fakeCoupleRepo, users *fakeUserRepo) *CoupleService {
	t.Helper()
	return NewCoupleService(repo, users, testCodec(t))
}

func TestCreateSpace_PartnerNotFound(t *testing.T) {
	svc := newCoupleService(t, &fakeCoupleRepo{}, &fakeUserRepo{})

	_, _, err := svc.CreateSpace(context.Background(), "uA", "ghost@b.c", "", "")
	wantKind(t, err, KindNotFound)
	if err.Error() != "Partner user not found" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestCreateSpace_SelfPairing(t *testing.T) {
	users := &fakeUserRepo{byAccount: &models.User{ID: "uA", Email: "a@b.c"}}
	svc := newCoupleService(t, &fakeCoupleRepo{}, users)

	_, _, err := svc.CreateSpace(context.Background(), "uA", "a@b.c", "", "")
	wantKind(t, err, KindBadRequest)
	if err.Error() != "Cannot create space with yourself" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestCreateSpace_PairAlreadyExists(t *testing.T) {
	users := &fakeUserRepo{byAccount: &models.User{ID: "uB"}}
	repo := &fakeCoupleRepo{pairHit: acceptedSpace("s1")}
	svc := newCoupleService(t, repo, users)

	_, _, err := svc.CreateSpace(context.Background(), "uA", "b@b.c", "", "")
	wantKind(t, err, KindConflict)
}

func TestCreateSpace_InsertRaceIsConflict(t *testing.T) {
	users := &fakeUserRepo{byAccount: &models.User{ID: "uB"}}
	repo := &fakeCoupleRepo{insertErr: repository.ErrDuplicate}
	svc := newCoupleService(t, repo, users)

	_, _, err := svc.CreateSpace(context.Background(), "uA", "b@b.c", "", "")
	wantKind(t, err, KindConflict)
}

func TestCreateSpace_SortsPairAndDefaultsName(t *testing.T) {
	users := &fakeUserRepo{byAccount: &models.User{ID: "uA", Email: "a@b.c"}}
	repo := &fakeCoupleRepo{}
	svc := newCoupleService(t, repo, users)

	// Creator uB invites uA: stored pair must still be (uA, uB).
	space, partner, err := svc.CreateSpace(context.Background(), "uB", "a@b.c", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.inserted.UserID1 != "uA" || repo.inserted.UserID2 != "uB" {
		t.Errorf("pair not stored sorted: (%s, %s)", repo.inserted.UserID1, repo.inserted.UserID2)
	}
	if space.CreatorUserID != "uB" || space.Status != models.SpacePending {
		t.Errorf("unexpected space: %+v", space)
	}
	if space.SpaceName != DefaultSpaceName {
		t.Errorf("expected default name, got %q", space.SpaceName)
	}
	if partner == nil || partner.ID != "uA" {
		t.Errorf("expected partner uA, got %+v", partner)
	}
}

func TestUpdateSpace_StatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		space   *models.CoupleSpace
		caller  string
		status  string
		kind    int
		message string
	}{
		{"creator cannot decide", pendingSpace("s1"), "uA", models.SpaceAccepted, KindForbidden, "Cannot accept/reject your own invitation"},
		{"already processed", acceptedSpace("s1"), "uB", models.SpaceRejected, KindBadRequest, "Space invitation already processed"},
		{"invalid status value", pendingSpace("s1"), "uB", "maybe", KindBadRequest, "Invalid status value"},
		{"non-member", pendingSpace("s1"), "uC", models.SpaceAccepted, KindForbidden, "You are not a member of this space"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeCoupleRepo{byID: tt.space}
			svc := newCoupleService(t, repo, &fakeUserRepo{})

			_, err := svc.UpdateSpace(context.Background(), tt.caller, "s1", SpaceUpdate{Status: tt.status})
			wantKind(t, err, tt.kind)
			if err.Error() != tt.message {
				t.Errorf("expected %q, got %q", tt.message, err.Error())
			}
		})
	}
}

func TestUpdateSpace_AcceptByInvitee(t *testing.T) {
	repo := &fakeCoupleRepo{byID: pendingSpace("s1")}
	svc := newCoupleService(t, repo, &fakeUserRepo{})

	space, err := svc.UpdateSpace(context.Background(), "uB", "s1", SpaceUpdate{Status: models.SpaceAccepted})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if space.Status != models.SpaceAccepted || repo.statusSet != models.SpaceAccepted {
		t.Errorf("status not applied: %+v", space)
	}
}

func TestUpdateSpace_RenameByEitherMember(t *testing.T) {
	repo := &fakeCoupleRepo{byID: acceptedSpace("s1")}
	svc := newCoupleService(t, repo, &fakeUserRepo{})

	space, err := svc.UpdateSpace(context.Background(), "uA", "s1", SpaceUpdate{SpaceName: "Us"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if space.SpaceName != "Us" {
		t.Errorf("rename not applied: %+v", space)
	}
}

func TestUpdateSpace_NoFields(t *testing.T) {
	repo := &fakeCoupleRepo{byID: acceptedSpace("s1")}
	svc := newCoupleService(t, repo, &fakeUserRepo{})

	_, err := svc.UpdateSpace(context.Background(), "uA", "s1", SpaceUpdate{})
	wantKind(t, err, KindBadRequest)
}

func TestDeleteSpace_NonMember(t *testing.T) {
	repo := &fakeCoupleRepo{byID: acceptedSpace("s1")}
	svc := newCoupleService(t, repo, &fakeUserRepo{})

	err := svc.DeleteSpace(context.Background(), "uC", "s1")
	wantKind(t, err, KindForbidden)
}

func TestListMoods_PendingSpaceIsHidden(t *testing.T) {
	repo := &fakeCoupleRepo{byID: pendingSpace("s1")}
	svc := newCoupleService(t, repo, &fakeUserRepo{})

	_, err := svc.ListMoods(context.Background(), "uA", "s1", 0, 0)
	wantKind(t, err, KindNotFound)
}

func TestListMoods_NonMemberSeesNotFound(t *testing.T) {
	// On the list path a non-member cannot even learn the space exists.
	repo := &fakeCoupleRepo{byID: acceptedSpace("s1")}
	svc := newCoupleService(t, repo, &fakeUserRepo{})

	_, err := svc.ListMoods(context.Background(), "uC", "s1", 0, 0)
	wantKind(t, err, KindNotFound)
}

func TestCreateMood_SealsNote(t *testing.T) {
	repo := &fakeCoupleRepo{byID: acceptedSpace("s1")}
	svc := newCoupleService(t, repo, &fakeUserRepo{})

	created, err := svc.CreateMood(context.Background(), "uB", "s1", MoodInput{
		MoodType:  "calm",
		Intensity: 4,
		Note:      "good evening",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.moodInserted.Note == "good evening" {
		t.Error("note must be sealed before storage")
	}
	if created.Note != "good evening" || created.CreatedByUserID != "uB" {
		t.Errorf("unexpected record: %+v", created)
	}
}

func TestUpdateMood_NonMemberIsForbidden(t *testing.T) {
	// On the edit path the record id was valid, so a non-member gets 403.
	repo := &fakeCoupleRepo{
		byID:     acceptedSpace("s1"),
		moodByID: &models.CoupleMoodRecord{ID: "r1", SpaceID: "s1"},
	}
	svc := newCoupleService(t, repo, &fakeUserRepo{})

	_, err := svc.UpdateMood(context.Background(), "uC", "r1", MoodInput{MoodType: "sad", Intensity: 2})
	wantKind(t, err, KindForbidden)
}

func TestUpdateMood_PendingSpaceIsNotFound(t *testing.T) {
	repo := &fakeCoupleRepo{
		byID:     pendingSpace("s1"),
		moodByID: &models.CoupleMoodRecord{ID: "r1", SpaceID: "s1"},
	}
	svc := newCoupleService(t, repo, &fakeUserRepo{})

	_, err := svc.UpdateMood(context.Background(), "uA", "r1", MoodInput{MoodType: "sad", Intensity: 2})
	wantKind(t, err, KindNotFound)
}

func TestDeleteMood_ByEitherMember(t *testing.T) {
	repo := &fakeCoupleRepo{
		byID:     acceptedSpace("s1"),
		moodByID: &models.CoupleMoodRecord{ID: "r1", SpaceID: "s1", CreatedByUserID: "uA"},
	}
	svc := newCoupleService(t, repo, &fakeUserRepo{})

	// uB did not create the record but shares the space.
	if err := svc.DeleteMood(context.Background(), "uB", "r1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.moodDeleted != "r1" {
		t.Errorf("expected r1 deleted, got %q", repo.moodDeleted)
	}
}

func TestDeleteMood_UnknownRecord(t *testing.T) {
	svc := newCoupleService(t, &fakeCoupleRepo{}, &fakeUserRepo{})

	err := svc.DeleteMood(context.Background(), "uA", "ghost")
	wantKind(t, err, KindNotFound)
}
