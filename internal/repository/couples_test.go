package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/atinyakov/moodpair/internal/models"
)

func setupCoupleMock(t *testing.T) (*PostgresCoupleRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresCoupleRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

var spaceCols = []string{"id", "user_id_1", "user_id_2", "creator_user_id", "status", "space_name", "created_at", "updated_at"}

func spaceRow(id, status string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(spaceCols).
		AddRow(id, "uA", "uB", "uA", status, "Our Space", now, now)
}

func TestFindSpaceByPair_NotFound(t *testing.T) {
	repo, mock, cleanup := setupCoupleMock(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .+ FROM couple_spaces").
		WithArgs("uA", "uB").
		WillReturnRows(sqlmock.NewRows(spaceCols))

	_, err := repo.FindSpaceByPair(context.Background(), "uA", "uB")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertSpace_DuplicatePair(t *testing.T) {
	repo, mock, cleanup := setupCoupleMock(t)
	defer cleanup()

	mock.ExpectQuery("INSERT INTO couple_spaces").
		WillReturnError(&pq.Error{Code: "23505"})

	space := models.CoupleSpace{ID: "s1", UserID1: "uA", UserID2: "uB", CreatorUserID: "uA", Status: models.SpacePending, SpaceName: "Our Space"}
	_, err := repo.InsertSpace(context.Background(), space)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestUpdateSpaceStatus_ReturnsUpdatedRow(t *testing.T) {
	repo, mock, cleanup := setupCoupleMock(t)
	defer cleanup()

	mock.ExpectQuery("UPDATE couple_spaces").
		WithArgs(models.SpaceAccepted, "s1").
		WillReturnRows(spaceRow("s1", models.SpaceAccepted))

	space, err := repo.UpdateSpaceStatus(context.Background(), "s1", models.SpaceAccepted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if space.Status != models.SpaceAccepted {
		t.Errorf("expected accepted, got %q", space.Status)
	}
}

func TestListMoodsBySpace_DecodesRows(t *testing.T) {
	repo, mock, cleanup := setupCoupleMock(t)
	defer cleanup()

	cols := []string{"id", "space_id", "created_by_user_id", "mood_type", "intensity", "note", "tags", "created_at"}
	rows := sqlmock.NewRows(cols).
		AddRow("r1", "s1", "uA", "happy", 6, "note", []byte(`[]`), time.Now())
	mock.ExpectQuery("SELECT .+ FROM couple_mood_records").
		WithArgs("s1", 50, 0).
		WillReturnRows(rows)

	records, err := repo.ListMoodsBySpace(context.Background(), "s1", 50, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0].CreatedByUserID != "uA" {
		t.Errorf("unexpected records: %+v", records)
	}
}

func TestSoftDeleteMood_ZeroRowsIsNotFound(t *testing.T) {
	repo, mock, cleanup := setupCoupleMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE couple_mood_records").
		WithArgs("r1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SoftDeleteMood(context.Background(), "r1")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSoftDeleteSpace_Success(t *testing.T) {
	repo, mock, cleanup := setupCoupleMock(t)
	defer cleanup()

	mock.ExpectExec("UPDATE couple_spaces").
		WithArgs("s1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SoftDeleteSpace(context.Background(), "s1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
