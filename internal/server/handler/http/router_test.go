package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/moodpair/internal/analytics"
	"github.com/atinyakov/moodpair/internal/middleware"
	"github.com/atinyakov/moodpair/internal/models"
	"github.com/atinyakov/moodpair/internal/service"
)

// fakeResolver maps session tokens straight to user ids.
type fakeResolver map[string]string

func (f fakeResolver) ResolveSessionUser(ctx context.Context, token string) (string, error) {
	return f[token], nil
}

// fakeAuthService returns canned values for every auth operation.
type fakeAuthService struct {
	user      *models.User
	session   *models.Session
	err       error
	profile   *models.User
	searchHit *models.User
	loggedOut string
}

func (f *fakeAuthService) Register(ctx context.Context, email, username, password string) (*models.User, *models.Session, error) {
	return f.user, f.session, f.err
}

func (f *fakeAuthService) Login(ctx context.Context, account, password string) (*models.User, *models.Session, error) {
	return f.user, f.session, f.err
}

func (f *fakeAuthService) Logout(ctx context.Context, sessionID string) error {
	f.loggedOut = sessionID
	return nil
}

func (f *fakeAuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	if userID == "" {
		return nil, nil
	}
	return f.profile, nil
}

func (f *fakeAuthService) Search(ctx context.Context, userID, query string) (*models.User, error) {
	if userID == "" || query == "" {
		return nil, nil
	}
	return f.searchHit, nil
}

// fakeMoodService records the identity each call saw.
type fakeMoodService struct {
	err       error
	record    *models.MoodRecord
	listActor string
	listOK    bool
	createdBy string
	deletedBy string
}

func (f *fakeMoodService) List(ctx context.Context, actor string, ok bool, limit, offset int) ([]models.MoodRecord, error) {
	f.listActor, f.listOK = actor, ok
	if f.err != nil {
		return nil, f.err
	}
	return []models.MoodRecord{}, nil
}

func (f *fakeMoodService) Create(ctx context.Context, userID string, in service.MoodInput) (*models.MoodRecord, error) {
	f.createdBy = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func (f *fakeMoodService) Update(ctx context.Context, userID, recordID string, in service.MoodInput) (*models.MoodRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func (f *fakeMoodService) Delete(ctx context.Context, userID, recordID string) error {
	f.deletedBy = userID
	return f.err
}

func (f *fakeMoodService) Analytics(ctx context.Context, actor string, ok bool, year int, month time.Month) (analytics.Result, error) {
	f.listActor, f.listOK = actor, ok
	if f.err != nil {
		return analytics.Result{}, f.err
	}
	return analytics.Build(nil, 2025, time.March), nil
}

type fakeTaskService struct {
	err  error
	task *models.Task
	done *bool
}

func (f *fakeTaskService) Create(ctx context.Context, userID, title, taskDate string) (*models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.task, nil
}

func (f *fakeTaskService) ListByDate(ctx context.Context, actor string, ok bool, date string) ([]models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Task{}, nil
}

func (f *fakeTaskService) ListMonth(ctx context.Context, actor string, ok bool, year int, month time.Month) ([]models.Task, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.Task{}, nil
}

func (f *fakeTaskService) SetDone(ctx context.Context, userID, taskID string, done bool) (*models.Task, error) {
	f.done = &done
	if f.err != nil {
		return nil, f.err
	}
	return f.task, nil
}

func (f *fakeTaskService) Delete(ctx context.Context, userID, taskID string) error {
	return f.err
}

type fakeCoupleService struct {
	err     error
	space   *models.CoupleSpace
	partner *models.User
	record  *models.CoupleMoodRecord
}

func (f *fakeCoupleService) ListSpaces(ctx context.Context, userID string) ([]models.CoupleSpace, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.CoupleSpace{}, nil
}

func (f *fakeCoupleService) CreateSpace(ctx context.Context, userID, partnerEmail, partnerUsername, spaceName string) (*models.CoupleSpace, *models.User, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.space, f.partner, nil
}

func (f *fakeCoupleService) UpdateSpace(ctx context.Context, userID, spaceID string, update service.SpaceUpdate) (*models.CoupleSpace, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.space, nil
}

func (f *fakeCoupleService) DeleteSpace(ctx context.Context, userID, spaceID string) error {
	return f.err
}

func (f *fakeCoupleService) ListMoods(ctx context.Context, userID, spaceID string, limit, offset int) ([]models.CoupleMoodRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.CoupleMoodRecord{}, nil
}

func (f *fakeCoupleService) CreateMood(ctx context.Context, userID, spaceID string, in service.MoodInput) (*models.CoupleMoodRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func (f *fakeCoupleService) UpdateMood(ctx context.Context, userID, recordID string, in service.MoodInput) (*models.CoupleMoodRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

func (f *fakeCoupleService) DeleteMood(ctx context.Context, userID, recordID string) error {
	return f.err
}

type testDeps struct {
	auth    *fakeAuthService
	moods   *fakeMoodService
	tasks   *fakeTaskService
	couples *fakeCoupleService
}

// newTestServer mounts the full router over fakes. The resolver knows
// one live token: "tok" for user "u1".
func newTestServer(deps testDeps) http.Handler {
	if deps.auth == nil {
		deps.auth = &fakeAuthService{}
	}
	if deps.moods == nil {
		deps.moods = &fakeMoodService{}
	}
	if deps.tasks == nil {
		deps.tasks = &fakeTaskService{}
	}
	if deps.couples == nil {
		deps.couples = &fakeCoupleService{}
	}
	return NewRouter(
		&AuthHandler{AuthService: deps.auth},
		&MoodHandler{MoodService: deps.moods},
		&TaskHandler{TaskService: deps.tasks},
		&CoupleHandler{CoupleService: deps.couples},
		fakeResolver{"tok": "u1"},
		zap.NewNop(),
	)
}

func doJSON(t *testing.T, handler http.Handler, method, target, body, sessionToken string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: sessionToken})
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func postPlainText(t *testing.T, handler http.Handler, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return env
}
