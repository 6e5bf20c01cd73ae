package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prodexy/opsboard-api/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRequestRepo struct {
	requests map[string]models.Request
}

func newFakeRequestRepo(requests ...models.Request) *fakeRequestRepo {
	repo := &fakeRequestRepo{requests: map[string]models.Request{}}
	for _, req := range requests {
		repo.requests[req.ID] = req
	}
	return repo
}

func (f *fakeRequestRepo) Create(ctx context.Context, request models.Request) (models.Request, error) {
	request.ID = "req-new"
	f.requests[request.ID] = request
	return request, nil
}

func (f *fakeRequestRepo) List(ctx context.Context) ([]models.Request, error) {
	var out []models.Request
	for _, req := range f.requests {
		out = append(out, req)
	}
	return out, nil
}

func (f *fakeRequestRepo) Get(ctx context.Context, requestID string) (models.Request, error) {
	req, ok := f.requests[requestID]
	if !ok {
		return models.Request{}, sql.ErrNoRows
	}
	return req, nil
}

func (f *fakeRequestRepo) UpdateStatus(ctx context.Context, requestID string, status models.RequestStatus) (models.Request, error) {
	req, ok := f.requests[requestID]
	if !ok {
		return models.Request{}, sql.ErrNoRows
	}
	req.Status = status
	f.requests[requestID] = req
	return req, nil
}

func (f *fakeRequestRepo) Assign(ctx context.Context, requestID, userID string) (models.Request, error) {
	req, ok := f.requests[requestID]
	if !ok {
		return models.Request{}, sql.ErrNoRows
	}
	req.AssignedTo = &userID
	f.requests[requestID] = req
	return req, nil
}

func (f *fakeRequestRepo) ListUrgentOpen(ctx context.Context, limit int) ([]models.Request, error) {
	return nil, nil
}

func (f *fakeRequestRepo) AddComment(ctx context.Context, comment models.RequestComment) (models.RequestComment, error) {
	comment.ID = "comment-1"
	return comment, nil
}

func (f *fakeRequestRepo) ListComments(ctx context.Context, requestID string) ([]models.RequestComment, error) {
	return nil, nil
}

type fakeNotificationService struct {
	notifyErr     error
	notified      []string
	listLimit     int
	notifications []models.Notification
	markReadErr   error
	markedAll     bool
}

func (f *fakeNotificationService) NotifyRequestAssigned(ctx context.Context, userID string, request models.Request) error {
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.notified = append(f.notified, userID)
	return nil
}

func (f *fakeNotificationService) ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	f.listLimit = limit
	return f.notifications, nil
}

func (f *fakeNotificationService) MarkRead(ctx context.Context, userID, notificationID string) (models.Notification, error) {
	if f.markReadErr != nil {
		return models.Notification{}, f.markReadErr
	}
	for _, n := range f.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.IsRead = true
			return n, nil
		}
	}
	return models.Notification{}, sql.ErrNoRows
}

func (f *fakeNotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	f.markedAll = true
	return int64(len(f.notifications)), nil
}

func (f *fakeNotificationService) Delete(ctx context.Context, userID, notificationID string) error {
	return nil
}

func openRequest(id string) models.Request {
	return models.Request{
		ID:       id,
		ClientID: "client-1",
		Title:    "Fix checkout timeout",
		Type:     models.RequestTypeBug,
		Priority: models.RequestPriorityHigh,
		Status:   models.RequestStatusOpen,
	}
}

func TestCreateRequestWithAssigneeNotifies(t *testing.T) {
	repo := newFakeRequestRepo()
	notifier := &fakeNotificationService{}
	h := NewRequestHandler(repo, notifier, zerolog.Nop())

	body := `{"client_id":"client-1","title":"Fix checkout timeout","type":"bug","priority":"high","assigned_to":"user-7"}`
	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/requests", body, "user-1"))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, []string{"user-7"}, notifier.notified)
}

func TestCreateRequestWithoutAssigneeDoesNotNotify(t *testing.T) {
	repo := newFakeRequestRepo()
	notifier := &fakeNotificationService{}
	h := NewRequestHandler(repo, notifier, zerolog.Nop())

	body := `{"client_id":"client-1","title":"Fix checkout timeout","type":"bug","priority":"high"}`
	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/requests", body, "user-1"))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Empty(t, notifier.notified)
}

func TestCreateRequestRejectsUnknownType(t *testing.T) {
	h := NewRequestHandler(newFakeRequestRepo(), &fakeNotificationService{}, zerolog.Nop())

	body := `{"client_id":"client-1","title":"Broken","type":"outage","priority":"high"}`
	rec := httptest.NewRecorder()
	h.Create(rec, authedRequest(http.MethodPost, "/api/requests", body, "user-1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAssignPersistsEvenWhenNotificationFails(t *testing.T) {
	repo := newFakeRequestRepo(openRequest("req-1"))
	notifier := &fakeNotificationService{notifyErr: errors.New("inbox write failed")}
	h := NewRequestHandler(repo, notifier, zerolog.Nop())

	req := authedRequest(http.MethodPost, "/api/requests/req-1/assign", `{"user_id":"user-7"}`, "user-1")
	req = mux.SetURLVars(req, map[string]string{"requestID": "req-1"})
	rec := httptest.NewRecorder()
	h.Assign(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.Request
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.NotNil(t, resp.AssignedTo)
	assert.Equal(t, "user-7", *resp.AssignedTo)

	stored, err := repo.Get(context.Background(), "req-1")
	require.NoError(t, err)
	require.NotNil(t, stored.AssignedTo)
	assert.Equal(t, "user-7", *stored.AssignedTo)
}

func TestAssignUnknownRequestReturns404(t *testing.T) {
	h := NewRequestHandler(newFakeRequestRepo(), &fakeNotificationService{}, zerolog.Nop())

	req := authedRequest(http.MethodPost, "/api/requests/missing/assign", `{"user_id":"user-7"}`, "user-1")
	req = mux.SetURLVars(req, map[string]string{"requestID": "missing"})
	rec := httptest.NewRecorder()
	h.Assign(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateStatusValidatesTransitionTarget(t *testing.T) {
	repo := newFakeRequestRepo(openRequest("req-1"))
	h := NewRequestHandler(repo, &fakeNotificationService{}, zerolog.Nop())

	req := authedRequest(http.MethodPut, "/api/requests/req-1/status", `{"status":"archived"}`, "user-1")
	req = mux.SetURLVars(req, map[string]string{"requestID": "req-1"})
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = authedRequest(http.MethodPut, "/api/requests/req-1/status", `{"status":"in_progress"}`, "user-1")
	req = mux.SetURLVars(req, map[string]string{"requestID": "req-1"})
	rec = httptest.NewRecorder()
	h.UpdateStatus(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	stored, _ := repo.Get(context.Background(), "req-1")
	assert.Equal(t, models.RequestStatusInProgress, stored.Status)
}
