package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prodexy/opsboard-api/internal/authz"
	"github.com/prodexy/opsboard-api/internal/models"
	"github.com/prodexy/opsboard-api/internal/push"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptionRepo struct {
	mu      sync.Mutex
	subs    []models.PushSubscription
	listErr error
	deleted []string
}

func (f *fakeSubscriptionRepo) Upsert(ctx context.Context, sub models.PushSubscription) (models.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.subs {
		if existing.UserID == sub.UserID && existing.Endpoint == sub.Endpoint {
			sub.ID = existing.ID
			sub.UpdatedAt = existing.UpdatedAt.Add(time.Second)
			f.subs[i] = sub
			return sub, nil
		}
	}
	sub.ID = "sub-1"
	f.subs = append(f.subs, sub)
	return sub, nil
}

func (f *fakeSubscriptionRepo) ListByUser(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.PushSubscription
	for _, sub := range f.subs {
		if sub.UserID == userID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (f *fakeSubscriptionRepo) DeleteByEndpoint(ctx context.Context, userID, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, endpoint)
	return nil
}

type stubSender struct {
	outcome push.Outcome
}

func (s *stubSender) Send(ctx context.Context, sub models.PushSubscription, payload push.Payload) (push.Outcome, error) {
	if s.outcome == push.TransientFailure {
		return s.outcome, errors.New("push service down")
	}
	return s.outcome, nil
}

func authedRequest(method, target, body, userID string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		req = req.WithContext(authz.WithIdentity(req.Context(), userID, models.RoleMember))
	}
	return req
}

func newPushHandler(repo *fakeSubscriptionRepo, sender push.Sender) *PushHandler {
	dispatcher := push.NewDispatcher(repo, sender, zerolog.Nop())
	return NewPushHandler(repo, dispatcher, "test-public-key", zerolog.Nop())
}

func TestSubscribeRequiresAuth(t *testing.T) {
	h := newPushHandler(&fakeSubscriptionRepo{}, &stubSender{})

	rec := httptest.NewRecorder()
	h.Subscribe(rec, authedRequest(http.MethodPost, "/api/push/subscribe", `{}`, ""))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubscribeRejectsIncompletePayload(t *testing.T) {
	h := newPushHandler(&fakeSubscriptionRepo{}, &stubSender{})

	body := `{"endpoint":"https://push.example/a","keys":{"p256dh":"","auth":"secret"}}`
	rec := httptest.NewRecorder()
	h.Subscribe(rec, authedRequest(http.MethodPost, "/api/push/subscribe", body, "user-1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubscribeStoresRegistration(t *testing.T) {
	repo := &fakeSubscriptionRepo{}
	h := newPushHandler(repo, &stubSender{})

	body := `{"endpoint":"https://push.example/a","keys":{"p256dh":"pk","auth":"secret"}}`
	rec := httptest.NewRecorder()
	h.Subscribe(rec, authedRequest(http.MethodPost, "/api/push/subscribe", body, "user-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, repo.subs, 1)
	assert.Equal(t, "user-1", repo.subs[0].UserID)
	assert.Equal(t, "https://push.example/a", repo.subs[0].Endpoint)

	var resp map[string]bool
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp["success"])
}

func TestSubscribeIsIdempotentPerEndpoint(t *testing.T) {
	repo := &fakeSubscriptionRepo{}
	h := newPushHandler(repo, &stubSender{})

	body := `{"endpoint":"https://push.example/a","keys":{"p256dh":"pk","auth":"secret"}}`
	rec := httptest.NewRecorder()
	h.Subscribe(rec, authedRequest(http.MethodPost, "/api/push/subscribe", body, "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	// Re-registering the same endpoint refreshes the keys, never duplicates.
	body = `{"endpoint":"https://push.example/a","keys":{"p256dh":"rotated","auth":"secret"}}`
	rec = httptest.NewRecorder()
	h.Subscribe(rec, authedRequest(http.MethodPost, "/api/push/subscribe", body, "user-1"))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, repo.subs, 1)
	assert.Equal(t, "rotated", repo.subs[0].P256dh)
}

func TestVAPIDPublicKey(t *testing.T) {
	h := newPushHandler(&fakeSubscriptionRepo{}, &stubSender{})

	rec := httptest.NewRecorder()
	h.VAPIDPublicKey(rec, httptest.NewRequest(http.MethodGet, "/api/push/vapid-public-key", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "test-public-key", resp["publicKey"])
}

func TestSendRequiresAuthAndTarget(t *testing.T) {
	h := newPushHandler(&fakeSubscriptionRepo{}, &stubSender{})

	rec := httptest.NewRecorder()
	h.Send(rec, authedRequest(http.MethodPost, "/api/push/send", `{"userId":"user-2"}`, ""))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = httptest.NewRecorder()
	h.Send(rec, authedRequest(http.MethodPost, "/api/push/send", `{"title":"hi"}`, "user-1"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendReportsNoSubscriptions(t *testing.T) {
	h := newPushHandler(&fakeSubscriptionRepo{}, &stubSender{})

	rec := httptest.NewRecorder()
	h.Send(rec, authedRequest(http.MethodPost, "/api/push/send", `{"userId":"user-2","title":"hi"}`, "user-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "no subscriptions", resp["message"])
}

func TestSendSucceedsDespiteDeliveryFailures(t *testing.T) {
	repo := &fakeSubscriptionRepo{subs: []models.PushSubscription{
		{UserID: "user-2", Endpoint: "https://push.example/a", P256dh: "pk", Auth: "secret"},
	}}
	h := newPushHandler(repo, &stubSender{outcome: push.TransientFailure})

	rec := httptest.NewRecorder()
	h.Send(rec, authedRequest(http.MethodPost, "/api/push/send", `{"userId":"user-2","title":"hi"}`, "user-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]bool
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp["success"])
}

func TestSendFailsWhenSubscriptionFetchFails(t *testing.T) {
	repo := &fakeSubscriptionRepo{listErr: errors.New("connection refused")}
	h := newPushHandler(repo, &stubSender{})

	rec := httptest.NewRecorder()
	h.Send(rec, authedRequest(http.MethodPost, "/api/push/send", `{"userId":"user-2","title":"hi"}`, "user-1"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Internal error", resp["error"])
}
