package push

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prodexy/opsboard-api/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubscriptionRepo struct {
	mu      sync.Mutex
	subs    []models.PushSubscription
	listErr error
	delErr  error
	deleted []string
}

func (f *fakeSubscriptionRepo) Upsert(ctx context.Context, sub models.PushSubscription) (models.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs = append(f.subs, sub)
	return sub, nil
}

func (f *fakeSubscriptionRepo) ListByUser(ctx context.Context, userID string) ([]models.PushSubscription, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.PushSubscription, 0, len(f.subs))
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
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, endpoint)
	kept := f.subs[:0]
	for _, sub := range f.subs {
		if sub.UserID != userID || sub.Endpoint != endpoint {
			kept = append(kept, sub)
		}
	}
	f.subs = kept
	return nil
}

// fakeSender classifies outcomes per endpoint and can simulate slow transports.
type fakeSender struct {
	mu       sync.Mutex
	calls    []string
	payloads []Payload
	outcomes map[string]Outcome
	delay    time.Duration
}

func (f *fakeSender) Send(ctx context.Context, sub models.PushSubscription, payload Payload) (Outcome, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	f.calls = append(f.calls, sub.Endpoint)
	f.payloads = append(f.payloads, payload)
	f.mu.Unlock()
	outcome, ok := f.outcomes[sub.Endpoint]
	if !ok {
		return Delivered, nil
	}
	if outcome == TransientFailure {
		return outcome, errors.New("push service unavailable")
	}
	return outcome, nil
}

func subscription(userID, endpoint string) models.PushSubscription {
	return models.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   "p256dh-key",
		Auth:     "auth-secret",
	}
}

func TestDispatchNoRecipientsIsNoOp(t *testing.T) {
	repo := &fakeSubscriptionRepo{}
	sender := &fakeSender{}
	dispatcher := NewDispatcher(repo, sender, zerolog.Nop())

	result, err := dispatcher.Dispatch(context.Background(), "user-1", "title", "body", "")

	require.NoError(t, err)
	assert.True(t, result.NoRecipients())
	assert.Empty(t, sender.calls)
}

func TestDispatchAttemptsEveryEndpointConcurrently(t *testing.T) {
	repo := &fakeSubscriptionRepo{subs: []models.PushSubscription{
		subscription("user-1", "https://push.example/a"),
		subscription("user-1", "https://push.example/b"),
		subscription("user-1", "https://push.example/c"),
		subscription("user-2", "https://push.example/other"),
	}}
	sender := &fakeSender{delay: 100 * time.Millisecond}
	dispatcher := NewDispatcher(repo, sender, zerolog.Nop())

	start := time.Now()
	result, err := dispatcher.Dispatch(context.Background(), "user-1", "title", "body", "")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 3, result.Recipients)
	assert.Equal(t, 3, result.Delivered)
	assert.Len(t, sender.calls, 3)
	assert.NotContains(t, sender.calls, "https://push.example/other")

	// Sequential attempts would take at least 300ms.
	assert.Less(t, elapsed, 250*time.Millisecond, "attempts should run concurrently")
}

func TestDispatchRemovesGoneEndpointOnly(t *testing.T) {
	repo := &fakeSubscriptionRepo{subs: []models.PushSubscription{
		subscription("user-1", "https://push.example/live"),
		subscription("user-1", "https://push.example/dead"),
	}}
	sender := &fakeSender{outcomes: map[string]Outcome{
		"https://push.example/dead": EndpointGone,
	}}
	dispatcher := NewDispatcher(repo, sender, zerolog.Nop())

	result, err := dispatcher.Dispatch(context.Background(), "user-1", "title", "body", "")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Delivered)
	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, []string{"https://push.example/dead"}, repo.deleted)

	remaining, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "https://push.example/live", remaining[0].Endpoint)
}

func TestDispatchKeepsSubscriptionOnTransientFailure(t *testing.T) {
	repo := &fakeSubscriptionRepo{subs: []models.PushSubscription{
		subscription("user-1", "https://push.example/flaky"),
	}}
	sender := &fakeSender{outcomes: map[string]Outcome{
		"https://push.example/flaky": TransientFailure,
	}}
	dispatcher := NewDispatcher(repo, sender, zerolog.Nop())

	result, err := dispatcher.Dispatch(context.Background(), "user-1", "title", "body", "")

	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, repo.deleted)
}

func TestDispatchPropagatesSubscriptionFetchFailure(t *testing.T) {
	repo := &fakeSubscriptionRepo{listErr: errors.New("connection refused")}
	dispatcher := NewDispatcher(repo, &fakeSender{}, zerolog.Nop())

	_, err := dispatcher.Dispatch(context.Background(), "user-1", "title", "body", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch push subscriptions")
}

func TestDispatchDefaultsPayloadURL(t *testing.T) {
	repo := &fakeSubscriptionRepo{subs: []models.PushSubscription{
		subscription("user-1", "https://push.example/a"),
	}}
	sender := &fakeSender{}
	dispatcher := NewDispatcher(repo, sender, zerolog.Nop())

	_, err := dispatcher.Dispatch(context.Background(), "user-1", "Invoice created", "body", "")

	require.NoError(t, err)
	require.Len(t, sender.payloads, 1)
	assert.Equal(t, DefaultURL, sender.payloads[0].Data.URL)
	assert.Equal(t, "/icon-192.png", sender.payloads[0].Icon)
}
