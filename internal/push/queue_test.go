package push

import (
	"context"
	"testing"
	"time"

	"github.com/prodexy/opsboard-api/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueEnqueueDropsWhenFull(t *testing.T) {
	repo := &fakeSubscriptionRepo{}
	dispatcher := NewDispatcher(repo, &fakeSender{}, zerolog.Nop())
	queue := NewQueue(dispatcher, 1, zerolog.Nop())

	// The worker is not running, so the buffer fills after one job.
	assert.True(t, queue.Enqueue(Job{UserID: "user-1", Title: "first"}))
	assert.False(t, queue.Enqueue(Job{UserID: "user-1", Title: "second"}))
}

func TestQueueWorkerDrainsJobs(t *testing.T) {
	repo := &fakeSubscriptionRepo{subs: []models.PushSubscription{
		subscription("user-1", "https://push.example/a"),
	}}
	sender := &fakeSender{}
	dispatcher := NewDispatcher(repo, sender, zerolog.Nop())
	queue := NewQueue(dispatcher, 4, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		queue.Run(ctx)
		close(done)
	}()

	require.True(t, queue.Enqueue(Job{UserID: "user-1", Title: "hello", Body: "world"}))

	require.Eventually(t, func() bool {
		sender.mu.Lock()
		defer sender.mu.Unlock()
		return len(sender.calls) == 1
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}

func TestQueueWorkerSurvivesDispatchFailure(t *testing.T) {
	repo := &fakeSubscriptionRepo{listErr: assert.AnError}
	dispatcher := NewDispatcher(repo, &fakeSender{}, zerolog.Nop())
	queue := NewQueue(dispatcher, 4, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go queue.Run(ctx)

	require.True(t, queue.Enqueue(Job{UserID: "user-1", Title: "first"}))

	// The worker must still accept and process later jobs.
	require.Eventually(t, func() bool {
		return queue.Enqueue(Job{UserID: "user-1", Title: "later"})
	}, time.Second, 10*time.Millisecond)
}
