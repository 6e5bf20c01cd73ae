package notification

import (
	"context"
	"errors"
	"testing"

	"github.com/prodexy/opsboard-api/internal/models"
	"github.com/prodexy/opsboard-api/internal/push"
	"github.com/prodexy/opsboard-api/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotificationRepo struct {
	created   []repository.CreateNotificationParams
	createErr error
}

func (f *fakeNotificationRepo) Create(ctx context.Context, params repository.CreateNotificationParams) (models.Notification, error) {
	if f.createErr != nil {
		return models.Notification{}, f.createErr
	}
	f.created = append(f.created, params)
	return models.Notification{
		ID:      "notif-1",
		UserID:  params.UserID,
		Type:    params.Type,
		Title:   params.Title,
		Message: params.Message,
	}, nil
}

func (f *fakeNotificationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepo) MarkRead(ctx context.Context, userID, notificationID string) (models.Notification, error) {
	return models.Notification{}, nil
}

func (f *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func (f *fakeNotificationRepo) Delete(ctx context.Context, userID, notificationID string) error {
	return nil
}

type fakeEnqueuer struct {
	jobs []push.Job
	full bool
}

func (f *fakeEnqueuer) Enqueue(job push.Job) bool {
	if f.full {
		return false
	}
	f.jobs = append(f.jobs, job)
	return true
}

func assignedRequest() models.Request {
	return models.Request{
		ID:       "req-42",
		ClientID: "client-1",
		Title:    "Fix checkout timeout",
		Type:     models.RequestTypeBug,
		Priority: models.RequestPriorityUrgent,
		Status:   models.RequestStatusOpen,
	}
}

func TestNotifyRequestAssignedPersistsAndEnqueues(t *testing.T) {
	repo := &fakeNotificationRepo{}
	queue := &fakeEnqueuer{}
	svc := NewService(repo, queue, zerolog.Nop())

	err := svc.NotifyRequestAssigned(context.Background(), "user-7", assignedRequest())

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	created := repo.created[0]
	assert.Equal(t, "user-7", created.UserID)
	assert.Equal(t, models.NotificationTypeRequestAssigned, created.Type)
	require.NotNil(t, created.RelatedID)
	assert.Equal(t, "req-42", *created.RelatedID)
	require.NotNil(t, created.RelatedType)
	assert.Equal(t, models.ReferenceTypeRequest, *created.RelatedType)

	require.Len(t, queue.jobs, 1)
	job := queue.jobs[0]
	assert.Equal(t, "user-7", job.UserID)
	assert.Contains(t, job.Title, "Fix checkout timeout")
	assert.Equal(t, "/dashboard/requests/req-42", job.URL)
}

func TestNotifyRequestAssignedReturnsInboxWriteError(t *testing.T) {
	repo := &fakeNotificationRepo{createErr: errors.New("insert failed")}
	queue := &fakeEnqueuer{}
	svc := NewService(repo, queue, zerolog.Nop())

	err := svc.NotifyRequestAssigned(context.Background(), "user-7", assignedRequest())

	require.Error(t, err)
	assert.Empty(t, queue.jobs, "no push job without an inbox row")
}

func TestNotifyRequestAssignedToleratesFullQueue(t *testing.T) {
	repo := &fakeNotificationRepo{}
	queue := &fakeEnqueuer{full: true}
	svc := NewService(repo, queue, zerolog.Nop())

	err := svc.NotifyRequestAssigned(context.Background(), "user-7", assignedRequest())

	require.NoError(t, err)
	assert.Len(t, repo.created, 1)
}
