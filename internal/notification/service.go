package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/prodexy/opsboard-api/internal/models"
	"github.com/prodexy/opsboard-api/internal/push"
	"github.com/prodexy/opsboard-api/internal/repository"
	"github.com/rs/zerolog"
)

// Service owns the in-app notification inbox and hands push delivery work to
// the dispatch queue. Producers call the typed Notify* helpers right after
// their primary write commits; everything past that write is best effort.
type Service interface {
	NotifyRequestAssigned(ctx context.Context, userID string, request models.Request) error
	ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID string) (models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID, notificationID string) error
}

type service struct {
	repo   repository.NotificationRepository
	queue  push.Enqueuer
	logger zerolog.Logger
}

func NewService(repo repository.NotificationRepository, queue push.Enqueuer, logger zerolog.Logger) Service {
	return &service{
		repo:   repo,
		queue:  queue,
		logger: logger.With().Str("component", "notification_service").Logger(),
	}
}

// NotifyRequestAssigned writes one inbox row for the assignee and enqueues a
// push dispatch pointing at the request. The inbox write error is returned so
// the caller can log it, but by contract the caller never rolls anything back
// because of it.
func (s *service) NotifyRequestAssigned(ctx context.Context, userID string, request models.Request) error {
	title := fmt.Sprintf("Request assigned: %s", strings.TrimSpace(request.Title))
	relatedType := models.ReferenceTypeRequest

	_, err := s.repo.Create(ctx, repository.CreateNotificationParams{
		UserID:      userID,
		Type:        models.NotificationTypeRequestAssigned,
		Title:       title,
		Message:     fmt.Sprintf("You were assigned a %s priority request", request.Priority),
		RelatedID:   &request.ID,
		RelatedType: &relatedType,
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Str("request_id", request.ID).
			Msg("failed to persist notification")
		return err
	}

	s.queue.Enqueue(push.Job{
		UserID: userID,
		Title:  title,
		Body:   fmt.Sprintf("%s priority - %s", strings.ToUpper(string(request.Priority)), request.Type),
		URL:    "/dashboard/requests/" + request.ID,
	})
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *service) MarkRead(ctx context.Context, userID, notificationID string) (models.Notification, error) {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

func (s *service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *service) Delete(ctx context.Context, userID, notificationID string) error {
	return s.repo.Delete(ctx, userID, notificationID)
}
