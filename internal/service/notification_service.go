package service

import (
	"context"

	"jokerclub/internal/models"
	"jokerclub/internal/repository"
)

// Notifier delivers a persisted notification to any connected clients.
// Publish must not block the caller's request path.
type Notifier interface {
	Publish(ctx context.Context, n *models.Notification)
}

type NotificationService struct {
	repo     repository.NotificationRepository
	notifier Notifier
}

func NewNotificationService(repo repository.NotificationRepository, notifier Notifier) *NotificationService {
	return &NotificationService{repo: repo, notifier: notifier}
}

// Publish persists a notification and fans it out to live connections. It
// implements Notifier so other services can emit through this one.
func (s *NotificationService) Publish(ctx context.Context, n *models.Notification) {
	if n.UserID == n.ActorID {
		return
	}
	if err := s.repo.Create(ctx, n); err != nil {
		// Notifications are best-effort; the triggering action already
		// succeeded.
		return
	}
	if s.notifier != nil {
		s.notifier.Publish(ctx, n)
	}
}

func (s *NotificationService) List(ctx context.Context, userID uint, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = defaultPageLimit
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, userID, notificationID uint) error {
	return s.repo.Delete(ctx, userID, notificationID)
}
