package service

import (
	"context"

	"github.com/pe-odake/Portifolio-Web/internal/middleware"
	"github.com/pe-odake/Portifolio-Web/internal/models"
	"github.com/pe-odake/Portifolio-Web/internal/notifications"
	"github.com/pe-odake/Portifolio-Web/internal/observability"
	"github.com/pe-odake/Portifolio-Web/internal/repository"
)

type NotificationService struct {
	notificationRepo repository.NotificationRepository
	notifier         *notifications.Notifier
}

type NotifyInput struct {
	UserID  string
	Title   string
	Message string
	Type    string
}

// NotifyFunc is the capability sibling services use to emit notifications
// without depending on the full NotificationService.
type NotifyFunc func(ctx context.Context, in NotifyInput) error

type ListNotificationsInput struct {
	UserID     string
	OnlyUnread bool
	Limit      int
	Offset     int
}

type MarkReadInput struct {
	UserID         string
	NotificationID uint
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	notifier *notifications.Notifier,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		notifier:         notifier,
	}
}

// Notify appends a notification row and publishes it to the user's channel.
// Publishing is best-effort; the stored row is the source of truth.
func (s *NotificationService) Notify(ctx context.Context, in NotifyInput) (*models.Notification, error) {
	if in.UserID == "" {
		return nil, models.NewValidationError("Notification user is required")
	}
	if in.Title == "" {
		return nil, models.NewValidationError("Notification title is required")
	}

	notificationType := in.Type
	if notificationType == "" {
		notificationType = models.NotificationInfo
	}
	switch notificationType {
	case models.NotificationInfo, models.NotificationSuccess, models.NotificationWarning, models.NotificationError:
		// valid
	default:
		return nil, models.NewValidationError("Invalid notification type")
	}

	notification := &models.Notification{
		Title:   in.Title,
		Message: in.Message,
		Type:    notificationType,
		UserID:  in.UserID,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}
	observability.NotificationsPublished.WithLabelValues(notificationType).Inc()

	if err := s.notifier.PublishNotification(ctx, notification); err != nil {
		middleware.Logger.WarnContext(ctx, "Notification publish failed",
			"notification_id", notification.ID,
			"error", err,
		)
	}

	return notification, nil
}

// NotifyFn adapts Notify to the NotifyFunc capability shape.
func (s *NotificationService) NotifyFn() NotifyFunc {
	return func(ctx context.Context, in NotifyInput) error {
		_, err := s.Notify(ctx, in)
		return err
	}
}

func (s *NotificationService) List(ctx context.Context, in ListNotificationsInput) ([]*models.Notification, error) {
	return s.notificationRepo.List(ctx, in.UserID, in.OnlyUnread, in.Limit, in.Offset)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.notificationRepo.UnreadCount(ctx, userID)
}

// MarkRead marks one notification as read. Re-marking a read row is a
// no-op; touching another user's row is unauthorized.
func (s *NotificationService) MarkRead(ctx context.Context, in MarkReadInput) error {
	notification, err := s.notificationRepo.GetByID(ctx, in.NotificationID)
	if err != nil {
		return err
	}
	if notification.UserID != in.UserID {
		return models.NewUnauthorizedError("You can only manage your own notifications")
	}
	if notification.IsRead {
		return nil
	}
	return s.notificationRepo.MarkRead(ctx, in.NotificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
