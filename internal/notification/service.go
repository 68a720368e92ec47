package notification

import (
	"context"

	"charity_marketplace_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines notification business logic.
type Service interface {
	// CreateNotification stores a notification for userID. relatedID points at the
	// donation or product the notification is about, depending on notifType.
	CreateNotification(ctx context.Context, userID uuid.UUID, notifType NotificationType, message string, relatedID *uuid.UUID) (*Notification, error)
	GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error)
	MarkNotificationAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error
	MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new notification service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		logger: logger.Named("NotificationService"),
	}
}

func (s *ServiceImplementation) CreateNotification(ctx context.Context, userID uuid.UUID, notifType NotificationType, message string, relatedID *uuid.UUID) (*Notification, error) {
	n := &Notification{
		UserID:  userID,
		Type:    notifType,
		Message: message,
	}
	switch notifType {
	case DonationReceived:
		n.RelatedDonationID = relatedID
	case ProductExpired:
		n.RelatedProductID = relatedID
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to create notification",
			zap.Error(err),
			zap.String("userID", userID.String()),
			zap.String("type", string(notifType)),
		)
		return nil, common.ErrInternalServer.WithDetails("Could not create notification.")
	}
	s.logger.Debug("Notification created", zap.String("notificationID", n.ID.String()), zap.String("type", string(notifType)))
	return n, nil
}

func (s *ServiceImplementation) GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]Notification, *common.Pagination, error) {
	notifications, pagination, err := s.repo.GetByUserID(ctx, userID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to get notifications", zap.Error(err), zap.String("userID", userID.String()))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve notifications.")
	}
	return notifications, pagination, nil
}

func (s *ServiceImplementation) MarkNotificationAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error {
	if err := s.repo.MarkAsRead(ctx, notificationID, userID); err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		s.logger.Error("Failed to mark notification as read", zap.Error(err), zap.String("notificationID", notificationID.String()))
		return common.ErrInternalServer.WithDetails("Could not mark notification as read.")
	}
	return nil
}

func (s *ServiceImplementation) MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to mark all notifications as read", zap.Error(err), zap.String("userID", userID.String()))
		return 0, common.ErrInternalServer.WithDetails("Could not mark all notifications as read.")
	}
	return count, nil
}
