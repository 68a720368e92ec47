package notification

import (
	"charity_marketplace_backend/internal/common"

	"github.com/google/uuid"
)

// NotificationType defines the type of notification.
type NotificationType string

const (
	DonationReceived NotificationType = "donation_received"
	ProductExpired   NotificationType = "product_expired"
)

// Notification represents a user notification.
type Notification struct {
	common.BaseModel
	UserID            uuid.UUID        `gorm:"type:uuid;not null;index:idx_notification_user_status" json:"user_id"`
	Type              NotificationType `gorm:"type:varchar(50);not null" json:"type"`
	Message           string           `gorm:"type:text;not null" json:"message"`
	RelatedDonationID *uuid.UUID       `gorm:"type:uuid" json:"related_donation_id,omitempty"`
	RelatedProductID  *uuid.UUID       `gorm:"type:uuid" json:"related_product_id,omitempty"`
	IsRead            bool             `gorm:"not null;default:false;index:idx_notification_user_status" json:"is_read"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}

// MarkAllReadResponse is returned by POST /notifications/mark-all-read.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
