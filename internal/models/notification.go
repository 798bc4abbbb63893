package models

import (
	"time"
)

// Notification severities used by the presentation layer.
const (
	NotificationInfo    = "info"
	NotificationSuccess = "success"
	NotificationWarning = "warning"
	NotificationError   = "error"
)

// Notification is a per-user message created by interaction events
// (likes, comments). The service layer only ever appends rows and flips
// IsRead; the notified user never creates their own.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"not null;default:info" json:"type"`
	IsRead    bool      `gorm:"not null;default:false;index" json:"is_read"`
	UserID    string    `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
