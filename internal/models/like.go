package models

import (
	"time"
)

// Like represents a user's like on a project.
// The combination of UserID and ProjectID must be unique. Likes are
// hard-deleted on toggle-off so a later toggle-on reinserts cleanly
// against the unique index.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"not null;uniqueIndex:idx_user_project" json:"user_id"`
	ProjectID uint      `gorm:"not null;uniqueIndex:idx_user_project;constraint:OnDelete:CASCADE" json:"project_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User    User    `gorm:"foreignKey:UserID" json:"user"`
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
