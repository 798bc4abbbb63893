package models

import (
	"time"
)

// MaxCommentLength bounds comment bodies; enforced before any row is
// written.
const MaxCommentLength = 2000

// Comment represents a visitor comment on a project.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    string    `gorm:"not null;index" json:"user_id"`
	ProjectID uint      `gorm:"not null;index;constraint:OnDelete:CASCADE" json:"project_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	Project   Project   `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
