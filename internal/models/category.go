package models

import (
	"time"
)

// Category groups projects for browsing and filtering. Color is a hex
// value used by the presentation layer for badges.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"unique;not null" json:"name"`
	Color     string    `gorm:"not null;default:#6c757d" json:"color"`
	CreatedAt time.Time `json:"created_at"`

	Projects []Project `gorm:"foreignKey:CategoryID" json:"projects,omitempty"`
}
