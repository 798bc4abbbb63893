package models

import (
	"time"
)

// Tag labels projects; the association to projects is many-to-many
// through ProjectTag.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"unique;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ProjectTag is the join row between projects and tags. The composite
// key guarantees at most one row per pair, and rows go away with either
// side. Registered with SetupJoinTable so gorm routes the Tags
// association through it.
type ProjectTag struct {
	ProjectID uint      `gorm:"primaryKey;constraint:OnDelete:CASCADE" json:"project_id"`
	TagID     uint      `gorm:"primaryKey;constraint:OnDelete:CASCADE" json:"tag_id"`
	CreatedAt time.Time `json:"created_at"`
}
