package models

import (
	"time"
)

// Project lifecycle states.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// Project represents a portfolio entry.
//
// LikesCount and CommentsCount are materialized aggregates: they are
// recomputed from the likes/comments tables inside the same transaction
// that mutates those tables, never adjusted independently.
type Project struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	Content     string `gorm:"type:text" json:"content"`
	GithubURL   string `json:"github_url,omitempty"`
	DemoURL     string `json:"demo_url,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Status      string `gorm:"not null;default:draft;index" json:"status"`
	Featured    bool   `gorm:"not null;default:false;index" json:"featured"`

	Views         int `gorm:"not null;default:0" json:"views"`
	LikesCount    int `gorm:"not null;default:0" json:"likes_count"`
	CommentsCount int `gorm:"not null;default:0" json:"comments_count"`

	AuthorID   string    `gorm:"not null;index" json:"author_id"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"author"`
	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Tags       []Tag     `gorm:"many2many:project_tags" json:"tags,omitempty"`

	// Liked indicates whether the current requesting user liked this project (computed)
	Liked bool `gorm:"->;-:migration" json:"liked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPublished reports whether the project is publicly visible.
func (p *Project) IsPublished() bool {
	return p.Status == StatusPublished
}

// VisibleTo reports whether the given user may view and interact with
// the project. Drafts and archived projects are limited to the author
// and staff; a nil user is an anonymous visitor.
func (p *Project) VisibleTo(u *User) bool {
	if p.IsPublished() {
		return true
	}
	if u == nil {
		return false
	}
	return u.ID == p.AuthorID || u.IsStaff()
}

// ValidStatus reports whether s is a known project status.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}
