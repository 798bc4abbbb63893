// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User roles. The first user ever created becomes the owner; everyone
// else starts as a member until promoted.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
	RoleOwner  = "owner"
)

// User represents an authenticated visitor. The ID is the subject
// identifier issued by the external auth provider, not a local serial.
type User struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `gorm:"index" json:"email,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Role      string    `gorm:"not null;default:member" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Projects []Project `gorm:"foreignKey:AuthorID" json:"projects,omitempty"`
}

// IsStaff reports whether the user may manage content owned by others.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleOwner
}

// DisplayName returns the name to show in notification messages.
func (u *User) DisplayName() string {
	if u.Name == "" {
		return "Someone"
	}
	return u.Name
}
