package models

import (
	"time"

	"gorm.io/datatypes"
)

// About is the singleton profile record behind the about page. The
// list-valued fields are stored as JSON array columns so they survive
// both the postgres and sqlite backends.
type About struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"not null" json:"name"`
	Title       string                      `json:"title"`
	Bio         string                      `gorm:"type:text" json:"bio"`
	Email       string                      `json:"email,omitempty"`
	GithubURL   string                      `json:"github_url,omitempty"`
	LinkedinURL string                      `json:"linkedin_url,omitempty"`
	Skills      datatypes.JSONSlice[string] `json:"skills"`
	Languages   datatypes.JSONSlice[string] `json:"languages"`
	Interests   datatypes.JSONSlice[string] `json:"interests"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}
