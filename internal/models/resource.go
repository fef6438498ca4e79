package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Field length limits enforced by the mutation service.
const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 500
)

// Resource is a single catalog entry. Titles are unique case-insensitively;
// the column-level unique index backs up the application-level check.
type Resource struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:100;not null;uniqueIndex" json:"title"`
	Description string    `gorm:"size:500;not null" json:"description"`
	ImageURL    string    `gorm:"not null" json:"imageUrl"`
	Link        string    `gorm:"not null" json:"link"`
	Tag         TagList   `gorm:"type:text" json:"tag"`
	UserID      string    `gorm:"not null;index" json:"userId"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BeforeCreate assigns an opaque server-side identifier.
func (r *Resource) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Pagination is the metadata block returned alongside a catalog page.
// Pages is always ceil(Total / Limit) over the same filter predicate
// that produced the page of items.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}
