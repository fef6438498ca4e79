// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultUserName is used when the identity provider supplies no display name.
const DefaultUserName = "Anonymous"

// User is a catalog contributor. Rows are provisioned lazily the first time
// an authenticated external identity creates a resource.
type User struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	ExternalID string     `gorm:"uniqueIndex;not null" json:"-"`
	UserName   string     `gorm:"not null" json:"userName"`
	Resources  []Resource `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt  time.Time  `json:"-"`
	UpdatedAt  time.Time  `json:"-"`
}

// BeforeCreate assigns an opaque identifier and the default display name.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.UserName == "" {
		u.UserName = DefaultUserName
	}
	return nil
}
