package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User mirrors an identity-provider account. Only the subject, a display
// name and the e-mail address are kept.
type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Subject  string    `gorm:"size:255;uniqueIndex;not null" json:"-"`
	Username string    `gorm:"size:150" json:"username"`
	Email    string    `gorm:"size:255" json:"email"`
	Timestamp
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}
