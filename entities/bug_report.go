package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BugReport struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string    `gorm:"size:100;uniqueIndex;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}

func (b *BugReport) BeforeCreate(tx *gorm.DB) error {
	assignID(&b.ID)
	return nil
}
