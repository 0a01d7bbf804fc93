package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name       string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	IsFavorite bool      `gorm:"default:false" json:"is_favorite"`
	Timestamp
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

type Unit struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name         string    `gorm:"size:20;uniqueIndex;not null" json:"name"`
	Abbreviation string    `gorm:"size:15;uniqueIndex;not null" json:"abbreviation"`
	Timestamp
}

func (u *Unit) BeforeCreate(tx *gorm.DB) error {
	assignID(&u.ID)
	return nil
}
