package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Menu struct {
	ID   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name string    `gorm:"size:50;uniqueIndex;not null" json:"name"`

	Dishes []*MenuDish `gorm:"foreignKey:MenuID"`
	Timestamp
}

func (m *Menu) BeforeCreate(tx *gorm.DB) error {
	assignID(&m.ID)
	return nil
}

type MenuDish struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	MenuID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_menu_dish" json:"menu_id"`
	DishID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_menu_dish" json:"dish_id"`

	Menu *Menu `gorm:"foreignKey:MenuID"`
	Dish *Dish `gorm:"foreignKey:DishID"`
	Timestamp
}

func (md *MenuDish) BeforeCreate(tx *gorm.DB) error {
	assignID(&md.ID)
	return nil
}
