package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Products, dishes and menus are shared catalog rows; these tables scope
// them to the users that work with them.

type UserProduct struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_product" json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_product" json:"product_id"`

	User    *User    `gorm:"foreignKey:UserID"`
	Product *Product `gorm:"foreignKey:ProductID"`
	Timestamp
}

func (up *UserProduct) BeforeCreate(tx *gorm.DB) error {
	assignID(&up.ID)
	return nil
}

type UserDish struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_dish" json:"user_id"`
	DishID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_dish" json:"dish_id"`

	User *User `gorm:"foreignKey:UserID"`
	Dish *Dish `gorm:"foreignKey:DishID"`
	Timestamp
}

func (ud *UserDish) BeforeCreate(tx *gorm.DB) error {
	assignID(&ud.ID)
	return nil
}

type UserMenu struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_menu" json:"user_id"`
	MenuID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_menu" json:"menu_id"`

	User *User `gorm:"foreignKey:UserID"`
	Menu *Menu `gorm:"foreignKey:MenuID"`
	Timestamp
}

func (um *UserMenu) BeforeCreate(tx *gorm.DB) error {
	assignID(&um.ID)
	return nil
}
