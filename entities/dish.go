package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Dish struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name       string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Recipe     string    `gorm:"type:text" json:"recipe"`
	IsFavorite bool      `gorm:"default:false" json:"is_favorite"`
	ImageURL   string    `json:"image_url,omitempty"`

	Products []*DishProduct `gorm:"foreignKey:DishID"`
	Timestamp
}

func (d *Dish) BeforeCreate(tx *gorm.DB) error {
	assignID(&d.ID)
	return nil
}

// DishProduct records how much of a product a dish requires. A product is
// listed at most once per dish.
type DishProduct struct {
	ID        uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	DishID    uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_dish_product" json:"dish_id"`
	ProductID uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_dish_product" json:"product_id"`
	Quantity  decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"quantity"`
	UnitID    *uuid.UUID          `gorm:"type:uuid" json:"unit_id,omitempty"`

	Dish    *Dish    `gorm:"foreignKey:DishID"`
	Product *Product `gorm:"foreignKey:ProductID"`
	Unit    *Unit    `gorm:"foreignKey:UnitID"`
	Timestamp
}

func (dp *DishProduct) BeforeCreate(tx *gorm.DB) error {
	assignID(&dp.ID)
	return nil
}
