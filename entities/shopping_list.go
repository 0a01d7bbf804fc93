package entities

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ShoppingList struct {
	ID     uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	MenuID *uuid.UUID `gorm:"type:uuid" json:"menu_id,omitempty"` // menu the list was built from, if any

	User  *User               `gorm:"foreignKey:UserID"`
	Items []*ShoppingListItem `gorm:"foreignKey:ShoppingListID"`
	Timestamp
}

func (sl *ShoppingList) BeforeCreate(tx *gorm.DB) error {
	assignID(&sl.ID)
	return nil
}

// ShoppingListItem is one merged (product, unit) line. DishProductID points
// at one of the dish lines that contributed to it and is informational only.
type ShoppingListItem struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ShoppingListID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_list_product_unit" json:"shopping_list_id"`
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_list_product_unit" json:"product_id"`
	UnitID         *uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_list_product_unit" json:"unit_id,omitempty"`
	DishProductID  *uuid.UUID      `gorm:"type:uuid" json:"dish_product_id,omitempty"`
	Quantity       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"quantity"`

	ShoppingList *ShoppingList `gorm:"foreignKey:ShoppingListID"`
	Product      *Product      `gorm:"foreignKey:ProductID"`
	Unit         *Unit         `gorm:"foreignKey:UnitID"`
	Timestamp
}

func (i *ShoppingListItem) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}
