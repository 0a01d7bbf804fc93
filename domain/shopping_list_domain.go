package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	MessageSuccessBuildShoppingList     = "shopping list created successfully"
	MessageSuccessGetShoppingLists      = "success get shopping lists"
	MessageSuccessGetShoppingListDetail = "success get shopping list detail"
	MessageSuccessDeleteShoppingList    = "shopping list deleted successfully"
	MessageSuccessAddShoppingListItem   = "item added successfully"
	MessageSuccessUpdateShoppingItem    = "item updated successfully"
	MessageSuccessDeleteShoppingItem    = "item deleted successfully"
	MessageFailedBuildShoppingList      = "failed to create shopping list"
	MessageFailedGetShoppingLists       = "failed to get shopping lists"
	MessageFailedGetShoppingListDetail  = "failed to get shopping list detail"
	MessageFailedDeleteShoppingList     = "failed to delete shopping list"
	MessageFailedAddShoppingListItem    = "failed to add item"
	MessageFailedUpdateShoppingItem     = "failed to update item"
	MessageFailedDeleteShoppingItem     = "failed to delete item"

	ErrShoppingListNotFound     = fmt.Errorf("%w: shopping list", ErrNotFound)
	ErrShoppingListItemNotFound = fmt.Errorf("%w: shopping list item", ErrNotFound)
)

type (
	AddShoppingListItemRequest struct {
		ProductName string           `json:"product_name" validate:"required,max=50"`
		Quantity    *decimal.Decimal `json:"quantity" validate:"required,gte=0"`
		UnitID      string           `json:"unit_id,omitempty" validate:"omitempty,uuid"`
	}

	UpdateShoppingListItemRequest struct {
		Quantity *decimal.Decimal `json:"quantity" validate:"required,gte=0"`
		UnitID   string           `json:"unit_id,omitempty" validate:"omitempty,uuid"`
	}

	ShoppingListItemResponse struct {
		ID               uuid.UUID       `json:"id"`
		ProductID        uuid.UUID       `json:"product_id"`
		ProductName      string          `json:"product_name"`
		Quantity         decimal.Decimal `json:"quantity"`
		QuantityDisplay  string          `json:"quantity_display"`
		UnitID           *uuid.UUID      `json:"unit_id,omitempty"`
		UnitName         string          `json:"unit_name,omitempty"`
		UnitAbbreviation string          `json:"unit_abbreviation,omitempty"`
		DishProductID    *uuid.UUID      `json:"dish_product_id,omitempty"`
	}

	ShoppingListResponse struct {
		ID        uuid.UUID                  `json:"id"`
		MenuID    *uuid.UUID                 `json:"menu_id,omitempty"`
		CreatedAt time.Time                  `json:"created_at"`
		Items     []ShoppingListItemResponse `json:"items"`
	}
)
