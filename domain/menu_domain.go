package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	MessageSuccessGetMenus       = "success get menus"
	MessageSuccessGetMenuDetail  = "success get menu detail"
	MessageSuccessCreateMenu     = "menu created successfully"
	MessageSuccessUpdateMenu     = "menu updated successfully"
	MessageSuccessDeleteMenu     = "menu deleted successfully"
	MessageSuccessAddMenuDish    = "dish added to menu successfully"
	MessageSuccessRemoveMenuDish = "dish removed from menu successfully"
	MessageFailedGetMenus        = "failed to get menus"
	MessageFailedGetMenuDetail   = "failed to get menu detail"
	MessageFailedCreateMenu      = "failed to create menu"
	MessageFailedUpdateMenu      = "failed to update menu"
	MessageFailedDeleteMenu      = "failed to delete menu"
	MessageFailedAddMenuDish     = "failed to add dish to menu"
	MessageFailedRemoveMenuDish  = "failed to remove dish from menu"

	ErrMenuNotFound = fmt.Errorf("%w: menu", ErrNotFound)
)

const MenuNameMaxLength = 50

type (
	CreateMenuRequest struct {
		Name    string   `json:"name" validate:"required,max=50"`
		DishIDs []string `json:"dish_ids" validate:"dive,uuid"`
	}

	UpdateMenuRequest struct {
		Name string `json:"name" validate:"required,max=50"`
	}

	MenuDishRequest struct {
		DishID string `json:"dish_id" validate:"required,uuid"`
	}

	MenuResponse struct {
		ID        uuid.UUID      `json:"id"`
		Name      string         `json:"name"`
		Dishes    []DishResponse `json:"dishes"`
		CreatedAt time.Time      `json:"created_at"`
	}
)
