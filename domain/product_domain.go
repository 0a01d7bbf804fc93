package domain

import (
	"fmt"

	"github.com/google/uuid"
)

var (
	MessageSuccessGetProducts    = "success get products"
	MessageSuccessCreateProduct  = "product created successfully"
	MessageSuccessToggleFavorite = "product favorite updated successfully"
	MessageSuccessDeleteProduct  = "product deleted successfully"
	MessageSuccessGetUnits       = "success get units"
	MessageSuccessCreateUnit     = "unit created successfully"
	MessageSuccessUpdateUnit     = "unit updated successfully"
	MessageSuccessDeleteUnit     = "unit deleted successfully"
	MessageFailedGetProducts     = "failed to get products"
	MessageFailedCreateProduct   = "failed to create product"
	MessageFailedToggleFavorite  = "failed to update product favorite"
	MessageFailedDeleteProduct   = "failed to delete product"
	MessageFailedGetUnits        = "failed to get units"
	MessageFailedCreateUnit      = "failed to create unit"
	MessageFailedUpdateUnit      = "failed to update unit"
	MessageFailedDeleteUnit      = "failed to delete unit"

	ErrProductNotFound = fmt.Errorf("%w: product", ErrNotFound)
	ErrUnitNotFound    = fmt.Errorf("%w: unit", ErrNotFound)
)

const (
	ProductNameMaxLength      = 50
	UnitNameMaxLength         = 20
	UnitAbbreviationMaxLength = 15
)

type (
	CreateProductRequest struct {
		Name       string `json:"name" validate:"required,max=50"`
		IsFavorite bool   `json:"is_favorite"`
	}

	ProductResponse struct {
		ID         uuid.UUID `json:"id"`
		Name       string    `json:"name"`
		IsFavorite bool      `json:"is_favorite"`
	}

	UnitRequest struct {
		Name         string `json:"name" validate:"required,max=20"`
		Abbreviation string `json:"abbreviation" validate:"required,max=15"`
	}

	UnitResponse struct {
		ID           uuid.UUID `json:"id"`
		Name         string    `json:"name"`
		Abbreviation string    `json:"abbreviation"`
	}
)
