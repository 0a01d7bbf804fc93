package domain

import (
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	MessageSuccessGetDishes         = "success get dishes"
	MessageSuccessGetDishDetail     = "success get dish detail"
	MessageSuccessCreateDish        = "dish created successfully"
	MessageSuccessUpdateDish        = "dish updated successfully"
	MessageSuccessDeleteDish        = "dish deleted successfully"
	MessageSuccessUploadDishImage   = "dish image uploaded successfully"
	MessageSuccessUpdateDishProduct = "dish product updated successfully"
	MessageSuccessDeleteDishProduct = "dish product deleted successfully"
	MessageFailedGetDishes          = "failed to get dishes"
	MessageFailedGetDishDetail      = "failed to get dish detail"
	MessageFailedCreateDish         = "failed to create dish"
	MessageFailedUpdateDish         = "failed to update dish"
	MessageFailedDeleteDish         = "failed to delete dish"
	MessageFailedUploadDishImage    = "failed to upload dish image"
	MessageFailedUpdateDishProduct  = "failed to update dish product"
	MessageFailedDeleteDishProduct  = "failed to delete dish product"

	ErrDishNotFound        = fmt.Errorf("%w: dish", ErrNotFound)
	ErrDishProductNotFound = fmt.Errorf("%w: dish product", ErrNotFound)
	ErrDishImageRequired   = NewValidationError("image", "is required")
)

const DishNameMaxLength = 100

type (
	// DishProductRequest is one product line of a dish form. On update a
	// line with an ID edits that line, a line without one is upserted by
	// product, and Delete removes the line.
	DishProductRequest struct {
		ID          string           `json:"id,omitempty" validate:"omitempty,uuid"`
		ProductName string           `json:"product_name" validate:"required_without=ID,max=50"`
		Quantity    *decimal.Decimal `json:"quantity" validate:"omitempty,gte=0"`
		UnitID      string           `json:"unit_id,omitempty" validate:"omitempty,uuid"`
		Delete      bool             `json:"delete,omitempty"`
	}

	CreateDishRequest struct {
		Name       string               `json:"name" validate:"required,max=100"`
		Recipe     string               `json:"recipe"`
		IsFavorite bool                 `json:"is_favorite"`
		Products   []DishProductRequest `json:"products" validate:"dive"`
	}

	UpdateDishRequest struct {
		Name       string               `json:"name" validate:"required,max=100"`
		Recipe     string               `json:"recipe"`
		IsFavorite bool                 `json:"is_favorite"`
		Products   []DishProductRequest `json:"products" validate:"dive"`
	}

	UpdateDishProductRequest struct {
		ProductName string           `json:"product_name" validate:"required,max=50"`
		Quantity    *decimal.Decimal `json:"quantity" validate:"omitempty,gte=0"`
		UnitID      string           `json:"unit_id,omitempty" validate:"omitempty,uuid"`
	}

	DishListRequest struct {
		PaginationRequest
		FavoriteOnly bool `query:"favorite"`
	}

	UploadDishImageRequest struct {
		Image *multipart.FileHeader `json:"image" form:"image"`
	}

	DishProductResponse struct {
		ID               uuid.UUID           `json:"id"`
		ProductID        uuid.UUID           `json:"product_id"`
		ProductName      string              `json:"product_name"`
		Quantity         decimal.NullDecimal `json:"quantity"`
		QuantityDisplay  string              `json:"quantity_display"`
		UnitID           *uuid.UUID          `json:"unit_id,omitempty"`
		UnitName         string              `json:"unit_name,omitempty"`
		UnitAbbreviation string              `json:"unit_abbreviation,omitempty"`
	}

	DishResponse struct {
		ID         uuid.UUID             `json:"id"`
		Name       string                `json:"name"`
		Recipe     string                `json:"recipe"`
		IsFavorite bool                  `json:"is_favorite"`
		ImageURL   string                `json:"image_url,omitempty"`
		Products   []DishProductResponse `json:"products,omitempty"`
		CreatedAt  time.Time             `json:"created_at"`
	}

	DishListResponse struct {
		Dishes     []DishResponse     `json:"dishes"`
		Pagination PaginationResponse `json:"pagination"`
	}
)
