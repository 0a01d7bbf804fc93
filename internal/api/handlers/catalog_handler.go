package handlers

import (
	"shopmydish/domain"
	"shopmydish/internal/api/presenters"
	"shopmydish/internal/utils"
	"shopmydish/pkg/catalog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	CatalogHandler interface {
		GetProducts(c *fiber.Ctx) error
		CreateProduct(c *fiber.Ctx) error
		ToggleFavorite(c *fiber.Ctx) error
		DeleteProduct(c *fiber.Ctx) error

		GetUnits(c *fiber.Ctx) error
		CreateUnit(c *fiber.Ctx) error
		UpdateUnit(c *fiber.Ctx) error
		DeleteUnit(c *fiber.Ctx) error
	}

	catalogHandler struct {
		catalogService catalog.CatalogService
		validator      *validator.Validate
	}
)

func NewCatalogHandler(catalogService catalog.CatalogService, validator *validator.Validate) CatalogHandler {
	return &catalogHandler{
		catalogService: catalogService,
		validator:      validator,
	}
}

func (h *catalogHandler) GetProducts(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.catalogService.GetProducts(c.Context(), userID, c.QueryBool("favorite", false))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetProducts, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetProducts)
}

func (h *catalogHandler) CreateProduct(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateProductRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateProduct, utils.ValidationFields(err))
	}

	res, err := h.catalogService.CreateProduct(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateProduct, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateProduct)
}

func (h *catalogHandler) ToggleFavorite(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.catalogService.ToggleFavorite(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedToggleFavorite, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessToggleFavorite)
}

func (h *catalogHandler) DeleteProduct(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.catalogService.DeleteProduct(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteProduct, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteProduct)
}

func (h *catalogHandler) GetUnits(c *fiber.Ctx) error {
	res, err := h.catalogService.GetUnits(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetUnits, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUnits)
}

func (h *catalogHandler) CreateUnit(c *fiber.Ctx) error {
	req := new(domain.UnitRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateUnit, utils.ValidationFields(err))
	}

	res, err := h.catalogService.CreateUnit(c.Context(), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateUnit, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateUnit)
}

func (h *catalogHandler) UpdateUnit(c *fiber.Ctx) error {
	req := new(domain.UnitRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateUnit, utils.ValidationFields(err))
	}

	res, err := h.catalogService.UpdateUnit(c.Context(), c.Params("id"), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateUnit, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateUnit)
}

func (h *catalogHandler) DeleteUnit(c *fiber.Ctx) error {
	if err := h.catalogService.DeleteUnit(c.Context(), c.Params("id")); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteUnit, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteUnit)
}
