package handlers

import (
	"errors"

	"shopmydish/domain"
	"shopmydish/internal/api/presenters"
	"shopmydish/internal/utils"
	"shopmydish/pkg/dish"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	DishHandler interface {
		GetDishes(c *fiber.Ctx) error
		GetDishDetail(c *fiber.Ctx) error
		CreateDish(c *fiber.Ctx) error
		UpdateDish(c *fiber.Ctx) error
		DeleteDish(c *fiber.Ctx) error
		UploadDishImage(c *fiber.Ctx) error

		UpdateDishProduct(c *fiber.Ctx) error
		DeleteDishProduct(c *fiber.Ctx) error
	}

	dishHandler struct {
		dishService dish.DishService
		validator   *validator.Validate
	}
)

func NewDishHandler(dishService dish.DishService, validator *validator.Validate) DishHandler {
	return &dishHandler{
		dishService: dishService,
		validator:   validator,
	}
}

func (h *dishHandler) GetDishes(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.DishListRequest)

	if err := c.QueryParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDishes, err)
	}

	res, err := h.dishService.GetDishes(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDishes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDishes)
}

func (h *dishHandler) GetDishDetail(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.dishService.GetDishDetail(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDishDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetDishDetail)
}

func (h *dishHandler) CreateDish(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateDishRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDish, utils.ValidationFields(err))
	}

	res, err := h.dishService.CreateDish(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateDish, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateDish)
}

func (h *dishHandler) UpdateDish(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdateDishRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateDish, utils.ValidationFields(err))
	}

	res, err := h.dishService.UpdateDish(c.Context(), c.Params("id"), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateDish, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateDish)
}

func (h *dishHandler) DeleteDish(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.dishService.DeleteDish(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteDish, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteDish)
}

func (h *dishHandler) UploadDishImage(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	file, err := c.FormFile("image")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadDishImage, domain.ErrDishImageRequired)
	}

	res, err := h.dishService.UploadDishImage(c.Context(), c.Params("id"), domain.UploadDishImageRequest{Image: file}, userID)
	if err != nil {
		code := fiber.StatusBadRequest
		if errors.Is(err, dish.ErrStorageNotConfigured) {
			code = fiber.StatusServiceUnavailable
		}
		return presenters.ErrorResponse(c, code, domain.MessageFailedUploadDishImage, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUploadDishImage)
}

func (h *dishHandler) UpdateDishProduct(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdateDishProductRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateDishProduct, utils.ValidationFields(err))
	}

	res, err := h.dishService.UpdateDishProduct(c.Context(), c.Params("id"), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateDishProduct, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateDishProduct)
}

func (h *dishHandler) DeleteDishProduct(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.dishService.DeleteDishProduct(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteDishProduct, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteDishProduct)
}
