package handlers

import (
	"shopmydish/domain"
	"shopmydish/internal/api/presenters"
	"shopmydish/internal/utils"
	"shopmydish/pkg/menu"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	MenuHandler interface {
		GetMenus(c *fiber.Ctx) error
		GetMenuDetail(c *fiber.Ctx) error
		CreateMenu(c *fiber.Ctx) error
		UpdateMenu(c *fiber.Ctx) error
		DeleteMenu(c *fiber.Ctx) error
		AddDish(c *fiber.Ctx) error
		RemoveDish(c *fiber.Ctx) error
	}

	menuHandler struct {
		menuService menu.MenuService
		validator   *validator.Validate
	}
)

func NewMenuHandler(menuService menu.MenuService, validator *validator.Validate) MenuHandler {
	return &menuHandler{
		menuService: menuService,
		validator:   validator,
	}
}

func (h *menuHandler) GetMenus(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.menuService.GetMenus(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetMenus, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMenus)
}

func (h *menuHandler) GetMenuDetail(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.menuService.GetMenuDetail(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetMenuDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetMenuDetail)
}

func (h *menuHandler) CreateMenu(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateMenuRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateMenu, utils.ValidationFields(err))
	}

	res, err := h.menuService.CreateMenu(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateMenu, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateMenu)
}

func (h *menuHandler) UpdateMenu(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdateMenuRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMenu, utils.ValidationFields(err))
	}

	res, err := h.menuService.UpdateMenu(c.Context(), c.Params("id"), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateMenu, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateMenu)
}

func (h *menuHandler) DeleteMenu(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.menuService.DeleteMenu(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteMenu, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteMenu)
}

func (h *menuHandler) AddDish(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.MenuDishRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddMenuDish, utils.ValidationFields(err))
	}

	res, err := h.menuService.AddDish(c.Context(), c.Params("id"), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddMenuDish, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessAddMenuDish)
}

func (h *menuHandler) RemoveDish(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.menuService.RemoveDish(c.Context(), c.Params("id"), c.Params("dish_id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRemoveMenuDish, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessRemoveMenuDish)
}
