package handlers

import (
	"shopmydish/domain"
	"shopmydish/internal/api/presenters"
	"shopmydish/internal/utils"
	"shopmydish/pkg/shoppinglist"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ShoppingListHandler interface {
		CreateShoppingList(c *fiber.Ctx) error
		BuildShoppingList(c *fiber.Ctx) error
		GetShoppingLists(c *fiber.Ctx) error
		GetShoppingListDetail(c *fiber.Ctx) error
		DeleteShoppingList(c *fiber.Ctx) error

		AddItem(c *fiber.Ctx) error
		UpdateItem(c *fiber.Ctx) error
		DeleteItem(c *fiber.Ctx) error
	}

	shoppingListHandler struct {
		shoppingListService shoppinglist.ShoppingListService
		validator           *validator.Validate
	}
)

func NewShoppingListHandler(shoppingListService shoppinglist.ShoppingListService, validator *validator.Validate) ShoppingListHandler {
	return &shoppingListHandler{
		shoppingListService: shoppingListService,
		validator:           validator,
	}
}

// CreateShoppingList serves GET /create-shoppinglist/:menu_id/ and sends
// the browser on to the new list.
func (h *shoppingListHandler) CreateShoppingList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.shoppingListService.BuildShoppingList(c.Context(), c.Params("menu_id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBuildShoppingList, err)
	}

	return c.Redirect("/api/v1/shopping-lists/"+res.ID.String(), fiber.StatusSeeOther)
}

func (h *shoppingListHandler) BuildShoppingList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.shoppingListService.BuildShoppingList(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBuildShoppingList, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessBuildShoppingList)
}

func (h *shoppingListHandler) GetShoppingLists(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.shoppingListService.GetShoppingLists(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetShoppingLists, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetShoppingLists)
}

func (h *shoppingListHandler) GetShoppingListDetail(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.shoppingListService.GetShoppingListDetail(c.Context(), c.Params("id"), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetShoppingListDetail, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetShoppingListDetail)
}

func (h *shoppingListHandler) DeleteShoppingList(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.shoppingListService.DeleteShoppingList(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteShoppingList, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteShoppingList)
}

func (h *shoppingListHandler) AddItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.AddShoppingListItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddShoppingListItem, utils.ValidationFields(err))
	}

	res, err := h.shoppingListService.AddItem(c.Context(), c.Params("id"), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddShoppingListItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddShoppingListItem)
}

func (h *shoppingListHandler) UpdateItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.UpdateShoppingListItemRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateShoppingItem, utils.ValidationFields(err))
	}

	res, err := h.shoppingListService.UpdateItem(c.Context(), c.Params("id"), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateShoppingItem, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateShoppingItem)
}

func (h *shoppingListHandler) DeleteItem(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	if err := h.shoppingListService.DeleteItem(c.Context(), c.Params("id"), userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteShoppingItem, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteShoppingItem)
}
