package handlers

import (
	"shopmydish/domain"
	"shopmydish/internal/api/presenters"
	"shopmydish/internal/utils"
	"shopmydish/pkg/bugreport"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	BugReportHandler interface {
		CreateBugReport(c *fiber.Ctx) error
	}

	bugReportHandler struct {
		bugReportService bugreport.BugReportService
		validator        *validator.Validate
	}
)

func NewBugReportHandler(bugReportService bugreport.BugReportService, validator *validator.Validate) BugReportHandler {
	return &bugReportHandler{
		bugReportService: bugReportService,
		validator:        validator,
	}
}

func (h *bugReportHandler) CreateBugReport(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	req := new(domain.CreateBugReportRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateBugReport, utils.ValidationFields(err))
	}

	res, err := h.bugReportService.CreateBugReport(c.Context(), *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateBugReport, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateBugReport)
}
