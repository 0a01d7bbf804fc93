package presenters

import (
	"errors"

	"shopmydish/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type Response struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, code int, message string) error {
	return c.Status(code).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes err using code. Errors that carry a kind from the
// domain package override code with the kind's status; permission and
// aggregation failures never expose their details.
func ErrorResponse(c *fiber.Ctx, code int, message string, err error) error {
	if status, ok := StatusFromError(err); ok {
		code = status
	}
	res := Response{Status: false, Message: message}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		res.Error = domain.ErrValidation.Error()
		res.Fields = ve.Fields
	case errors.Is(err, domain.ErrPermissionDenied):
		res.Error = domain.ErrPermissionDenied.Error()
	case errors.Is(err, domain.ErrAggregationFailed):
		log.Errorw("shopping list aggregation failed", "path", c.Path(), "error", err)
		res.Error = domain.ErrAggregationFailed.Error()
	case code >= fiber.StatusInternalServerError:
		log.Errorw("request failed", "path", c.Path(), "error", err)
		res.Error = "internal server error"
	case err != nil:
		res.Error = err.Error()
	}
	return c.Status(code).JSON(res)
}

func StatusFromError(err error) (int, bool) {
	switch {
	case err == nil:
		return 0, false
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest, true
	case errors.Is(err, domain.ErrPermissionDenied):
		return fiber.StatusForbidden, true
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, true
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, true
	case errors.Is(err, domain.ErrAggregationFailed):
		return fiber.StatusInternalServerError, true
	}
	return 0, false
}

// ErrorHandler is the fiber fallback for errors returned by handlers and
// middleware that did not write a response themselves.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		return c.Status(code).JSON(Response{Status: false, Message: fe.Message, Error: fe.Message})
	}
	return ErrorResponse(c, code, domain.MessageFailedProcessRequest, err)
}
