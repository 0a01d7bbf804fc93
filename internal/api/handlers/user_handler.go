package handlers

import (
	"time"

	"shopmydish/domain"
	"shopmydish/internal/api/presenters"
	"shopmydish/internal/middleware"
	"shopmydish/pkg/auth"
	"shopmydish/pkg/user"

	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		Login(c *fiber.Ctx) error
		Callback(c *fiber.Ctx) error
		Logout(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
	}

	userHandler struct {
		userService user.UserService
		authService auth.AuthService
		sessionTTL  time.Duration
		appURL      string
	}
)

// NewUserHandler builds the handler. authService may be nil when no
// identity provider is configured; the login routes then answer 503.
func NewUserHandler(userService user.UserService, authService auth.AuthService, sessionTTL time.Duration, appURL string) UserHandler {
	return &userHandler{
		userService: userService,
		authService: authService,
		sessionTTL:  sessionTTL,
		appURL:      appURL,
	}
}

func (h *userHandler) Login(c *fiber.Ctx) error {
	if h.authService == nil {
		return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageFailedLogin, domain.ErrAuthNotConfigured)
	}

	url, err := h.authService.LoginURL(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedLogin, err)
	}

	return c.Redirect(url, fiber.StatusTemporaryRedirect)
}

func (h *userHandler) Callback(c *fiber.Ctx) error {
	if h.authService == nil {
		return presenters.ErrorResponse(c, fiber.StatusServiceUnavailable, domain.MessageFailedLogin, domain.ErrAuthNotConfigured)
	}

	res, err := h.authService.Callback(c.Context(), c.Query("code"), c.Query("state"))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadGateway, domain.MessageFailedLogin, err)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.SessionCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLogin)
}

func (h *userHandler) Logout(c *fiber.Ctx) error {
	c.ClearCookie(middleware.SessionCookie)
	if h.authService == nil {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.Redirect(h.authService.LogoutURL(h.appURL), fiber.StatusSeeOther)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.userService.Me(c.Context(), userID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetUser, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetUser)
}
