package domain

import (
	"fmt"

	"github.com/google/uuid"
)

var (
	MessageSuccessGetUser = "success get user"
	MessageSuccessLogin   = "login successful"
	MessageFailedGetUser  = "failed to get user"
	MessageFailedLogin    = "failed to login"
	MessageFailedLogout   = "failed to logout"

	ErrUserNotFound      = fmt.Errorf("%w: user", ErrNotFound)
	ErrAuthStateInvalid  = NewValidationError("state", "is invalid or expired")
	ErrAuthCodeMissing   = NewValidationError("code", "is required")
	ErrAuthNotConfigured = fmt.Errorf("identity provider is not configured")
)

type (
	// IdentityClaims is what the identity provider tells us about a user.
	IdentityClaims struct {
		Subject  string `json:"sub"`
		Nickname string `json:"nickname"`
		Name     string `json:"name"`
		Email    string `json:"email"`
	}

	UserResponse struct {
		ID       uuid.UUID `json:"id"`
		Username string    `json:"username"`
		Email    string    `json:"email"`
	}

	LoginResponse struct {
		Token string       `json:"token"`
		User  UserResponse `json:"user"`
	}
)
