package user

import (
	"context"
	"strings"

	"shopmydish/domain"
	"shopmydish/entities"

	"github.com/google/uuid"
)

type (
	UserService interface {
		SyncIdentity(ctx context.Context, claims domain.IdentityClaims) (domain.UserResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
	}

	userService struct {
		userRepository UserRepository
	}
)

func NewUserService(userRepository UserRepository) UserService {
	return &userService{userRepository: userRepository}
}

// SyncIdentity returns the local user for the identity-provider subject,
// creating it on first login.
func (s *userService) SyncIdentity(ctx context.Context, claims domain.IdentityClaims) (domain.UserResponse, error) {
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return domain.UserResponse{}, domain.NewValidationError("sub", "is required")
	}

	username := claims.Nickname
	if username == "" {
		username = claims.Name
	}
	if username == "" {
		username, _, _ = strings.Cut(claims.Email, "@")
	}

	user, err := s.userRepository.UpsertBySubject(ctx, &entities.User{
		Subject:  subject,
		Username: username,
		Email:    claims.Email,
	})
	if err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user), nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return domain.UserResponse{}, domain.ErrParseUUID
	}
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return domain.UserResponse{}, err
	}
	return ToUserResponse(user), nil
}

func ToUserResponse(u *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
