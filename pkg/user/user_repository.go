package user

import (
	"context"
	"errors"

	"shopmydish/domain"
	"shopmydish/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	UserRepository interface {
		UpsertBySubject(ctx context.Context, user *entities.User) (*entities.User, error)
		GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
		GetUserBySubject(ctx context.Context, subject string) (*entities.User, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// UpsertBySubject stores the user keyed by identity-provider subject. An
// existing row keeps its id and gets the latest username and e-mail.
func (r *userRepository) UpsertBySubject(ctx context.Context, user *entities.User) (*entities.User, error) {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "email", "updated_at"}),
		}).
		Create(user).Error; err != nil {
		return nil, err
	}
	return r.GetUserBySubject(ctx, user.Subject)
}

func (r *userRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserBySubject(ctx context.Context, subject string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("subject = ?", subject).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
