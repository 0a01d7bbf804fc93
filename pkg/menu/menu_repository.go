package menu

import (
	"context"
	"errors"

	"shopmydish/domain"
	"shopmydish/entities"
	"shopmydish/pkg/ownership"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrMenuNameTaken = domain.NewValidationError("name", "a menu with this name already exists")

type (
	MenuRepository interface {
		CreateMenu(ctx context.Context, menu *entities.Menu) error
		MenuNameTaken(ctx context.Context, name string, exceptID uuid.UUID) (bool, error)
		GetMenuByID(ctx context.Context, id uuid.UUID) (*entities.Menu, error)
		GetMenusByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Menu, error)
		UpdateMenu(ctx context.Context, menu *entities.Menu) error
		DeleteMenu(ctx context.Context, id uuid.UUID) error

		AddDish(ctx context.Context, menuID, dishID uuid.UUID) (*entities.MenuDish, error)
		RemoveDish(ctx context.Context, menuID, dishID uuid.UUID) error
		DishesOf(ctx context.Context, menuID uuid.UUID) ([]*entities.Dish, error)

		WithTx(tx *gorm.DB) MenuRepository
	}

	menuRepository struct {
		db *gorm.DB
	}
)

func NewMenuRepository(db *gorm.DB) MenuRepository {
	return &menuRepository{db: db}
}

func (r *menuRepository) WithTx(tx *gorm.DB) MenuRepository {
	return &menuRepository{db: tx}
}

func (r *menuRepository) CreateMenu(ctx context.Context, menu *entities.Menu) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(menu).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrMenuNameTaken
	}
	return err
}

func (r *menuRepository) MenuNameTaken(ctx context.Context, name string, exceptID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Menu{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, exceptID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *menuRepository) GetMenuByID(ctx context.Context, id uuid.UUID) (*entities.Menu, error) {
	var menu entities.Menu
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&menu).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMenuNotFound
		}
		return nil, err
	}
	return &menu, nil
}

func (r *menuRepository) GetMenusByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Menu, error) {
	return ownership.ListScoped[entities.Menu](ctx, r.db, userID, ownership.Menu,
		func(db *gorm.DB) *gorm.DB {
			return db.Preload("Dishes.Dish").Order("menus.name asc")
		},
	)
}

func (r *menuRepository) UpdateMenu(ctx context.Context, menu *entities.Menu) error {
	err := r.db.WithContext(ctx).
		Model(menu).
		Omit(clause.Associations).
		Select("name", "updated_at").
		Updates(menu).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrMenuNameTaken
	}
	return err
}

// DeleteMenu removes the menu, its dish entries and ownership links. Dishes
// are shared and stay; shopping lists built from the menu are detached.
func (r *menuRepository) DeleteMenu(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", id).Delete(&entities.MenuDish{}).Error; err != nil {
			return err
		}
		if err := ownership.NewOwnershipRepository(tx).UnlinkAll(ctx, ownership.Menu, id); err != nil {
			return err
		}
		if err := tx.Model(&entities.ShoppingList{}).
			Where("menu_id = ?", id).
			Update("menu_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.Menu{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrMenuNotFound
		}
		return nil
	})
}

// AddDish puts the dish on the menu. Adding a dish twice returns the
// existing entry.
func (r *menuRepository) AddDish(ctx context.Context, menuID, dishID uuid.UUID) (*entities.MenuDish, error) {
	entry := &entities.MenuDish{MenuID: menuID, DishID: dishID}
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "menu_id"}, {Name: "dish_id"}},
			DoNothing: true,
		}).
		Create(entry).Error; err != nil {
		return nil, err
	}

	var stored entities.MenuDish
	if err := r.db.WithContext(ctx).
		Where("menu_id = ? AND dish_id = ?", menuID, dishID).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *menuRepository) RemoveDish(ctx context.Context, menuID, dishID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("menu_id = ? AND dish_id = ?", menuID, dishID).
		Delete(&entities.MenuDish{}).Error
}

// DishesOf returns the dishes on the menu in the order they were added.
func (r *menuRepository) DishesOf(ctx context.Context, menuID uuid.UUID) ([]*entities.Dish, error) {
	var dishes []*entities.Dish
	if err := r.db.WithContext(ctx).
		Joins("JOIN menu_dishes ON menu_dishes.dish_id = dishes.id").
		Where("menu_dishes.menu_id = ?", menuID).
		Order("menu_dishes.created_at asc").
		Order("dishes.name asc").
		Find(&dishes).Error; err != nil {
		return nil, err
	}
	return dishes, nil
}
