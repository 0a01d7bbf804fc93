package dish

import (
	"context"
	"errors"
	"time"

	"shopmydish/domain"
	"shopmydish/entities"
	"shopmydish/pkg/ownership"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrDishNameTaken = domain.NewValidationError("name", "a dish with this name already exists")

type (
	DishRepository interface {
		CreateDish(ctx context.Context, dish *entities.Dish) error
		GetDishByID(ctx context.Context, id uuid.UUID) (*entities.Dish, error)
		GetDishWithProducts(ctx context.Context, id uuid.UUID) (*entities.Dish, error)
		DishNameTaken(ctx context.Context, name string, exceptID uuid.UUID) (bool, error)
		GetDishesByUser(ctx context.Context, userID uuid.UUID, req domain.DishListRequest) ([]*entities.Dish, int64, error)
		GetDishesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Dish, error)
		UpdateDish(ctx context.Context, dish *entities.Dish) error
		DeleteDish(ctx context.Context, id uuid.UUID) error

		UpsertDishProduct(ctx context.Context, dishID, productID uuid.UUID, quantity decimal.NullDecimal, unitID *uuid.UUID) (*entities.DishProduct, error)
		GetDishProductByID(ctx context.Context, id uuid.UUID) (*entities.DishProduct, error)
		GetDishProducts(ctx context.Context, dishIDs []uuid.UUID) ([]*entities.DishProduct, error)
		UpdateDishProduct(ctx context.Context, line *entities.DishProduct) error
		DeleteDishProduct(ctx context.Context, id uuid.UUID) error

		WithTx(tx *gorm.DB) DishRepository
	}

	dishRepository struct {
		db *gorm.DB
	}
)

func NewDishRepository(db *gorm.DB) DishRepository {
	return &dishRepository{db: db}
}

func (r *dishRepository) WithTx(tx *gorm.DB) DishRepository {
	return &dishRepository{db: tx}
}

func (r *dishRepository) CreateDish(ctx context.Context, dish *entities.Dish) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(dish).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDishNameTaken
	}
	return err
}

func (r *dishRepository) GetDishByID(ctx context.Context, id uuid.UUID) (*entities.Dish, error) {
	var dish entities.Dish
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&dish).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDishNotFound
		}
		return nil, err
	}
	return &dish, nil
}

func (r *dishRepository) GetDishWithProducts(ctx context.Context, id uuid.UUID) (*entities.Dish, error) {
	var dish entities.Dish
	if err := r.db.WithContext(ctx).
		Preload("Products.Product").
		Preload("Products.Unit").
		Where("id = ?", id).
		First(&dish).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDishNotFound
		}
		return nil, err
	}
	return &dish, nil
}

func (r *dishRepository) DishNameTaken(ctx context.Context, name string, exceptID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Dish{}).
		Where("LOWER(name) = LOWER(?) AND id <> ?", name, exceptID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *dishRepository) GetDishesByUser(ctx context.Context, userID uuid.UUID, req domain.DishListRequest) ([]*entities.Dish, int64, error) {
	filter := func(db *gorm.DB) *gorm.DB {
		if req.FavoriteOnly {
			return db.Where("dishes.is_favorite = ?", true)
		}
		return db
	}

	count, err := ownership.CountScoped[entities.Dish](ctx, r.db, userID, ownership.Dish, filter)
	if err != nil {
		return nil, 0, err
	}

	dishes, err := ownership.ListScoped[entities.Dish](ctx, r.db, userID, ownership.Dish,
		filter,
		func(db *gorm.DB) *gorm.DB { return db.Order("dishes.name asc") },
		ownership.Paginate(req.Offset(), req.Limit),
	)
	if err != nil {
		return nil, 0, err
	}
	return dishes, count, nil
}

func (r *dishRepository) GetDishesByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.Dish, error) {
	var dishes []*entities.Dish
	if len(ids) == 0 {
		return dishes, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name asc").Find(&dishes).Error; err != nil {
		return nil, err
	}
	return dishes, nil
}

func (r *dishRepository) UpdateDish(ctx context.Context, dish *entities.Dish) error {
	err := r.db.WithContext(ctx).
		Model(dish).
		Omit(clause.Associations).
		Select("name", "recipe", "is_favorite", "image_url", "updated_at").
		Updates(dish).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDishNameTaken
	}
	return err
}

// DeleteDish removes the dish with its product lines, menu entries and
// ownership links. Shopping lists keep their items; only the link back to
// the deleted lines is cleared.
func (r *dishRepository) DeleteDish(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines := tx.Model(&entities.DishProduct{}).Select("id").Where("dish_id = ?", id)
		if err := tx.Model(&entities.ShoppingListItem{}).
			Where("dish_product_id IN (?)", lines).
			Update("dish_product_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("dish_id = ?", id).Delete(&entities.DishProduct{}).Error; err != nil {
			return err
		}
		if err := tx.Where("dish_id = ?", id).Delete(&entities.MenuDish{}).Error; err != nil {
			return err
		}
		if err := ownership.NewOwnershipRepository(tx).UnlinkAll(ctx, ownership.Dish, id); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.Dish{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrDishNotFound
		}
		return nil
	})
}

// UpsertDishProduct writes the (dish, product) line, updating quantity and
// unit when the product is already on the dish.
func (r *dishRepository) UpsertDishProduct(ctx context.Context, dishID, productID uuid.UUID, quantity decimal.NullDecimal, unitID *uuid.UUID) (*entities.DishProduct, error) {
	line := &entities.DishProduct{
		DishID:    dishID,
		ProductID: productID,
		Quantity:  quantity,
		UnitID:    unitID,
	}
	if err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "dish_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   quantity,
				"unit_id":    unitID,
				"updated_at": time.Now(),
			}),
		}).
		Create(line).Error; err != nil {
		return nil, err
	}

	var stored entities.DishProduct
	if err := r.db.WithContext(ctx).
		Where("dish_id = ? AND product_id = ?", dishID, productID).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *dishRepository) GetDishProductByID(ctx context.Context, id uuid.UUID) (*entities.DishProduct, error) {
	var line entities.DishProduct
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Unit").
		Where("id = ?", id).
		First(&line).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDishProductNotFound
		}
		return nil, err
	}
	return &line, nil
}

// GetDishProducts returns the lines of the given dishes in a stable order
// (dish, then insertion) with product and unit loaded.
func (r *dishRepository) GetDishProducts(ctx context.Context, dishIDs []uuid.UUID) ([]*entities.DishProduct, error) {
	var lines []*entities.DishProduct
	if len(dishIDs) == 0 {
		return lines, nil
	}
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Unit").
		Where("dish_id IN ?", dishIDs).
		Order("dish_id asc").
		Order("created_at asc").
		Order("id asc").
		Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *dishRepository) UpdateDishProduct(ctx context.Context, line *entities.DishProduct) error {
	return r.db.WithContext(ctx).
		Model(line).
		Omit(clause.Associations).
		Select("product_id", "quantity", "unit_id", "updated_at").
		Updates(line).Error
}

func (r *dishRepository) DeleteDishProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.ShoppingListItem{}).
			Where("dish_product_id = ?", id).
			Update("dish_product_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.DishProduct{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrDishProductNotFound
		}
		return nil
	})
}
