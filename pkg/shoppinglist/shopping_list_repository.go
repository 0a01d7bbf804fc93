package shoppinglist

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

type (
	ShoppingListRepository interface {
		CreateShoppingList(ctx context.Context, list *entities.ShoppingList) error
		CreateItems(ctx context.Context, items []*entities.ShoppingListItem) error
		GetShoppingListByID(ctx context.Context, id uuid.UUID) (*entities.ShoppingList, error)
		GetShoppingListsByUser(ctx context.Context, userID uuid.UUID) ([]*entities.ShoppingList, error)
		DeleteShoppingList(ctx context.Context, id uuid.UUID) error

		GetItemByID(ctx context.Context, id uuid.UUID) (*entities.ShoppingListItem, error)
		FindItem(ctx context.Context, listID, productID uuid.UUID, unitID *uuid.UUID) (*entities.ShoppingListItem, error)
		UpdateItem(ctx context.Context, item *entities.ShoppingListItem) error
		DeleteItem(ctx context.Context, id uuid.UUID) error

		WithTx(tx *gorm.DB) ShoppingListRepository
	}

	shoppingListRepository struct {
		db *gorm.DB
	}
)

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

func (r *shoppingListRepository) WithTx(tx *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: tx}
}

func (r *shoppingListRepository) CreateShoppingList(ctx context.Context, list *entities.ShoppingList) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(list).Error
}

func (r *shoppingListRepository) CreateItems(ctx context.Context, items []*entities.ShoppingListItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(&items).Error
}

func itemsInDisplayOrder(db *gorm.DB) *gorm.DB {
	return db.Preload("Product").Preload("Unit").Order("created_at asc")
}

func (r *shoppingListRepository) GetShoppingListByID(ctx context.Context, id uuid.UUID) (*entities.ShoppingList, error) {
	var list entities.ShoppingList
	if err := r.db.WithContext(ctx).
		Preload("Items", itemsInDisplayOrder).
		Where("id = ?", id).
		First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShoppingListNotFound
		}
		return nil, err
	}
	return &list, nil
}

func (r *shoppingListRepository) GetShoppingListsByUser(ctx context.Context, userID uuid.UUID) ([]*entities.ShoppingList, error) {
	return ownership.ListScoped[entities.ShoppingList](ctx, r.db, userID, ownership.ShoppingList,
		func(db *gorm.DB) *gorm.DB {
			return db.Preload("Items", itemsInDisplayOrder).Order("shopping_lists.created_at desc")
		},
	)
}

func (r *shoppingListRepository) DeleteShoppingList(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shopping_list_id = ?", id).Delete(&entities.ShoppingListItem{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.ShoppingList{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrShoppingListNotFound
		}
		return nil
	})
}

func (r *shoppingListRepository) GetItemByID(ctx context.Context, id uuid.UUID) (*entities.ShoppingListItem, error) {
	var item entities.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Unit").
		Where("id = ?", id).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShoppingListItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindItem returns the list's line for (product, unit), or nil when there
// is none. A nil unit only matches lines without a unit.
func (r *shoppingListRepository) FindItem(ctx context.Context, listID, productID uuid.UUID, unitID *uuid.UUID) (*entities.ShoppingListItem, error) {
	q := r.db.WithContext(ctx).Where("shopping_list_id = ? AND product_id = ?", listID, productID)
	if unitID == nil {
		q = q.Where("unit_id IS NULL")
	} else {
		q = q.Where("unit_id = ?", *unitID)
	}

	var item entities.ShoppingListItem
	if err := q.First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

// UpdateItem saves an existing item, or inserts it when it has no id yet.
func (r *shoppingListRepository) UpdateItem(ctx context.Context, item *entities.ShoppingListItem) error {
	if item.ID == uuid.Nil {
		return r.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error
	}
	return r.db.WithContext(ctx).
		Model(item).
		Omit(clause.Associations).
		Select("quantity", "unit_id", "dish_product_id", "updated_at").
		Updates(item).Error
}

func (r *shoppingListRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.ShoppingListItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrShoppingListItemNotFound
	}
	return nil
}
