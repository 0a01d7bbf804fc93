package ownership

import (
	"context"
	"fmt"

	"shopmydish/domain"
	"shopmydish/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Kind names an owned entity type.
type Kind string

const (
	Product      Kind = "product"
	Dish         Kind = "dish"
	Menu         Kind = "menu"
	ShoppingList Kind = "shopping_list"
)

type link struct {
	table       string // table holding (user_id, column)
	column      string
	entityTable string
	notFound    error
}

// Shopping lists carry user_id themselves; the others go through a link table.
var links = map[Kind]link{
	Product:      {table: "user_products", column: "product_id", entityTable: "products", notFound: domain.ErrProductNotFound},
	Dish:         {table: "user_dishes", column: "dish_id", entityTable: "dishes", notFound: domain.ErrDishNotFound},
	Menu:         {table: "user_menus", column: "menu_id", entityTable: "menus", notFound: domain.ErrMenuNotFound},
	ShoppingList: {table: "shopping_lists", column: "id", entityTable: "shopping_lists", notFound: domain.ErrShoppingListNotFound},
}

func lookup(kind Kind) (link, error) {
	l, ok := links[kind]
	if !ok {
		return link{}, fmt.Errorf("unknown ownership kind %q", kind)
	}
	return l, nil
}

func linkModel(kind Kind) (any, error) {
	switch kind {
	case Product:
		return &entities.UserProduct{}, nil
	case Dish:
		return &entities.UserDish{}, nil
	case Menu:
		return &entities.UserMenu{}, nil
	}
	return nil, fmt.Errorf("ownership kind %q has no link table", kind)
}

type (
	OwnershipRepository interface {
		Link(ctx context.Context, userID uuid.UUID, kind Kind, entityID uuid.UUID) error
		Unlink(ctx context.Context, userID uuid.UUID, kind Kind, entityID uuid.UUID) error
		UnlinkAll(ctx context.Context, kind Kind, entityID uuid.UUID) error
		IsOwnedBy(ctx context.Context, userID uuid.UUID, kind Kind, entityID uuid.UUID) (bool, error)
		Authorize(ctx context.Context, userID uuid.UUID, kind Kind, entityID uuid.UUID) error
		WithTx(tx *gorm.DB) OwnershipRepository
	}

	ownershipRepository struct {
		db *gorm.DB
	}
)

func NewOwnershipRepository(db *gorm.DB) OwnershipRepository {
	return &ownershipRepository{db: db}
}

func (r *ownershipRepository) WithTx(tx *gorm.DB) OwnershipRepository {
	return &ownershipRepository{db: tx}
}

// Link records that userID owns the entity. Linking twice is a no-op.
func (r *ownershipRepository) Link(ctx context.Context, userID uuid.UUID, kind Kind, entityID uuid.UUID) error {
	var row any
	switch kind {
	case Product:
		row = &entities.UserProduct{UserID: userID, ProductID: entityID}
	case Dish:
		row = &entities.UserDish{UserID: userID, DishID: entityID}
	case Menu:
		row = &entities.UserMenu{UserID: userID, MenuID: entityID}
	default:
		return fmt.Errorf("cannot link ownership kind %q", kind)
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: links[kind].column}},
			DoNothing: true,
		}).
		Create(row).Error
}

func (r *ownershipRepository) Unlink(ctx context.Context, userID uuid.UUID, kind Kind, entityID uuid.UUID) error {
	model, err := linkModel(kind)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where("user_id = ? AND "+links[kind].column+" = ?", userID, entityID).
		Delete(model).Error
}

// UnlinkAll drops every owner of the entity. Used when the entity itself
// is deleted.
func (r *ownershipRepository) UnlinkAll(ctx context.Context, kind Kind, entityID uuid.UUID) error {
	if kind == ShoppingList {
		return nil
	}
	model, err := linkModel(kind)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Where(links[kind].column+" = ?", entityID).
		Delete(model).Error
}

func (r *ownershipRepository) IsOwnedBy(ctx context.Context, userID uuid.UUID, kind Kind, entityID uuid.UUID) (bool, error) {
	l, err := lookup(kind)
	if err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Table(l.table).
		Where("user_id = ? AND "+l.column+" = ?", userID, entityID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Authorize returns nil when userID owns the entity, the kind's not-found
// error when the entity does not exist, and a permission error otherwise.
func (r *ownershipRepository) Authorize(ctx context.Context, userID uuid.UUID, kind Kind, entityID uuid.UUID) error {
	owned, err := r.IsOwnedBy(ctx, userID, kind, entityID)
	if err != nil {
		return err
	}
	if owned {
		return nil
	}

	l := links[kind]
	var count int64
	if err := r.db.WithContext(ctx).
		Table(l.entityTable).
		Where("id = ?", entityID).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return l.notFound
	}
	return fmt.Errorf("%w: %s", domain.ErrPermissionDenied, kind)
}
