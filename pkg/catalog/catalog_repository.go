package catalog

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
	CatalogRepository interface {
		GetOrCreateProduct(ctx context.Context, name string, favorite bool) (*entities.Product, error)
		GetProductByID(ctx context.Context, id uuid.UUID) (*entities.Product, error)
		GetProductsByUser(ctx context.Context, userID uuid.UUID, favoriteOnly bool) ([]*entities.Product, error)
		UpdateProduct(ctx context.Context, product *entities.Product) error
		DeleteProduct(ctx context.Context, id uuid.UUID) error

		GetOrCreateUnit(ctx context.Context, name, abbreviation string) (*entities.Unit, error)
		GetUnitByID(ctx context.Context, id uuid.UUID) (*entities.Unit, error)
		GetUnits(ctx context.Context) ([]*entities.Unit, error)
		UpdateUnit(ctx context.Context, unit *entities.Unit) error
		DeleteUnit(ctx context.Context, id uuid.UUID) error

		WithTx(tx *gorm.DB) CatalogRepository
	}

	catalogRepository struct {
		db *gorm.DB
	}
)

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) WithTx(tx *gorm.DB) CatalogRepository {
	return &catalogRepository{db: tx}
}

// GetOrCreateProduct inserts the product unless the name is taken and then
// returns the stored row. A concurrent insert of the same name ends up in
// the read branch instead of failing. favorite only applies to new rows.
func (r *catalogRepository) GetOrCreateProduct(ctx context.Context, name string, favorite bool) (*entities.Product, error) {
	product := &entities.Product{Name: name, IsFavorite: favorite}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(product)
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return nil, res.Error
	}
	if res.Error == nil && res.RowsAffected == 1 {
		return product, nil
	}

	var existing entities.Product
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *catalogRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*entities.Product, error) {
	var product entities.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *catalogRepository) GetProductsByUser(ctx context.Context, userID uuid.UUID, favoriteOnly bool) ([]*entities.Product, error) {
	return ownership.ListScoped[entities.Product](ctx, r.db, userID, ownership.Product,
		func(db *gorm.DB) *gorm.DB {
			if favoriteOnly {
				db = db.Where("products.is_favorite = ?", true)
			}
			return db.Order("LOWER(products.name) asc")
		},
	)
}

func (r *catalogRepository) UpdateProduct(ctx context.Context, product *entities.Product) error {
	return r.db.WithContext(ctx).
		Model(product).
		Select("name", "is_favorite", "updated_at").
		Updates(product).Error
}

// DeleteProduct removes the product together with the dish lines,
// ownership links and shopping-list items that reference it.
func (r *catalogRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&entities.ShoppingListItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&entities.DishProduct{}).Error; err != nil {
			return err
		}
		if err := ownership.NewOwnershipRepository(tx).UnlinkAll(ctx, ownership.Product, id); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.Product{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrProductNotFound
		}
		return nil
	})
}

// GetOrCreateUnit matches an existing unit on either name or abbreviation,
// since both are unique on their own.
func (r *catalogRepository) GetOrCreateUnit(ctx context.Context, name, abbreviation string) (*entities.Unit, error) {
	unit := &entities.Unit{Name: name, Abbreviation: abbreviation}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(unit)
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return nil, res.Error
	}
	if res.Error == nil && res.RowsAffected == 1 {
		return unit, nil
	}

	var existing entities.Unit
	if err := r.db.WithContext(ctx).
		Where("name = ? OR abbreviation = ?", name, abbreviation).
		Order(clause.OrderBy{Expression: clause.Expr{SQL: "CASE WHEN name = ? THEN 0 ELSE 1 END", Vars: []any{name}}}).
		First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *catalogRepository) GetUnitByID(ctx context.Context, id uuid.UUID) (*entities.Unit, error) {
	var unit entities.Unit
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUnitNotFound
		}
		return nil, err
	}
	return &unit, nil
}

func (r *catalogRepository) GetUnits(ctx context.Context) ([]*entities.Unit, error) {
	var units []*entities.Unit
	if err := r.db.WithContext(ctx).Order("LOWER(name) asc").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

func (r *catalogRepository) UpdateUnit(ctx context.Context, unit *entities.Unit) error {
	err := r.db.WithContext(ctx).
		Model(unit).
		Select("name", "abbreviation", "updated_at").
		Updates(unit).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.NewValidationError("name", "a unit with this name or abbreviation already exists")
	}
	return err
}

// DeleteUnit clears the unit from dish lines and shopping-list items
// before removing it.
func (r *catalogRepository) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entities.DishProduct{}).Where("unit_id = ?", id).Update("unit_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&entities.ShoppingListItem{}).Where("unit_id = ?", id).Update("unit_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entities.Unit{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrUnitNotFound
		}
		return nil
	})
}
