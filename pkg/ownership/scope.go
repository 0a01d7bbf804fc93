package ownership

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope limits a query on the kind's table to rows owned by userID.
func Scope(userID uuid.UUID, kind Kind) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		l, err := lookup(kind)
		if err != nil {
			_ = db.AddError(err)
			return db
		}
		if kind == ShoppingList {
			return db.Where(l.entityTable+".user_id = ?", userID)
		}
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table(l.table).
			Select(l.column).
			Where("user_id = ?", userID)
		return db.Where(l.entityTable+".id IN (?)", sub)
	}
}

// ListScoped returns the rows of T owned by userID. Extra scopes run after
// the ownership scope and may add ordering, filters or preloads.
func ListScoped[T any](ctx context.Context, db *gorm.DB, userID uuid.UUID, kind Kind, scopes ...func(*gorm.DB) *gorm.DB) ([]*T, error) {
	var rows []*T
	q := db.WithContext(ctx).Model(new(T)).Scopes(Scope(userID, kind)).Scopes(scopes...)
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountScoped is ListScoped's count.
func CountScoped[T any](ctx context.Context, db *gorm.DB, userID uuid.UUID, kind Kind, scopes ...func(*gorm.DB) *gorm.DB) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(new(T)).Scopes(Scope(userID, kind)).Scopes(scopes...).Count(&count).Error
	return count, err
}

// FindOwned authorizes userID on the entity and loads it into T.
func FindOwned[T any](ctx context.Context, repo OwnershipRepository, db *gorm.DB, userID uuid.UUID, kind Kind, id uuid.UUID, scopes ...func(*gorm.DB) *gorm.DB) (*T, error) {
	if err := repo.Authorize(ctx, userID, kind, id); err != nil {
		return nil, err
	}
	row := new(T)
	if err := db.WithContext(ctx).Scopes(scopes...).Where("id = ?", id).First(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func Paginate(offset, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(offset).Limit(limit)
	}
}
