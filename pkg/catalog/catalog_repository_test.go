package catalog

import (
	"context"
	"sync"
	"testing"

	"shopmydish/domain"
	"shopmydish/entities"
	"shopmydish/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreateProduct_ReusesExisting(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	first, err := repo.GetOrCreateProduct(ctx, "Tomato", true)
	require.NoError(t, err)
	second, err := repo.GetOrCreateProduct(ctx, "Tomato", false)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsFavorite, "favorite only applies on create")

	var count int64
	require.NoError(t, db.Model(&entities.Product{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetOrCreateProduct_ConcurrentFirstCreate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCatalogRepository(db)

	var wg sync.WaitGroup
	ids := make([]uuid.UUID, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := repo.GetOrCreateProduct(context.Background(), "Basil", false)
			errs[i] = err
			if err == nil {
				ids[i] = p.ID
			}
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, ids[0], ids[1])

	var count int64
	require.NoError(t, db.Model(&entities.Product{}).Where("name = ?", "Basil").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetOrCreateUnit_MatchesNameOrAbbreviation(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	kg, err := repo.GetOrCreateUnit(ctx, "Kilogram", "kg")
	require.NoError(t, err)

	again, err := repo.GetOrCreateUnit(ctx, "Kilogram", "kg")
	require.NoError(t, err)
	assert.Equal(t, kg.ID, again.ID)

	byAbbr, err := repo.GetOrCreateUnit(ctx, "Kilo", "kg")
	require.NoError(t, err)
	assert.Equal(t, kg.ID, byAbbr.ID)
}

func TestDeleteUnit_ClearsReferences(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()

	unit, err := repo.GetOrCreateUnit(ctx, "Gram", "g")
	require.NoError(t, err)
	product, err := repo.GetOrCreateProduct(ctx, "Flour", false)
	require.NoError(t, err)
	dish := &entities.Dish{Name: "Bread"}
	require.NoError(t, db.Create(dish).Error)
	line := &entities.DishProduct{
		DishID:    dish.ID,
		ProductID: product.ID,
		Quantity:  decimal.NewNullDecimal(decimal.NewFromInt(500)),
		UnitID:    &unit.ID,
	}
	require.NoError(t, db.Create(line).Error)

	require.NoError(t, repo.DeleteUnit(ctx, unit.ID))

	var reloaded entities.DishProduct
	require.NoError(t, db.First(&reloaded, "id = ?", line.ID).Error)
	assert.Nil(t, reloaded.UnitID)

	assert.ErrorIs(t, repo.DeleteUnit(ctx, unit.ID), domain.ErrNotFound)
}

func TestDeleteProduct_Cascades(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewCatalogRepository(db)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")

	product, err := repo.GetOrCreateProduct(ctx, "Onion", false)
	require.NoError(t, err)
	require.NoError(t, db.Create(&entities.UserProduct{UserID: user.ID, ProductID: product.ID}).Error)
	dish := &entities.Dish{Name: "Soup"}
	require.NoError(t, db.Create(dish).Error)
	require.NoError(t, db.Create(&entities.DishProduct{DishID: dish.ID, ProductID: product.ID}).Error)

	require.NoError(t, repo.DeleteProduct(ctx, product.ID))

	var count int64
	db.Model(&entities.DishProduct{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&entities.UserProduct{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&entities.Dish{}).Count(&count)
	assert.Equal(t, int64(1), count, "dish survives")
}
