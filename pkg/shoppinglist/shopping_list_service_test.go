package shoppinglist

import (
	"context"
	"errors"
	"sync"
	"testing"

	"shopmydish/domain"
	"shopmydish/entities"
	"shopmydish/internal/metrics"
	"shopmydish/internal/testutil"
	"shopmydish/pkg/catalog"
	"shopmydish/pkg/dish"
	"shopmydish/pkg/menu"
	"shopmydish/pkg/ownership"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	db      *gorm.DB
	catalog catalog.CatalogRepository
	dishes  dish.DishService
	menus   menu.MenuService
	lists   ShoppingListService
}

func newEnv(t *testing.T) env {
	t.Helper()
	db := testutil.NewTestDB(t)
	catalogRepo := catalog.NewCatalogRepository(db)
	ownershipRepo := ownership.NewOwnershipRepository(db)
	dishRepo := dish.NewDishRepository(db)
	menuRepo := menu.NewMenuRepository(db)
	return env{
		db:      db,
		catalog: catalogRepo,
		dishes:  dish.NewDishService(db, dishRepo, catalogRepo, ownershipRepo, nil),
		menus:   menu.NewMenuService(db, menuRepo, ownershipRepo),
		lists:   NewShoppingListService(db, NewShoppingListRepository(db), menuRepo, dishRepo, catalogRepo, ownershipRepo, metrics.New()),
	}
}

func qty(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func (e env) unit(t *testing.T, name, abbr string) string {
	t.Helper()
	u, err := e.catalog.GetOrCreateUnit(context.Background(), name, abbr)
	require.NoError(t, err)
	return u.ID.String()
}

func (e env) dish(t *testing.T, userID, name string, lines ...domain.DishProductRequest) string {
	t.Helper()
	d, err := e.dishes.CreateDish(context.Background(), domain.CreateDishRequest{Name: name, Products: lines}, userID)
	require.NoError(t, err)
	return d.ID.String()
}

func (e env) menu(t *testing.T, userID, name string, dishIDs ...string) string {
	t.Helper()
	m, err := e.menus.CreateMenu(context.Background(), domain.CreateMenuRequest{Name: name, DishIDs: dishIDs}, userID)
	require.NoError(t, err)
	return m.ID.String()
}

func byProduct(items []domain.ShoppingListItemResponse) map[string]domain.ShoppingListItemResponse {
	out := make(map[string]domain.ShoppingListItemResponse, len(items))
	for _, i := range items {
		out[i.ProductName+"|"+i.UnitAbbreviation] = i
	}
	return out
}

func TestBuildShoppingList_DinnerScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, e.db, "alice").ID.String()
	kg := e.unit(t, "Kilogram", "kg")
	pc := e.unit(t, "Piece", "pc")

	soup := e.dish(t, user, "Soup",
		domain.DishProductRequest{ProductName: "Tomato", Quantity: qty("2"), UnitID: kg},
		domain.DishProductRequest{ProductName: "Onion", Quantity: qty("1"), UnitID: kg},
	)
	salad := e.dish(t, user, "Salad",
		domain.DishProductRequest{ProductName: "tomato", Quantity: qty("1"), UnitID: kg},
		domain.DishProductRequest{ProductName: "Lettuce", Quantity: qty("1"), UnitID: pc},
	)
	dinner := e.menu(t, user, "Dinner", soup, salad)

	list, err := e.lists.BuildShoppingList(ctx, dinner, user)
	require.NoError(t, err)

	require.Len(t, list.Items, 3)
	items := byProduct(list.Items)
	assert.Equal(t, "3", items["Tomato|kg"].QuantityDisplay)
	assert.Equal(t, "1", items["Onion|kg"].QuantityDisplay)
	assert.Equal(t, "1", items["Lettuce|pc"].QuantityDisplay)
	assert.NotNil(t, items["Tomato|kg"].DishProductID)

	assert.Equal(t, []string{"Lettuce", "Onion", "Tomato"},
		[]string{list.Items[0].ProductName, list.Items[1].ProductName, list.Items[2].ProductName})
}

func TestBuildShoppingList_DifferentUnitsStayDistinct(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, e.db, "alice").ID.String()
	kg := e.unit(t, "Kilogram", "kg")
	pc := e.unit(t, "Piece", "pc")

	a := e.dish(t, user, "Sauce", domain.DishProductRequest{ProductName: "Tomato", Quantity: qty("2"), UnitID: kg})
	b := e.dish(t, user, "Snack", domain.DishProductRequest{ProductName: "Tomato", Quantity: qty("3"), UnitID: pc})
	c := e.dish(t, user, "Garnish", domain.DishProductRequest{ProductName: "Tomato", Quantity: qty("1")})
	m := e.menu(t, user, "Lunch", a, b, c)

	list, err := e.lists.BuildShoppingList(ctx, m, user)
	require.NoError(t, err)

	require.Len(t, list.Items, 3)
	items := byProduct(list.Items)
	assert.Equal(t, "2", items["Tomato|kg"].QuantityDisplay)
	assert.Equal(t, "3", items["Tomato|pc"].QuantityDisplay)
	assert.Equal(t, "1", items["Tomato|"].QuantityDisplay)
}

func TestBuildShoppingList_ExactDecimalSum(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, e.db, "alice").ID.String()
	l := e.unit(t, "Liter", "l")

	a := e.dish(t, user, "Pancakes", domain.DishProductRequest{ProductName: "Milk", Quantity: qty("0.1"), UnitID: l})
	b := e.dish(t, user, "Porridge", domain.DishProductRequest{ProductName: "Milk", Quantity: qty("0.2"), UnitID: l})
	m := e.menu(t, user, "Breakfast", a, b)

	list, err := e.lists.BuildShoppingList(ctx, m, user)
	require.NoError(t, err)

	require.Len(t, list.Items, 1)
	assert.True(t, list.Items[0].Quantity.Equal(decimal.RequireFromString("0.3")), list.Items[0].Quantity.String())
	assert.Equal(t, "0.30", list.Items[0].QuantityDisplay)
}

func TestBuildShoppingList_NullQuantityContributesZero(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, e.db, "alice").ID.String()

	a := e.dish(t, user, "Soup", domain.DishProductRequest{ProductName: "Salt"})
	m := e.menu(t, user, "Dinner", a)

	list, err := e.lists.BuildShoppingList(ctx, m, user)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "0", list.Items[0].QuantityDisplay)
}

func TestBuildShoppingList_EmptyMenu(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, e.db, "alice").ID.String()
	m := e.menu(t, user, "Nothing")

	list, err := e.lists.BuildShoppingList(ctx, m, user)
	require.NoError(t, err)
	assert.Empty(t, list.Items)

	var count int64
	e.db.Model(&entities.ShoppingList{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBuildShoppingList_TwiceKeepsHistory(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, e.db, "alice").ID.String()
	a := e.dish(t, user, "Soup", domain.DishProductRequest{ProductName: "Tomato", Quantity: qty("1")})
	m := e.menu(t, user, "Dinner", a)

	first, err := e.lists.BuildShoppingList(ctx, m, user)
	require.NoError(t, err)
	second, err := e.lists.BuildShoppingList(ctx, m, user)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	lists, err := e.lists.GetShoppingLists(ctx, user)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	for _, l := range lists {
		require.Len(t, l.Items, 1)
		assert.Equal(t, "1", l.Items[0].QuantityDisplay)
	}
}

func TestBuildShoppingList_ConcurrentBuildsAreIndependent(t *testing.T) {
	e := newEnv(t)
	user := testutil.CreateUser(t, e.db, "alice").ID.String()
	a := e.dish(t, user, "Soup", domain.DishProductRequest{ProductName: "Tomato", Quantity: qty("1")})
	m := e.menu(t, user, "Dinner", a)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.lists.BuildShoppingList(context.Background(), m, user)
		}(i)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	var count int64
	e.db.Model(&entities.ShoppingList{}).Count(&count)
	assert.Equal(t, int64(2), count)
}

func TestBuildShoppingList_RollsBackOnFailure(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, e.db, "alice").ID.String()
	a := e.dish(t, user, "Soup", domain.DishProductRequest{ProductName: "Tomato", Quantity: qty("1")})
	m := e.menu(t, user, "Dinner", a)

	require.NoError(t, e.db.Callback().Create().Before("gorm:create").Register("test:fail_items", func(tx *gorm.DB) {
		if tx.Statement.Table == "shopping_list_items" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err := e.lists.BuildShoppingList(ctx, m, user)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAggregationFailed)

	var count int64
	e.db.Model(&entities.ShoppingList{}).Count(&count)
	assert.Zero(t, count, "no partial shopping list")
	e.db.Model(&entities.ShoppingListItem{}).Count(&count)
	assert.Zero(t, count)
}

func TestShoppingListOwnership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.db, "alice").ID.String()
	bob := testutil.CreateUser(t, e.db, "bob").ID.String()
	a := e.dish(t, alice, "Soup", domain.DishProductRequest{ProductName: "Tomato", Quantity: qty("1")})
	m := e.menu(t, alice, "Dinner", a)

	_, err := e.lists.BuildShoppingList(ctx, m, bob)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	list, err := e.lists.BuildShoppingList(ctx, m, alice)
	require.NoError(t, err)
	itemID := list.Items[0].ID.String()

	_, err = e.lists.GetShoppingListDetail(ctx, list.ID.String(), bob)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	_, err = e.lists.AddItem(ctx, list.ID.String(), domain.AddShoppingListItemRequest{ProductName: "Bread", Quantity: qty("1")}, bob)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	_, err = e.lists.UpdateItem(ctx, itemID, domain.UpdateShoppingListItemRequest{Quantity: qty("9")}, bob)
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.ErrorIs(t, e.lists.DeleteItem(ctx, itemID, bob), domain.ErrPermissionDenied)
	assert.ErrorIs(t, e.lists.DeleteShoppingList(ctx, list.ID.String(), bob), domain.ErrPermissionDenied)

	bobs, err := e.lists.GetShoppingLists(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobs)
}

func TestShoppingListItems(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, e.db, "alice").ID.String()
	kg := e.unit(t, "Kilogram", "kg")
	g := e.unit(t, "Gram", "g")
	a := e.dish(t, user, "Soup", domain.DishProductRequest{ProductName: "Tomato", Quantity: qty("2"), UnitID: kg})
	m := e.menu(t, user, "Dinner", a)
	list, err := e.lists.BuildShoppingList(ctx, m, user)
	require.NoError(t, err)
	listID := list.ID.String()

	merged, err := e.lists.AddItem(ctx, listID, domain.AddShoppingListItemRequest{ProductName: "tomato", Quantity: qty("0.5"), UnitID: kg}, user)
	require.NoError(t, err)
	assert.Equal(t, list.Items[0].ID, merged.ID)
	assert.Equal(t, "2.50", merged.QuantityDisplay)

	bread, err := e.lists.AddItem(ctx, listID, domain.AddShoppingListItemRequest{ProductName: "Bread", Quantity: qty("1")}, user)
	require.NoError(t, err)
	assert.Equal(t, "Bread", bread.ProductName)

	_, err = e.lists.AddItem(ctx, listID, domain.AddShoppingListItemRequest{ProductName: "Milk", Quantity: qty("-1")}, user)
	assert.ErrorIs(t, err, domain.ErrValidation)

	updated, err := e.lists.UpdateItem(ctx, bread.ID.String(), domain.UpdateShoppingListItemRequest{Quantity: qty("500"), UnitID: g}, user)
	require.NoError(t, err)
	assert.Equal(t, "500", updated.QuantityDisplay)
	assert.Equal(t, "g", updated.UnitAbbreviation)

	require.NoError(t, e.lists.DeleteItem(ctx, bread.ID.String(), user))
	detail, err := e.lists.GetShoppingListDetail(ctx, listID, user)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)

	require.NoError(t, e.lists.DeleteShoppingList(ctx, listID, user))
	var count int64
	e.db.Model(&entities.ShoppingListItem{}).Count(&count)
	assert.Zero(t, count)
	_, err = e.lists.GetShoppingListDetail(ctx, listID, user)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateItem_MergesOnUnitCollision(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, e.db, "alice").ID.String()
	kg := e.unit(t, "Kilogram", "kg")
	m := e.menu(t, user, "Empty")
	list, err := e.lists.BuildShoppingList(ctx, m, user)
	require.NoError(t, err)
	listID := list.ID.String()

	withUnit, err := e.lists.AddItem(ctx, listID, domain.AddShoppingListItemRequest{ProductName: "Rice", Quantity: qty("1"), UnitID: kg}, user)
	require.NoError(t, err)
	loose, err := e.lists.AddItem(ctx, listID, domain.AddShoppingListItemRequest{ProductName: "Rice", Quantity: qty("2")}, user)
	require.NoError(t, err)
	require.NotEqual(t, withUnit.ID, loose.ID)

	res, err := e.lists.UpdateItem(ctx, loose.ID.String(), domain.UpdateShoppingListItemRequest{Quantity: qty("2"), UnitID: kg}, user)
	require.NoError(t, err)
	assert.Equal(t, withUnit.ID, res.ID)
	assert.Equal(t, "3", res.QuantityDisplay)

	detail, err := e.lists.GetShoppingListDetail(ctx, listID, user)
	require.NoError(t, err)
	assert.Len(t, detail.Items, 1)
}
