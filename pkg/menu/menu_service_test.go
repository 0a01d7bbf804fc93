package menu

import (
	"context"
	"testing"

	"shopmydish/domain"
	"shopmydish/entities"
	"shopmydish/internal/testutil"
	"shopmydish/pkg/ownership"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*gorm.DB, MenuService) {
	t.Helper()
	db := testutil.NewTestDB(t)
	return db, NewMenuService(db, NewMenuRepository(db), ownership.NewOwnershipRepository(db))
}

func ownedDish(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) string {
	t.Helper()
	d := &entities.Dish{Name: name}
	require.NoError(t, db.Create(d).Error)
	require.NoError(t, ownership.NewOwnershipRepository(db).Link(context.Background(), userID, ownership.Dish, d.ID))
	return d.ID.String()
}

func TestCreateMenu(t *testing.T) {
	db, svc := newService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")
	soup := ownedDish(t, db, user.ID, "Soup")
	salad := ownedDish(t, db, user.ID, "Salad")

	m, err := svc.CreateMenu(ctx, domain.CreateMenuRequest{Name: "  Sunday   Dinner ", DishIDs: []string{soup, salad}}, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Sunday Dinner", m.Name)
	require.Len(t, m.Dishes, 2)
	assert.ElementsMatch(t, []string{"Soup", "Salad"}, []string{m.Dishes[0].Name, m.Dishes[1].Name})

	_, err = svc.CreateMenu(ctx, domain.CreateMenuRequest{Name: "sunday dinner"}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.CreateMenu(ctx, domain.CreateMenuRequest{Name: "   "}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrValidation)

	empty, err := svc.CreateMenu(ctx, domain.CreateMenuRequest{Name: "Fasting"}, user.ID.String())
	require.NoError(t, err)
	assert.Empty(t, empty.Dishes)
}

func TestCreateMenu_RejectsForeignDish(t *testing.T) {
	db, svc := newService(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	soup := ownedDish(t, db, alice.ID, "Soup")

	_, err := svc.CreateMenu(ctx, domain.CreateMenuRequest{Name: "Dinner", DishIDs: []string{soup}}, bob.ID.String())
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	var count int64
	db.Model(&entities.Menu{}).Count(&count)
	assert.Zero(t, count)
}

func TestAddDish_Idempotent(t *testing.T) {
	db, svc := newService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")
	soup := ownedDish(t, db, user.ID, "Soup")
	m, err := svc.CreateMenu(ctx, domain.CreateMenuRequest{Name: "Dinner"}, user.ID.String())
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		res, err := svc.AddDish(ctx, m.ID.String(), domain.MenuDishRequest{DishID: soup}, user.ID.String())
		require.NoError(t, err)
		assert.Len(t, res.Dishes, 1)
	}

	var count int64
	db.Model(&entities.MenuDish{}).Count(&count)
	assert.Equal(t, int64(1), count)

	res, err := svc.RemoveDish(ctx, m.ID.String(), soup, user.ID.String())
	require.NoError(t, err)
	assert.Empty(t, res.Dishes)
}

func TestDeleteMenu_KeepsDishesAndDetachesLists(t *testing.T) {
	db, svc := newService(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "alice")
	soup := ownedDish(t, db, user.ID, "Soup")
	m, err := svc.CreateMenu(ctx, domain.CreateMenuRequest{Name: "Dinner", DishIDs: []string{soup}}, user.ID.String())
	require.NoError(t, err)
	list := &entities.ShoppingList{UserID: user.ID, MenuID: &m.ID}
	require.NoError(t, db.Create(list).Error)

	require.NoError(t, svc.DeleteMenu(ctx, m.ID.String(), user.ID.String()))

	var count int64
	db.Model(&entities.Dish{}).Count(&count)
	assert.Equal(t, int64(1), count)
	db.Model(&entities.MenuDish{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&entities.UserMenu{}).Count(&count)
	assert.Zero(t, count)

	var stored entities.ShoppingList
	require.NoError(t, db.First(&stored, "id = ?", list.ID).Error)
	assert.Nil(t, stored.MenuID)

	_, err = svc.GetMenuDetail(ctx, m.ID.String(), user.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMenuOwnership(t *testing.T) {
	db, svc := newService(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	m, err := svc.CreateMenu(ctx, domain.CreateMenuRequest{Name: "Dinner"}, alice.ID.String())
	require.NoError(t, err)
	id := m.ID.String()

	_, err = svc.GetMenuDetail(ctx, id, bob.ID.String())
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	_, err = svc.UpdateMenu(ctx, id, domain.UpdateMenuRequest{Name: "Mine"}, bob.ID.String())
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.ErrorIs(t, svc.DeleteMenu(ctx, id, bob.ID.String()), domain.ErrPermissionDenied)

	menus, err := svc.GetMenus(ctx, bob.ID.String())
	require.NoError(t, err)
	assert.Empty(t, menus)

	updated, err := svc.UpdateMenu(ctx, id, domain.UpdateMenuRequest{Name: "Supper"}, alice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Supper", updated.Name)

	_, err = svc.GetMenuDetail(ctx, "not-a-uuid", alice.ID.String())
	assert.ErrorIs(t, err, domain.ErrParseUUID)
}
