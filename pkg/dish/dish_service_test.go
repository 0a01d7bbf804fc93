package dish

import (
	"context"
	"mime/multipart"
	"sort"
	"testing"

	"shopmydish/domain"
	"shopmydish/entities"
	"shopmydish/internal/testutil"
	"shopmydish/internal/utils/storage"
	"shopmydish/pkg/catalog"
	"shopmydish/pkg/ownership"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeS3 struct {
	uploaded []string
	deleted  []string
}

func (f *fakeS3) UploadFile(_ context.Context, fileName string, _ *multipart.FileHeader, folder string, _ ...string) (string, error) {
	key := folder + "/" + fileName + ".png"
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeS3) DeleteFile(_ context.Context, objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	return nil
}

func (f *fakeS3) GetPublicLinkKey(objectKey string) string {
	return storage.PublicLink("bucket", "region", objectKey)
}

func (f *fakeS3) GetObjectKeyFromLink(link string) string {
	return storage.ObjectKeyFromLink("bucket", "region", link)
}

type fixture struct {
	db      *gorm.DB
	svc     DishService
	catalog catalog.CatalogRepository
	s3      *fakeS3
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	catalogRepo := catalog.NewCatalogRepository(db)
	s3 := &fakeS3{}
	svc := NewDishService(db, NewDishRepository(db), catalogRepo, ownership.NewOwnershipRepository(db), s3)
	return fixture{db: db, svc: svc, catalog: catalogRepo, s3: s3}
}

func qty(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateDish_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "alice")
	kg, err := f.catalog.GetOrCreateUnit(ctx, "Kilogram", "kg")
	require.NoError(t, err)

	created, err := f.svc.CreateDish(ctx, domain.CreateDishRequest{
		Name:   "Soup",
		Recipe: "Boil everything.",
		Products: []domain.DishProductRequest{
			{ProductName: "tomato", Quantity: qty("2"), UnitID: kg.ID.String()},
			{ProductName: "Onion", Quantity: qty("1.5"), UnitID: kg.ID.String()},
			{ProductName: "salt"},
		},
	}, user.ID.String())
	require.NoError(t, err)

	got, err := f.svc.GetDishDetail(ctx, created.ID.String(), user.ID.String())
	require.NoError(t, err)
	require.Len(t, got.Products, 3)

	triples := make([]string, 0, 3)
	for _, p := range got.Products {
		triples = append(triples, p.ProductName+"|"+p.QuantityDisplay+"|"+p.UnitAbbreviation)
	}
	sort.Strings(triples)
	assert.Equal(t, []string{"Onion|1.50|kg", "Salt||", "Tomato|2|kg"}, triples)

	var owned int64
	f.db.Model(&entities.UserProduct{}).Where("user_id = ?", user.ID).Count(&owned)
	assert.Equal(t, int64(3), owned)
}

func TestCreateDish_DuplicateName(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "alice")

	_, err := f.svc.CreateDish(ctx, domain.CreateDishRequest{Name: "Soup"}, user.ID.String())
	require.NoError(t, err)

	_, err = f.svc.CreateDish(ctx, domain.CreateDishRequest{Name: "soup"}, user.ID.String())
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")
}

func TestCreateDish_NegativeQuantityPersistsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "alice")

	_, err := f.svc.CreateDish(ctx, domain.CreateDishRequest{
		Name: "Soup",
		Products: []domain.DishProductRequest{
			{ProductName: "Tomato", Quantity: qty("1")},
			{ProductName: "Onion", Quantity: qty("-1")},
		},
	}, user.ID.String())
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "products[1].quantity")

	var count int64
	f.db.Model(&entities.Dish{}).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&entities.DishProduct{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateDish_Lines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "alice")

	created, err := f.svc.CreateDish(ctx, domain.CreateDishRequest{
		Name: "Salad",
		Products: []domain.DishProductRequest{
			{ProductName: "Lettuce", Quantity: qty("1")},
			{ProductName: "Tomato", Quantity: qty("2")},
		},
	}, user.ID.String())
	require.NoError(t, err)
	lines := map[string]string{}
	for _, p := range created.Products {
		lines[p.ProductName] = p.ID.String()
	}

	updated, err := f.svc.UpdateDish(ctx, created.ID.String(), domain.UpdateDishRequest{
		Name:       "Green salad",
		IsFavorite: true,
		Products: []domain.DishProductRequest{
			{ID: lines["Lettuce"], Delete: true},
			{ID: lines["Tomato"], ProductName: "Tomato", Quantity: qty("3")},
			{ProductName: "Cucumber", Quantity: qty("1")},
		},
	}, user.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Green salad", updated.Name)
	assert.True(t, updated.IsFavorite)
	require.Len(t, updated.Products, 2)
	assert.Equal(t, "Cucumber", updated.Products[0].ProductName)
	assert.Equal(t, "Tomato", updated.Products[1].ProductName)
	assert.Equal(t, "3", updated.Products[1].QuantityDisplay)
}

func TestDishOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")

	created, err := f.svc.CreateDish(ctx, domain.CreateDishRequest{
		Name:     "Soup",
		Products: []domain.DishProductRequest{{ProductName: "Tomato", Quantity: qty("1")}},
	}, alice.ID.String())
	require.NoError(t, err)

	_, err = f.svc.GetDishDetail(ctx, created.ID.String(), bob.ID.String())
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	_, err = f.svc.UpdateDish(ctx, created.ID.String(), domain.UpdateDishRequest{Name: "Mine"}, bob.ID.String())
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)
	assert.ErrorIs(t, f.svc.DeleteDish(ctx, created.ID.String(), bob.ID.String()), domain.ErrPermissionDenied)
	assert.ErrorIs(t, f.svc.DeleteDishProduct(ctx, created.Products[0].ID.String(), bob.ID.String()), domain.ErrPermissionDenied)

	list, err := f.svc.GetDishes(ctx, domain.DishListRequest{}, bob.ID.String())
	require.NoError(t, err)
	assert.Empty(t, list.Dishes)
}

func TestDeleteDish_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "alice")

	created, err := f.svc.CreateDish(ctx, domain.CreateDishRequest{
		Name:     "Soup",
		Products: []domain.DishProductRequest{{ProductName: "Tomato", Quantity: qty("1")}},
	}, user.ID.String())
	require.NoError(t, err)

	menu := &entities.Menu{Name: "Dinner"}
	require.NoError(t, f.db.Create(menu).Error)
	require.NoError(t, f.db.Create(&entities.MenuDish{MenuID: menu.ID, DishID: created.ID}).Error)
	list := &entities.ShoppingList{UserID: user.ID, MenuID: &menu.ID}
	require.NoError(t, f.db.Create(list).Error)
	lineID := created.Products[0].ID
	item := &entities.ShoppingListItem{
		ShoppingListID: list.ID,
		ProductID:      created.Products[0].ProductID,
		DishProductID:  &lineID,
		Quantity:       decimal.NewFromInt(1),
	}
	require.NoError(t, f.db.Create(item).Error)

	require.NoError(t, f.svc.DeleteDish(ctx, created.ID.String(), user.ID.String()))

	var count int64
	f.db.Model(&entities.DishProduct{}).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&entities.UserDish{}).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&entities.MenuDish{}).Count(&count)
	assert.Zero(t, count)
	f.db.Model(&entities.Product{}).Count(&count)
	assert.Equal(t, int64(1), count, "products are shared and survive")
	f.db.Model(&entities.Menu{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var reloaded entities.ShoppingListItem
	require.NoError(t, f.db.First(&reloaded, "id = ?", item.ID).Error)
	assert.Nil(t, reloaded.DishProductID)
}

func TestUpdateDishProduct(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "alice")
	g, err := f.catalog.GetOrCreateUnit(ctx, "Gram", "g")
	require.NoError(t, err)

	created, err := f.svc.CreateDish(ctx, domain.CreateDishRequest{
		Name:     "Bread",
		Products: []domain.DishProductRequest{{ProductName: "Flour", Quantity: qty("1")}},
	}, user.ID.String())
	require.NoError(t, err)

	line, err := f.svc.UpdateDishProduct(ctx, created.Products[0].ID.String(), domain.UpdateDishProductRequest{
		ProductName: "flour",
		Quantity:    qty("500"),
		UnitID:      g.ID.String(),
	}, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "500", line.QuantityDisplay)
	assert.Equal(t, "g", line.UnitAbbreviation)
}

func TestUploadDishImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, f.db, "alice")

	created, err := f.svc.CreateDish(ctx, domain.CreateDishRequest{Name: "Soup"}, user.ID.String())
	require.NoError(t, err)

	_, err = f.svc.UploadDishImage(ctx, created.ID.String(), domain.UploadDishImageRequest{}, user.ID.String())
	assert.ErrorIs(t, err, domain.ErrValidation)

	res, err := f.svc.UploadDishImage(ctx, created.ID.String(), domain.UploadDishImageRequest{Image: &multipart.FileHeader{Filename: "soup.png"}}, user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, storage.PublicLink("bucket", "region", "dishes/dish-"+created.ID.String()+".png"), res.ImageURL)

	require.NoError(t, f.svc.DeleteDish(ctx, created.ID.String(), user.ID.String()))
	assert.Equal(t, []string{"dishes/dish-" + created.ID.String() + ".png"}, f.s3.deleted)
}
