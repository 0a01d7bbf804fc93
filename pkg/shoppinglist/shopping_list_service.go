package shoppinglist

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"shopmydish/domain"
	"shopmydish/entities"
	"shopmydish/internal/metrics"
	"shopmydish/pkg/catalog"
	"shopmydish/pkg/dish"
	"shopmydish/pkg/menu"
	"shopmydish/pkg/ownership"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	ShoppingListService interface {
		BuildShoppingList(ctx context.Context, menuID string, userID string) (domain.ShoppingListResponse, error)
		GetShoppingLists(ctx context.Context, userID string) ([]domain.ShoppingListResponse, error)
		GetShoppingListDetail(ctx context.Context, listID string, userID string) (domain.ShoppingListResponse, error)
		DeleteShoppingList(ctx context.Context, listID string, userID string) error

		AddItem(ctx context.Context, listID string, req domain.AddShoppingListItemRequest, userID string) (domain.ShoppingListItemResponse, error)
		UpdateItem(ctx context.Context, itemID string, req domain.UpdateShoppingListItemRequest, userID string) (domain.ShoppingListItemResponse, error)
		DeleteItem(ctx context.Context, itemID string, userID string) error
	}

	shoppingListService struct {
		db                     *gorm.DB
		shoppingListRepository ShoppingListRepository
		menuRepository         menu.MenuRepository
		dishRepository         dish.DishRepository
		catalogRepository      catalog.CatalogRepository
		ownershipRepository    ownership.OwnershipRepository
		metrics                *metrics.Metrics
	}
)

func NewShoppingListService(
	db *gorm.DB,
	shoppingListRepository ShoppingListRepository,
	menuRepository menu.MenuRepository,
	dishRepository dish.DishRepository,
	catalogRepository catalog.CatalogRepository,
	ownershipRepository ownership.OwnershipRepository,
	m *metrics.Metrics,
) ShoppingListService {
	return &shoppingListService{
		db:                     db,
		shoppingListRepository: shoppingListRepository,
		menuRepository:         menuRepository,
		dishRepository:         dishRepository,
		catalogRepository:      catalogRepository,
		ownershipRepository:    ownershipRepository,
		metrics:                m,
	}
}

// BuildShoppingList creates a new list for userID holding every product
// the menu's dishes need, one item per (product, unit). The list and all
// of its items are written in one transaction; any failure leaves nothing
// behind and is reported as domain.ErrAggregationFailed.
func (s *shoppingListService) BuildShoppingList(ctx context.Context, menuID string, userID string) (domain.ShoppingListResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ShoppingListResponse{}, domain.ErrParseUUID
	}
	menuUUID, err := uuid.Parse(menuID)
	if err != nil {
		return domain.ShoppingListResponse{}, domain.ErrParseUUID
	}
	if err := s.ownershipRepository.Authorize(ctx, userUUID, ownership.Menu, menuUUID); err != nil {
		return domain.ShoppingListResponse{}, err
	}

	start := time.Now()
	list := &entities.ShoppingList{UserID: userUUID, MenuID: &menuUUID}
	var merged []MergedItem

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dishes, err := s.menuRepository.WithTx(tx).DishesOf(ctx, menuUUID)
		if err != nil {
			return fmt.Errorf("load dishes: %w", err)
		}
		lines, err := s.dishRepository.WithTx(tx).GetDishProducts(ctx, dishIDs(dishes))
		if err != nil {
			return fmt.Errorf("load dish products: %w", err)
		}
		orderByDish(lines, dishes)
		merged = Aggregate(lines)

		lists := s.shoppingListRepository.WithTx(tx)
		if err := lists.CreateShoppingList(ctx, list); err != nil {
			return fmt.Errorf("create shopping list: %w", err)
		}
		items := make([]*entities.ShoppingListItem, 0, len(merged))
		for _, m := range merged {
			representative := m.DishProductID
			items = append(items, &entities.ShoppingListItem{
				ShoppingListID: list.ID,
				ProductID:      m.ProductID,
				UnitID:         m.UnitID,
				DishProductID:  &representative,
				Quantity:       m.Quantity,
			})
		}
		if err := lists.CreateItems(ctx, items); err != nil {
			return fmt.Errorf("create shopping list items: %w", err)
		}
		return nil
	})
	s.metrics.ObserveBuild(len(merged), time.Since(start), err)
	if err != nil {
		return domain.ShoppingListResponse{}, fmt.Errorf("%w: %w", domain.ErrAggregationFailed, err)
	}

	log.Infow("shopping list built", "shopping_list_id", list.ID, "menu_id", menuUUID, "user_id", userUUID, "items", len(merged))
	return s.detail(ctx, list.ID)
}

func dishIDs(dishes []*entities.Dish) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(dishes))
	for _, d := range dishes {
		ids = append(ids, d.ID)
	}
	return ids
}

// orderByDish sorts lines to follow the menu's dish order, keeping the
// stored order within a dish.
func orderByDish(lines []*entities.DishProduct, dishes []*entities.Dish) {
	pos := make(map[uuid.UUID]int, len(dishes))
	for i, d := range dishes {
		pos[d.ID] = i
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return pos[lines[i].DishID] < pos[lines[j].DishID]
	})
}

func (s *shoppingListService) GetShoppingLists(ctx context.Context, userID string) ([]domain.ShoppingListResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	lists, err := s.shoppingListRepository.GetShoppingListsByUser(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	res := make([]domain.ShoppingListResponse, 0, len(lists))
	for _, l := range lists {
		res = append(res, ToShoppingListResponse(l))
	}
	return res, nil
}

func (s *shoppingListService) GetShoppingListDetail(ctx context.Context, listID string, userID string) (domain.ShoppingListResponse, error) {
	id, _, err := s.authorize(ctx, listID, userID)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}
	return s.detail(ctx, id)
}

func (s *shoppingListService) detail(ctx context.Context, id uuid.UUID) (domain.ShoppingListResponse, error) {
	list, err := s.shoppingListRepository.GetShoppingListByID(ctx, id)
	if err != nil {
		return domain.ShoppingListResponse{}, err
	}
	return ToShoppingListResponse(list), nil
}

func (s *shoppingListService) DeleteShoppingList(ctx context.Context, listID string, userID string) error {
	id, _, err := s.authorize(ctx, listID, userID)
	if err != nil {
		return err
	}
	return s.shoppingListRepository.DeleteShoppingList(ctx, id)
}

// AddItem adds a product to the list by name. When the list already has a
// line for the same product and unit the quantity is added to it.
func (s *shoppingListService) AddItem(ctx context.Context, listID string, req domain.AddShoppingListItemRequest, userID string) (domain.ShoppingListItemResponse, error) {
	id, userUUID, err := s.authorize(ctx, listID, userID)
	if err != nil {
		return domain.ShoppingListItemResponse{}, err
	}
	name, err := domain.ValidateName("product_name", req.ProductName, domain.ProductNameMaxLength)
	if err != nil {
		return domain.ShoppingListItemResponse{}, err
	}
	if req.Quantity == nil {
		return domain.ShoppingListItemResponse{}, domain.NewValidationError("quantity", "is required")
	}
	qty, err := domain.NormalizeQuantity("quantity", *req.Quantity)
	if err != nil {
		return domain.ShoppingListItemResponse{}, err
	}
	unitID, err := s.resolveUnit(ctx, s.catalogRepository, req.UnitID)
	if err != nil {
		return domain.ShoppingListItemResponse{}, err
	}

	var itemID uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		product, err := s.catalogRepository.WithTx(tx).GetOrCreateProduct(ctx, name, false)
		if err != nil {
			return err
		}
		if err := s.ownershipRepository.WithTx(tx).Link(ctx, userUUID, ownership.Product, product.ID); err != nil {
			return err
		}

		lists := s.shoppingListRepository.WithTx(tx)
		item, err := lists.FindItem(ctx, id, product.ID, unitID)
		if err != nil {
			return err
		}
		if item == nil {
			item = &entities.ShoppingListItem{
				ShoppingListID: id,
				ProductID:      product.ID,
				UnitID:         unitID,
				Quantity:       qty,
			}
		} else {
			item.Quantity = item.Quantity.Add(qty)
		}
		if err := lists.UpdateItem(ctx, item); err != nil {
			return err
		}
		itemID = item.ID
		return nil
	})
	if err != nil {
		return domain.ShoppingListItemResponse{}, err
	}
	return s.itemResponse(ctx, itemID)
}

// UpdateItem sets the quantity and, when given, the unit of an item. If
// the new unit collides with another line of the same product the two
// lines are merged.
func (s *shoppingListService) UpdateItem(ctx context.Context, itemID string, req domain.UpdateShoppingListItemRequest, userID string) (domain.ShoppingListItemResponse, error) {
	item, err := s.ownedItem(ctx, itemID, userID)
	if err != nil {
		return domain.ShoppingListItemResponse{}, err
	}
	if req.Quantity == nil {
		return domain.ShoppingListItemResponse{}, domain.NewValidationError("quantity", "is required")
	}
	qty, err := domain.NormalizeQuantity("quantity", *req.Quantity)
	if err != nil {
		return domain.ShoppingListItemResponse{}, err
	}
	unitID := item.UnitID
	if req.UnitID != "" {
		if unitID, err = s.resolveUnit(ctx, s.catalogRepository, req.UnitID); err != nil {
			return domain.ShoppingListItemResponse{}, err
		}
	}

	resultID := item.ID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lists := s.shoppingListRepository.WithTx(tx)
		if !sameUnit(unitID, item.UnitID) {
			other, err := lists.FindItem(ctx, item.ShoppingListID, item.ProductID, unitID)
			if err != nil {
				return err
			}
			if other != nil {
				other.Quantity = other.Quantity.Add(qty)
				if err := lists.UpdateItem(ctx, other); err != nil {
					return err
				}
				resultID = other.ID
				return lists.DeleteItem(ctx, item.ID)
			}
		}
		item.Quantity = qty
		item.UnitID = unitID
		return lists.UpdateItem(ctx, item)
	})
	if err != nil {
		return domain.ShoppingListItemResponse{}, err
	}
	return s.itemResponse(ctx, resultID)
}

func (s *shoppingListService) DeleteItem(ctx context.Context, itemID string, userID string) error {
	item, err := s.ownedItem(ctx, itemID, userID)
	if err != nil {
		return err
	}
	return s.shoppingListRepository.DeleteItem(ctx, item.ID)
}

func (s *shoppingListService) ownedItem(ctx context.Context, itemID string, userID string) (*entities.ShoppingListItem, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	id, err := uuid.Parse(itemID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	item, err := s.shoppingListRepository.GetItemByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ownershipRepository.Authorize(ctx, userUUID, ownership.ShoppingList, item.ShoppingListID); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *shoppingListService) itemResponse(ctx context.Context, id uuid.UUID) (domain.ShoppingListItemResponse, error) {
	item, err := s.shoppingListRepository.GetItemByID(ctx, id)
	if err != nil {
		return domain.ShoppingListItemResponse{}, err
	}
	return ToShoppingListItemResponse(item), nil
}

func (s *shoppingListService) resolveUnit(ctx context.Context, repo catalog.CatalogRepository, unitID string) (*uuid.UUID, error) {
	if unitID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(unitID)
	if err != nil {
		return nil, domain.NewValidationError("unit_id", "must be a valid id")
	}
	if _, err := repo.GetUnitByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUnitNotFound) {
			return nil, domain.NewValidationError("unit_id", "unknown unit")
		}
		return nil, err
	}
	return &id, nil
}

func (s *shoppingListService) authorize(ctx context.Context, listID string, userID string) (uuid.UUID, uuid.UUID, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrParseUUID
	}
	id, err := uuid.Parse(listID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrParseUUID
	}
	if err := s.ownershipRepository.Authorize(ctx, userUUID, ownership.ShoppingList, id); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return id, userUUID, nil
}

func sameUnit(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func ToShoppingListResponse(l *entities.ShoppingList) domain.ShoppingListResponse {
	res := domain.ShoppingListResponse{
		ID:        l.ID,
		MenuID:    l.MenuID,
		CreatedAt: l.CreatedAt,
		Items:     make([]domain.ShoppingListItemResponse, 0, len(l.Items)),
	}
	for _, item := range l.Items {
		res.Items = append(res.Items, ToShoppingListItemResponse(item))
	}
	sort.SliceStable(res.Items, func(i, j int) bool {
		return strings.ToLower(res.Items[i].ProductName) < strings.ToLower(res.Items[j].ProductName)
	})
	return res
}

func ToShoppingListItemResponse(item *entities.ShoppingListItem) domain.ShoppingListItemResponse {
	res := domain.ShoppingListItemResponse{
		ID:              item.ID,
		ProductID:       item.ProductID,
		Quantity:        item.Quantity,
		QuantityDisplay: domain.QuantityDisplay(item.Quantity),
		UnitID:          item.UnitID,
		DishProductID:   item.DishProductID,
	}
	if item.Product != nil {
		res.ProductName = item.Product.Name
	}
	if item.Unit != nil {
		res.UnitName = item.Unit.Name
		res.UnitAbbreviation = item.Unit.Abbreviation
	}
	return res
}
