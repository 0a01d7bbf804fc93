package dish

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"shopmydish/domain"
	"shopmydish/entities"
	"shopmydish/internal/utils/storage"
	"shopmydish/pkg/catalog"
	"shopmydish/pkg/ownership"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrStorageNotConfigured = errors.New("image storage is not configured")

type (
	DishService interface {
		CreateDish(ctx context.Context, req domain.CreateDishRequest, userID string) (domain.DishResponse, error)
		GetDishes(ctx context.Context, req domain.DishListRequest, userID string) (domain.DishListResponse, error)
		GetDishDetail(ctx context.Context, dishID string, userID string) (domain.DishResponse, error)
		UpdateDish(ctx context.Context, dishID string, req domain.UpdateDishRequest, userID string) (domain.DishResponse, error)
		DeleteDish(ctx context.Context, dishID string, userID string) error
		UploadDishImage(ctx context.Context, dishID string, req domain.UploadDishImageRequest, userID string) (domain.DishResponse, error)

		UpdateDishProduct(ctx context.Context, dishProductID string, req domain.UpdateDishProductRequest, userID string) (domain.DishProductResponse, error)
		DeleteDishProduct(ctx context.Context, dishProductID string, userID string) error
	}

	dishService struct {
		db                  *gorm.DB
		dishRepository      DishRepository
		catalogRepository   catalog.CatalogRepository
		ownershipRepository ownership.OwnershipRepository
		s3                  storage.AwsS3
	}
)

// NewDishService builds the service. s3 may be nil, in which case image
// uploads are rejected.
func NewDishService(
	db *gorm.DB,
	dishRepository DishRepository,
	catalogRepository catalog.CatalogRepository,
	ownershipRepository ownership.OwnershipRepository,
	s3 storage.AwsS3,
) DishService {
	return &dishService{
		db:                  db,
		dishRepository:      dishRepository,
		catalogRepository:   catalogRepository,
		ownershipRepository: ownershipRepository,
		s3:                  s3,
	}
}

// txRepos are the repositories bound to one transaction.
type txRepos struct {
	dishes    DishRepository
	catalog   catalog.CatalogRepository
	ownership ownership.OwnershipRepository
}

func (s *dishService) inTx(ctx context.Context, fn func(r txRepos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txRepos{
			dishes:    s.dishRepository.WithTx(tx),
			catalog:   s.catalogRepository.WithTx(tx),
			ownership: s.ownershipRepository.WithTx(tx),
		})
	})
}

func (s *dishService) CreateDish(ctx context.Context, req domain.CreateDishRequest, userID string) (domain.DishResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.DishResponse{}, domain.ErrParseUUID
	}
	name, err := domain.ValidateTitle("name", req.Name, domain.DishNameMaxLength)
	if err != nil {
		return domain.DishResponse{}, err
	}
	if taken, err := s.dishRepository.DishNameTaken(ctx, name, uuid.Nil); err != nil {
		return domain.DishResponse{}, err
	} else if taken {
		return domain.DishResponse{}, ErrDishNameTaken
	}

	dish := &entities.Dish{
		Name:       name,
		Recipe:     strings.TrimSpace(req.Recipe),
		IsFavorite: req.IsFavorite,
	}
	err = s.inTx(ctx, func(r txRepos) error {
		if err := r.dishes.CreateDish(ctx, dish); err != nil {
			return err
		}
		if err := r.ownership.Link(ctx, userUUID, ownership.Dish, dish.ID); err != nil {
			return err
		}
		for i, line := range req.Products {
			if line.Delete {
				continue
			}
			if _, err := s.upsertLine(ctx, r, userUUID, dish.ID, i, line.ProductName, line.Quantity, line.UnitID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.DishResponse{}, err
	}

	log.Infow("dish created", "dish_id", dish.ID, "user_id", userUUID, "lines", len(req.Products))
	return s.detail(ctx, dish.ID)
}

// upsertLine resolves the product by name and writes the (dish, product)
// line. index is the position of the line in the request and only used to
// name fields in validation errors; pass -1 for single-line requests.
func (s *dishService) upsertLine(ctx context.Context, r txRepos, userID, dishID uuid.UUID, index int, productName string, quantity *decimal.Decimal, unitID string) (*entities.DishProduct, error) {
	name, err := domain.ValidateName(lineField(index, "product_name"), productName, domain.ProductNameMaxLength)
	if err != nil {
		return nil, err
	}
	qty, err := lineQuantity(index, quantity)
	if err != nil {
		return nil, err
	}
	unit, err := s.resolveUnit(ctx, r.catalog, index, unitID)
	if err != nil {
		return nil, err
	}

	product, err := r.catalog.GetOrCreateProduct(ctx, name, false)
	if err != nil {
		return nil, err
	}
	if err := r.ownership.Link(ctx, userID, ownership.Product, product.ID); err != nil {
		return nil, err
	}
	return r.dishes.UpsertDishProduct(ctx, dishID, product.ID, qty, unit)
}

func (s *dishService) resolveUnit(ctx context.Context, repo catalog.CatalogRepository, index int, unitID string) (*uuid.UUID, error) {
	if unitID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(unitID)
	if err != nil {
		return nil, domain.NewValidationError(lineField(index, "unit_id"), "must be a valid id")
	}
	if _, err := repo.GetUnitByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUnitNotFound) {
			return nil, domain.NewValidationError(lineField(index, "unit_id"), "unknown unit")
		}
		return nil, err
	}
	return &id, nil
}

func lineQuantity(index int, quantity *decimal.Decimal) (decimal.NullDecimal, error) {
	if quantity == nil {
		return decimal.NullDecimal{}, nil
	}
	return domain.NormalizeNullQuantity(lineField(index, "quantity"), decimal.NewNullDecimal(*quantity))
}

func lineField(index int, field string) string {
	if index < 0 {
		return field
	}
	return fmt.Sprintf("products[%d].%s", index, field)
}

func (s *dishService) GetDishes(ctx context.Context, req domain.DishListRequest, userID string) (domain.DishListResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.DishListResponse{}, domain.ErrParseUUID
	}
	req.Normalize()

	dishes, total, err := s.dishRepository.GetDishesByUser(ctx, userUUID, req)
	if err != nil {
		return domain.DishListResponse{}, err
	}
	res := domain.DishListResponse{
		Dishes:     make([]domain.DishResponse, 0, len(dishes)),
		Pagination: domain.NewPaginationResponse(req.PaginationRequest, total),
	}
	for _, d := range dishes {
		res.Dishes = append(res.Dishes, ToDishResponse(d))
	}
	return res, nil
}

func (s *dishService) GetDishDetail(ctx context.Context, dishID string, userID string) (domain.DishResponse, error) {
	id, err := s.authorize(ctx, dishID, userID)
	if err != nil {
		return domain.DishResponse{}, err
	}
	return s.detail(ctx, id)
}

func (s *dishService) detail(ctx context.Context, id uuid.UUID) (domain.DishResponse, error) {
	dish, err := s.dishRepository.GetDishWithProducts(ctx, id)
	if err != nil {
		return domain.DishResponse{}, err
	}
	return ToDishResponse(dish), nil
}

func (s *dishService) UpdateDish(ctx context.Context, dishID string, req domain.UpdateDishRequest, userID string) (domain.DishResponse, error) {
	id, err := s.authorize(ctx, dishID, userID)
	if err != nil {
		return domain.DishResponse{}, err
	}
	userUUID, _ := uuid.Parse(userID)

	name, err := domain.ValidateTitle("name", req.Name, domain.DishNameMaxLength)
	if err != nil {
		return domain.DishResponse{}, err
	}
	if taken, err := s.dishRepository.DishNameTaken(ctx, name, id); err != nil {
		return domain.DishResponse{}, err
	} else if taken {
		return domain.DishResponse{}, ErrDishNameTaken
	}

	err = s.inTx(ctx, func(r txRepos) error {
		dish, err := r.dishes.GetDishByID(ctx, id)
		if err != nil {
			return err
		}
		dish.Name = name
		dish.Recipe = strings.TrimSpace(req.Recipe)
		dish.IsFavorite = req.IsFavorite
		if err := r.dishes.UpdateDish(ctx, dish); err != nil {
			return err
		}

		for i, line := range req.Products {
			if line.ID == "" {
				if line.Delete {
					continue
				}
				if _, err := s.upsertLine(ctx, r, userUUID, id, i, line.ProductName, line.Quantity, line.UnitID); err != nil {
					return err
				}
				continue
			}

			existing, err := s.lineOfDish(ctx, r.dishes, id, i, line.ID)
			if err != nil {
				return err
			}
			if line.Delete {
				if err := r.dishes.DeleteDishProduct(ctx, existing.ID); err != nil {
					return err
				}
				continue
			}
			if err := s.editLine(ctx, r, userUUID, existing, i, line.ProductName, line.Quantity, line.UnitID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.DishResponse{}, err
	}
	return s.detail(ctx, id)
}

func (s *dishService) lineOfDish(ctx context.Context, repo DishRepository, dishID uuid.UUID, index int, lineID string) (*entities.DishProduct, error) {
	id, err := uuid.Parse(lineID)
	if err != nil {
		return nil, domain.NewValidationError(lineField(index, "id"), "must be a valid id")
	}
	line, err := repo.GetDishProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if line.DishID != dishID {
		return nil, domain.ErrDishProductNotFound
	}
	return line, nil
}

// editLine applies new values to an existing line. Renaming the product
// to one already on the dish folds this line into that one.
func (s *dishService) editLine(ctx context.Context, r txRepos, userID uuid.UUID, line *entities.DishProduct, index int, productName string, quantity *decimal.Decimal, unitID string) error {
	if productName == "" && line.Product != nil {
		productName = line.Product.Name
	}
	name, err := domain.ValidateName(lineField(index, "product_name"), productName, domain.ProductNameMaxLength)
	if err != nil {
		return err
	}
	qty, err := lineQuantity(index, quantity)
	if err != nil {
		return err
	}
	unit, err := s.resolveUnit(ctx, r.catalog, index, unitID)
	if err != nil {
		return err
	}
	product, err := r.catalog.GetOrCreateProduct(ctx, name, false)
	if err != nil {
		return err
	}
	if err := r.ownership.Link(ctx, userID, ownership.Product, product.ID); err != nil {
		return err
	}

	if product.ID != line.ProductID {
		if err := r.dishes.DeleteDishProduct(ctx, line.ID); err != nil {
			return err
		}
		_, err := r.dishes.UpsertDishProduct(ctx, line.DishID, product.ID, qty, unit)
		return err
	}

	line.Quantity = qty
	line.UnitID = unit
	return r.dishes.UpdateDishProduct(ctx, line)
}

func (s *dishService) DeleteDish(ctx context.Context, dishID string, userID string) error {
	id, err := s.authorize(ctx, dishID, userID)
	if err != nil {
		return err
	}
	dish, err := s.dishRepository.GetDishByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.dishRepository.DeleteDish(ctx, id); err != nil {
		return err
	}

	if dish.ImageURL != "" && s.s3 != nil {
		if key := s.s3.GetObjectKeyFromLink(dish.ImageURL); key != "" {
			if err := s.s3.DeleteFile(ctx, key); err != nil {
				log.Warnw("failed to delete dish image", "dish_id", id, "key", key, "error", err)
			}
		}
	}
	return nil
}

func (s *dishService) UploadDishImage(ctx context.Context, dishID string, req domain.UploadDishImageRequest, userID string) (domain.DishResponse, error) {
	if req.Image == nil {
		return domain.DishResponse{}, domain.ErrDishImageRequired
	}
	if s.s3 == nil {
		return domain.DishResponse{}, ErrStorageNotConfigured
	}
	id, err := s.authorize(ctx, dishID, userID)
	if err != nil {
		return domain.DishResponse{}, err
	}
	dish, err := s.dishRepository.GetDishByID(ctx, id)
	if err != nil {
		return domain.DishResponse{}, err
	}

	objectKey, err := s.s3.UploadFile(ctx, fmt.Sprintf("dish-%s", dish.ID.String()), req.Image, "dishes", storage.AllowImage...)
	if err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) || errors.Is(err, storage.ErrFileTooLarge) {
			return domain.DishResponse{}, domain.NewValidationError("image", err.Error())
		}
		return domain.DishResponse{}, err
	}
	dish.ImageURL = s.s3.GetPublicLinkKey(objectKey)
	if err := s.dishRepository.UpdateDish(ctx, dish); err != nil {
		return domain.DishResponse{}, err
	}
	return s.detail(ctx, id)
}

func (s *dishService) UpdateDishProduct(ctx context.Context, dishProductID string, req domain.UpdateDishProductRequest, userID string) (domain.DishProductResponse, error) {
	line, userUUID, err := s.ownedLine(ctx, dishProductID, userID)
	if err != nil {
		return domain.DishProductResponse{}, err
	}

	err = s.inTx(ctx, func(r txRepos) error {
		return s.editLine(ctx, r, userUUID, line, -1, req.ProductName, req.Quantity, req.UnitID)
	})
	if err != nil {
		return domain.DishProductResponse{}, err
	}

	dish, err := s.dishRepository.GetDishWithProducts(ctx, line.DishID)
	if err != nil {
		return domain.DishProductResponse{}, err
	}
	name := domain.NormalizeName(req.ProductName)
	for _, p := range dish.Products {
		if p.Product != nil && p.Product.Name == name {
			return ToDishProductResponse(p), nil
		}
	}
	return domain.DishProductResponse{}, domain.ErrDishProductNotFound
}

func (s *dishService) DeleteDishProduct(ctx context.Context, dishProductID string, userID string) error {
	line, _, err := s.ownedLine(ctx, dishProductID, userID)
	if err != nil {
		return err
	}
	return s.dishRepository.DeleteDishProduct(ctx, line.ID)
}

// ownedLine loads a dish line and checks that userID owns its dish.
func (s *dishService) ownedLine(ctx context.Context, dishProductID string, userID string) (*entities.DishProduct, uuid.UUID, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, uuid.Nil, domain.ErrParseUUID
	}
	lineUUID, err := uuid.Parse(dishProductID)
	if err != nil {
		return nil, uuid.Nil, domain.ErrParseUUID
	}
	line, err := s.dishRepository.GetDishProductByID(ctx, lineUUID)
	if err != nil {
		return nil, uuid.Nil, err
	}
	if err := s.ownershipRepository.Authorize(ctx, userUUID, ownership.Dish, line.DishID); err != nil {
		return nil, uuid.Nil, err
	}
	return line, userUUID, nil
}

func (s *dishService) authorize(ctx context.Context, dishID string, userID string) (uuid.UUID, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, domain.ErrParseUUID
	}
	id, err := uuid.Parse(dishID)
	if err != nil {
		return uuid.Nil, domain.ErrParseUUID
	}
	if err := s.ownershipRepository.Authorize(ctx, userUUID, ownership.Dish, id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func ToDishResponse(d *entities.Dish) domain.DishResponse {
	res := domain.DishResponse{
		ID:         d.ID,
		Name:       d.Name,
		Recipe:     d.Recipe,
		IsFavorite: d.IsFavorite,
		ImageURL:   d.ImageURL,
		CreatedAt:  d.CreatedAt,
	}
	lines := append([]*entities.DishProduct(nil), d.Products...)
	sort.SliceStable(lines, func(i, j int) bool {
		return strings.ToLower(productName(lines[i])) < strings.ToLower(productName(lines[j]))
	})
	for _, line := range lines {
		res.Products = append(res.Products, ToDishProductResponse(line))
	}
	return res
}

func ToDishProductResponse(line *entities.DishProduct) domain.DishProductResponse {
	res := domain.DishProductResponse{
		ID:              line.ID,
		ProductID:       line.ProductID,
		ProductName:     productName(line),
		Quantity:        line.Quantity,
		QuantityDisplay: domain.NullQuantityDisplay(line.Quantity),
		UnitID:          line.UnitID,
	}
	if line.Unit != nil {
		res.UnitName = line.Unit.Name
		res.UnitAbbreviation = line.Unit.Abbreviation
	}
	return res
}

func productName(line *entities.DishProduct) string {
	if line.Product == nil {
		return ""
	}
	return line.Product.Name
}
