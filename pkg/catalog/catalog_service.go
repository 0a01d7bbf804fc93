package catalog

import (
	"context"
	"strings"

	"shopmydish/domain"
	"shopmydish/entities"
	"shopmydish/pkg/ownership"

	"github.com/google/uuid"
)

type (
	CatalogService interface {
		CreateProduct(ctx context.Context, req domain.CreateProductRequest, userID string) (domain.ProductResponse, error)
		GetProducts(ctx context.Context, userID string, favoriteOnly bool) ([]domain.ProductResponse, error)
		ToggleFavorite(ctx context.Context, productID string, userID string) (domain.ProductResponse, error)
		DeleteProduct(ctx context.Context, productID string, userID string) error

		GetUnits(ctx context.Context) ([]domain.UnitResponse, error)
		CreateUnit(ctx context.Context, req domain.UnitRequest) (domain.UnitResponse, error)
		UpdateUnit(ctx context.Context, unitID string, req domain.UnitRequest) (domain.UnitResponse, error)
		DeleteUnit(ctx context.Context, unitID string) error
	}

	catalogService struct {
		catalogRepository   CatalogRepository
		ownershipRepository ownership.OwnershipRepository
	}
)

func NewCatalogService(catalogRepository CatalogRepository, ownershipRepository ownership.OwnershipRepository) CatalogService {
	return &catalogService{
		catalogRepository:   catalogRepository,
		ownershipRepository: ownershipRepository,
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, req domain.CreateProductRequest, userID string) (domain.ProductResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ProductResponse{}, domain.ErrParseUUID
	}
	name, err := domain.ValidateName("name", req.Name, domain.ProductNameMaxLength)
	if err != nil {
		return domain.ProductResponse{}, err
	}

	product, err := s.catalogRepository.GetOrCreateProduct(ctx, name, req.IsFavorite)
	if err != nil {
		return domain.ProductResponse{}, err
	}
	if err := s.ownershipRepository.Link(ctx, userUUID, ownership.Product, product.ID); err != nil {
		return domain.ProductResponse{}, err
	}
	return ToProductResponse(product), nil
}

func (s *catalogService) GetProducts(ctx context.Context, userID string, favoriteOnly bool) ([]domain.ProductResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	products, err := s.catalogRepository.GetProductsByUser(ctx, userUUID, favoriteOnly)
	if err != nil {
		return nil, err
	}
	res := make([]domain.ProductResponse, 0, len(products))
	for _, p := range products {
		res = append(res, ToProductResponse(p))
	}
	return res, nil
}

func (s *catalogService) ToggleFavorite(ctx context.Context, productID string, userID string) (domain.ProductResponse, error) {
	product, err := s.ownedProduct(ctx, productID, userID)
	if err != nil {
		return domain.ProductResponse{}, err
	}
	product.IsFavorite = !product.IsFavorite
	if err := s.catalogRepository.UpdateProduct(ctx, product); err != nil {
		return domain.ProductResponse{}, err
	}
	return ToProductResponse(product), nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, productID string, userID string) error {
	product, err := s.ownedProduct(ctx, productID, userID)
	if err != nil {
		return err
	}
	return s.catalogRepository.DeleteProduct(ctx, product.ID)
}

func (s *catalogService) ownedProduct(ctx context.Context, productID string, userID string) (*entities.Product, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	if err := s.ownershipRepository.Authorize(ctx, userUUID, ownership.Product, productUUID); err != nil {
		return nil, err
	}
	return s.catalogRepository.GetProductByID(ctx, productUUID)
}

func (s *catalogService) GetUnits(ctx context.Context) ([]domain.UnitResponse, error) {
	units, err := s.catalogRepository.GetUnits(ctx)
	if err != nil {
		return nil, err
	}
	res := make([]domain.UnitResponse, 0, len(units))
	for _, u := range units {
		res = append(res, ToUnitResponse(u))
	}
	return res, nil
}

func (s *catalogService) CreateUnit(ctx context.Context, req domain.UnitRequest) (domain.UnitResponse, error) {
	name, abbreviation, err := validateUnit(req)
	if err != nil {
		return domain.UnitResponse{}, err
	}
	unit, err := s.catalogRepository.GetOrCreateUnit(ctx, name, abbreviation)
	if err != nil {
		return domain.UnitResponse{}, err
	}
	return ToUnitResponse(unit), nil
}

func (s *catalogService) UpdateUnit(ctx context.Context, unitID string, req domain.UnitRequest) (domain.UnitResponse, error) {
	unitUUID, err := uuid.Parse(unitID)
	if err != nil {
		return domain.UnitResponse{}, domain.ErrParseUUID
	}
	name, abbreviation, err := validateUnit(req)
	if err != nil {
		return domain.UnitResponse{}, err
	}
	unit, err := s.catalogRepository.GetUnitByID(ctx, unitUUID)
	if err != nil {
		return domain.UnitResponse{}, err
	}
	unit.Name = name
	unit.Abbreviation = abbreviation
	if err := s.catalogRepository.UpdateUnit(ctx, unit); err != nil {
		return domain.UnitResponse{}, err
	}
	return ToUnitResponse(unit), nil
}

func (s *catalogService) DeleteUnit(ctx context.Context, unitID string) error {
	unitUUID, err := uuid.Parse(unitID)
	if err != nil {
		return domain.ErrParseUUID
	}
	return s.catalogRepository.DeleteUnit(ctx, unitUUID)
}

func validateUnit(req domain.UnitRequest) (string, string, error) {
	name, err := domain.ValidateName("name", req.Name, domain.UnitNameMaxLength)
	if err != nil {
		return "", "", err
	}
	abbreviation := strings.Join(strings.Fields(req.Abbreviation), " ")
	if abbreviation == "" {
		return "", "", domain.NewValidationError("abbreviation", "must not be empty")
	}
	if len([]rune(abbreviation)) > domain.UnitAbbreviationMaxLength {
		return "", "", domain.NewValidationError("abbreviation", "is too long")
	}
	return name, abbreviation, nil
}

func ToProductResponse(p *entities.Product) domain.ProductResponse {
	return domain.ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		IsFavorite: p.IsFavorite,
	}
}

func ToUnitResponse(u *entities.Unit) domain.UnitResponse {
	return domain.UnitResponse{
		ID:           u.ID,
		Name:         u.Name,
		Abbreviation: u.Abbreviation,
	}
}
