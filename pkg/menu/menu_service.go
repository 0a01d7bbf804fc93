package menu

import (
	"context"
	"fmt"
	"sort"

	"shopmydish/domain"
	"shopmydish/entities"
	"shopmydish/pkg/dish"
	"shopmydish/pkg/ownership"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	MenuService interface {
		CreateMenu(ctx context.Context, req domain.CreateMenuRequest, userID string) (domain.MenuResponse, error)
		GetMenus(ctx context.Context, userID string) ([]domain.MenuResponse, error)
		GetMenuDetail(ctx context.Context, menuID string, userID string) (domain.MenuResponse, error)
		UpdateMenu(ctx context.Context, menuID string, req domain.UpdateMenuRequest, userID string) (domain.MenuResponse, error)
		DeleteMenu(ctx context.Context, menuID string, userID string) error
		AddDish(ctx context.Context, menuID string, req domain.MenuDishRequest, userID string) (domain.MenuResponse, error)
		RemoveDish(ctx context.Context, menuID string, dishID string, userID string) (domain.MenuResponse, error)
	}

	menuService struct {
		db                  *gorm.DB
		menuRepository      MenuRepository
		ownershipRepository ownership.OwnershipRepository
	}
)

func NewMenuService(db *gorm.DB, menuRepository MenuRepository, ownershipRepository ownership.OwnershipRepository) MenuService {
	return &menuService{
		db:                  db,
		menuRepository:      menuRepository,
		ownershipRepository: ownershipRepository,
	}
}

func (s *menuService) CreateMenu(ctx context.Context, req domain.CreateMenuRequest, userID string) (domain.MenuResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.MenuResponse{}, domain.ErrParseUUID
	}
	name, err := domain.ValidateTitle("name", req.Name, domain.MenuNameMaxLength)
	if err != nil {
		return domain.MenuResponse{}, err
	}
	if taken, err := s.menuRepository.MenuNameTaken(ctx, name, uuid.Nil); err != nil {
		return domain.MenuResponse{}, err
	} else if taken {
		return domain.MenuResponse{}, ErrMenuNameTaken
	}

	dishIDs := make([]uuid.UUID, 0, len(req.DishIDs))
	for i, raw := range req.DishIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return domain.MenuResponse{}, domain.NewValidationError(fmt.Sprintf("dish_ids[%d]", i), "must be a valid id")
		}
		if err := s.ownershipRepository.Authorize(ctx, userUUID, ownership.Dish, id); err != nil {
			return domain.MenuResponse{}, err
		}
		dishIDs = append(dishIDs, id)
	}

	menu := &entities.Menu{Name: name}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		menus := s.menuRepository.WithTx(tx)
		if err := menus.CreateMenu(ctx, menu); err != nil {
			return err
		}
		if err := s.ownershipRepository.WithTx(tx).Link(ctx, userUUID, ownership.Menu, menu.ID); err != nil {
			return err
		}
		for _, id := range dishIDs {
			if _, err := menus.AddDish(ctx, menu.ID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.MenuResponse{}, err
	}
	return s.detail(ctx, menu.ID)
}

func (s *menuService) GetMenus(ctx context.Context, userID string) ([]domain.MenuResponse, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	menus, err := s.menuRepository.GetMenusByUser(ctx, userUUID)
	if err != nil {
		return nil, err
	}
	res := make([]domain.MenuResponse, 0, len(menus))
	for _, m := range menus {
		dishes := make([]*entities.Dish, 0, len(m.Dishes))
		for _, md := range m.Dishes {
			if md.Dish != nil {
				dishes = append(dishes, md.Dish)
			}
		}
		sort.SliceStable(dishes, func(i, j int) bool { return dishes[i].Name < dishes[j].Name })
		res = append(res, ToMenuResponse(m, dishes))
	}
	return res, nil
}

func (s *menuService) GetMenuDetail(ctx context.Context, menuID string, userID string) (domain.MenuResponse, error) {
	id, _, err := s.authorize(ctx, menuID, userID)
	if err != nil {
		return domain.MenuResponse{}, err
	}
	return s.detail(ctx, id)
}

func (s *menuService) detail(ctx context.Context, id uuid.UUID) (domain.MenuResponse, error) {
	menu, err := s.menuRepository.GetMenuByID(ctx, id)
	if err != nil {
		return domain.MenuResponse{}, err
	}
	dishes, err := s.menuRepository.DishesOf(ctx, id)
	if err != nil {
		return domain.MenuResponse{}, err
	}
	return ToMenuResponse(menu, dishes), nil
}

func (s *menuService) UpdateMenu(ctx context.Context, menuID string, req domain.UpdateMenuRequest, userID string) (domain.MenuResponse, error) {
	id, _, err := s.authorize(ctx, menuID, userID)
	if err != nil {
		return domain.MenuResponse{}, err
	}
	name, err := domain.ValidateTitle("name", req.Name, domain.MenuNameMaxLength)
	if err != nil {
		return domain.MenuResponse{}, err
	}
	if taken, err := s.menuRepository.MenuNameTaken(ctx, name, id); err != nil {
		return domain.MenuResponse{}, err
	} else if taken {
		return domain.MenuResponse{}, ErrMenuNameTaken
	}

	menu, err := s.menuRepository.GetMenuByID(ctx, id)
	if err != nil {
		return domain.MenuResponse{}, err
	}
	menu.Name = name
	if err := s.menuRepository.UpdateMenu(ctx, menu); err != nil {
		return domain.MenuResponse{}, err
	}
	return s.detail(ctx, id)
}

func (s *menuService) DeleteMenu(ctx context.Context, menuID string, userID string) error {
	id, _, err := s.authorize(ctx, menuID, userID)
	if err != nil {
		return err
	}
	return s.menuRepository.DeleteMenu(ctx, id)
}

func (s *menuService) AddDish(ctx context.Context, menuID string, req domain.MenuDishRequest, userID string) (domain.MenuResponse, error) {
	id, userUUID, err := s.authorize(ctx, menuID, userID)
	if err != nil {
		return domain.MenuResponse{}, err
	}
	dishID, err := uuid.Parse(req.DishID)
	if err != nil {
		return domain.MenuResponse{}, domain.NewValidationError("dish_id", "must be a valid id")
	}
	if err := s.ownershipRepository.Authorize(ctx, userUUID, ownership.Dish, dishID); err != nil {
		return domain.MenuResponse{}, err
	}
	if _, err := s.menuRepository.AddDish(ctx, id, dishID); err != nil {
		return domain.MenuResponse{}, err
	}
	return s.detail(ctx, id)
}

func (s *menuService) RemoveDish(ctx context.Context, menuID string, dishID string, userID string) (domain.MenuResponse, error) {
	id, _, err := s.authorize(ctx, menuID, userID)
	if err != nil {
		return domain.MenuResponse{}, err
	}
	dishUUID, err := uuid.Parse(dishID)
	if err != nil {
		return domain.MenuResponse{}, domain.ErrParseUUID
	}
	if err := s.menuRepository.RemoveDish(ctx, id, dishUUID); err != nil {
		return domain.MenuResponse{}, err
	}
	return s.detail(ctx, id)
}

func (s *menuService) authorize(ctx context.Context, menuID string, userID string) (uuid.UUID, uuid.UUID, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrParseUUID
	}
	id, err := uuid.Parse(menuID)
	if err != nil {
		return uuid.Nil, uuid.Nil, domain.ErrParseUUID
	}
	if err := s.ownershipRepository.Authorize(ctx, userUUID, ownership.Menu, id); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return id, userUUID, nil
}

func ToMenuResponse(m *entities.Menu, dishes []*entities.Dish) domain.MenuResponse {
	res := domain.MenuResponse{
		ID:        m.ID,
		Name:      m.Name,
		Dishes:    make([]domain.DishResponse, 0, len(dishes)),
		CreatedAt: m.CreatedAt,
	}
	for _, d := range dishes {
		res.Dishes = append(res.Dishes, dish.ToDishResponse(d))
	}
	return res
}
