package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pos-backend/models"
	"pos-backend/repositories"
)

const (
	menuItemNotFound  = "Menu item not found"
	categoryNotFound  = "Category not found"
	duplicateCategory = "Category with this name already exists"
)

type MenuItemInput struct {
	Name        string          `json:"name" binding:"required,max=150"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"gt=0"`
	CategoryID  *uuid.UUID      `json:"category_id"`
	Available   *bool           `json:"available"`
}

type MenuItemUpdateInput struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=150"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"omitempty,gt=0"`
	CategoryID  OptionalID       `json:"category_id"`
	Available   *bool            `json:"available"`
}

type MenuItemListInput struct {
	CategoryID string `form:"category_id"`
	Available  *bool  `form:"available"`
	Search     string `form:"search"`
}

type CategoryInput struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Description *string `json:"description"`
}

type CategoryUpdateInput struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

// MenuService manages menu items and the categories that group them.
type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

func (s *MenuService) repo() *repositories.MenuRepository {
	return repositories.NewMenuRepository(s.db)
}

func (s *MenuService) ListItems(ctx context.Context, input MenuItemListInput) ([]models.MenuItem, error) {
	filter := repositories.MenuItemFilter{Available: input.Available, Search: input.Search}
	if input.CategoryID != "" {
		id, err := uuid.Parse(input.CategoryID)
		if err != nil {
			return nil, Validation("Invalid category id")
		}
		filter.CategoryID = &id
	}
	return s.repo().ListItems(ctx, filter)
}

func (s *MenuService) AvailableItems(ctx context.Context) ([]models.MenuItem, error) {
	available := true
	return s.repo().ListItems(ctx, repositories.MenuItemFilter{Available: &available})
}

func (s *MenuService) ItemsByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.MenuItem, error) {
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.repo().ListItems(ctx, repositories.MenuItemFilter{CategoryID: &categoryID})
}

func (s *MenuService) GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := s.repo().FindItem(ctx, id)
	if err != nil {
		return nil, translate(err, menuItemNotFound, "")
	}
	return item, nil
}

func (s *MenuService) CreateItem(ctx context.Context, input MenuItemInput) (*models.MenuItem, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	if input.CategoryID != nil {
		if _, err := s.GetCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}
	item := &models.MenuItem{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Price:       models.RoundMoney(input.Price),
		CategoryID:  input.CategoryID,
		Available:   true,
	}
	if input.Available != nil {
		item.Available = *input.Available
	}
	if err := s.repo().CreateItem(ctx, item); err != nil {
		return nil, translate(err, menuItemNotFound, "Menu item already exists")
	}
	log.Info().Str("menu_item_id", item.ID.String()).Str("name", item.Name).Msg("Menu item created")
	return s.GetItem(ctx, item.ID)
}

func (s *MenuService) UpdateItem(ctx context.Context, id uuid.UUID, input MenuItemUpdateInput) (*models.MenuItem, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	if _, err := s.GetItem(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		updates["price"] = models.RoundMoney(*input.Price)
	}
	if input.Available != nil {
		updates["available"] = *input.Available
	}
	if input.CategoryID.Set {
		if input.CategoryID.ID != nil {
			if _, err := s.GetCategory(ctx, *input.CategoryID.ID); err != nil {
				return nil, err
			}
		}
		updates["category_id"] = input.CategoryID.ID
	}
	if len(updates) > 0 {
		if err := s.repo().UpdateItem(ctx, id, updates); err != nil {
			return nil, translate(err, menuItemNotFound, "Menu item already exists")
		}
	}
	return s.GetItem(ctx, id)
}

func (s *MenuService) ToggleAvailability(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo().UpdateItem(ctx, id, map[string]interface{}{"available": !item.Available}); err != nil {
		return nil, translate(err, menuItemNotFound, "")
	}
	item.Available = !item.Available
	return item, nil
}

// DeleteItem refuses items that appear on any order.
func (s *MenuService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetItem(ctx, id); err != nil {
		return err
	}
	count, err := repositories.NewOrderRepository(s.db).CountItemsByMenuItem(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return Validation("Cannot delete menu item that has been ordered")
	}
	return translate(s.repo().DeleteItem(ctx, id), menuItemNotFound, "")
}

func (s *MenuService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.repo().ListCategories(ctx)
}

func (s *MenuService) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo().FindCategory(ctx, id)
	if err != nil {
		return nil, translate(err, categoryNotFound, "")
	}
	return category, nil
}

func (s *MenuService) CreateCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if _, err := s.repo().FindCategoryByName(ctx, name); err == nil {
		return nil, Conflict(duplicateCategory)
	}
	category := &models.Category{Name: name, Description: input.Description}
	if err := s.repo().CreateCategory(ctx, category); err != nil {
		return nil, translate(err, categoryNotFound, duplicateCategory)
	}
	return category, nil
}

func (s *MenuService) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryUpdateInput) (*models.Category, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	if _, err := s.GetCategory(ctx, id); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if other, err := s.repo().FindCategoryByName(ctx, name); err == nil && other.ID != id {
			return nil, Conflict(duplicateCategory)
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if len(updates) > 0 {
		if err := s.repo().UpdateCategory(ctx, id, updates); err != nil {
			return nil, translate(err, categoryNotFound, duplicateCategory)
		}
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory refuses categories that still hold menu items.
func (s *MenuService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	count, err := s.repo().CountItemsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return Validation("Cannot delete category with existing menu items")
	}
	return translate(s.repo().DeleteCategory(ctx, id), categoryNotFound, "")
}
