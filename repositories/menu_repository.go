package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"pos-backend/models"
)

// MenuItemFilter narrows the menu item list. Nil fields are ignored.
type MenuItemFilter struct {
	CategoryID *uuid.UUID
	Available  *bool
	Search     string
}

// MenuRepository provides access to menu items and categories.
type MenuRepository struct {
	db *gorm.DB
}

// NewMenuRepository creates a new menu repository
func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// ListItems returns menu items with their category, by name.
func (r *MenuRepository) ListItems(ctx context.Context, f MenuItemFilter) ([]models.MenuItem, error) {
	q := r.db.WithContext(ctx).Preload("Category")
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.Available != nil {
		q = q.Where("available = ?", *f.Available)
	}
	if strings.TrimSpace(f.Search) != "" {
		pattern := containsPattern(f.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?", pattern, pattern)
	}
	var items []models.MenuItem
	err := q.Order("name ASC").Find(&items).Error
	return items, wrap(err, "failed to list menu items")
}

func (r *MenuRepository) FindItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := r.db.WithContext(ctx).Preload("Category").First(&item, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get menu item")
	}
	return &item, nil
}

// FindAvailableItems returns the subset of ids that exist and can be ordered.
func (r *MenuRepository) FindAvailableItems(ctx context.Context, ids []uuid.UUID) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ? AND available = ?", ids, true).
		Find(&items).Error
	return items, wrap(err, "failed to validate menu items")
}

func (r *MenuRepository) CreateItem(ctx context.Context, item *models.MenuItem) error {
	return wrap(r.db.WithContext(ctx).Create(item).Error, "failed to create menu item")
}

func (r *MenuRepository) UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.MenuItem{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return wrap(result.Error, "failed to update menu item")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to update menu item")
	}
	return nil
}

func (r *MenuRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MenuItem{}, "id = ?", id)
	if result.Error != nil {
		return wrap(result.Error, "failed to delete menu item")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to delete menu item")
	}
	return nil
}

// CountItemsInCategory counts menu items filed under a category.
func (r *MenuRepository) CountItemsInCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.MenuItem{}).Where("category_id = ?", categoryID).Count(&count).Error
	return count, wrap(err, "failed to count menu items in category")
}

// ListCategories returns categories by name with their menu items.
func (r *MenuRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Preload("MenuItems", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("name ASC").
		Find(&categories).Error
	return categories, wrap(err, "failed to list categories")
}

func (r *MenuRepository) FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Preload("MenuItems", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		First(&category, "id = ?", id).Error
	if err != nil {
		return nil, wrap(err, "failed to get category")
	}
	return &category, nil
}

// FindCategoryByName compares names case-insensitively.
func (r *MenuRepository) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&category).Error
	if err != nil {
		return nil, wrap(err, "failed to get category by name")
	}
	return &category, nil
}

func (r *MenuRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	return wrap(r.db.WithContext(ctx).Create(category).Error, "failed to create category")
}

func (r *MenuRepository) UpdateCategory(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return wrap(result.Error, "failed to update category")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to update category")
	}
	return nil
}

func (r *MenuRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id)
	if result.Error != nil {
		return wrap(result.Error, "failed to delete category")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to delete category")
	}
	return nil
}
