package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"pos-backend/models"
)

// ExpenseFilter narrows the expense list. Range applies to expense_date.
type ExpenseFilter struct {
	Range    *TimeRange
	Category string
	Search   string
	Pagination
}

func (f ExpenseFilter) scope(db *gorm.DB) *gorm.DB {
	db = f.Range.apply(db, "expense_date")
	if f.Category != "" {
		db = db.Where("category = ?", f.Category)
	}
	if strings.TrimSpace(f.Search) != "" {
		pattern := containsPattern(f.Search)
		db = db.Where("LOWER(description) LIKE ? OR LOWER(COALESCE(category, '')) LIKE ?", pattern, pattern)
	}
	return db
}

// ExpenseRepository provides access to business expenses.
type ExpenseRepository struct {
	db *gorm.DB
}

// NewExpenseRepository creates a new expense repository
func NewExpenseRepository(db *gorm.DB) *ExpenseRepository {
	return &ExpenseRepository{db: db}
}

// List returns a page of expenses, latest expense date first.
func (r *ExpenseRepository) List(ctx context.Context, f ExpenseFilter) ([]models.Expense, int64, error) {
	page := f.Pagination.Normalize()

	var total int64
	if err := f.scope(r.db.WithContext(ctx).Model(&models.Expense{})).Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "failed to count expenses")
	}
	var expenses []models.Expense
	err := f.scope(r.db.WithContext(ctx)).
		Order("expense_date DESC, created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&expenses).Error
	return expenses, total, wrap(err, "failed to list expenses")
}

// FindInRange returns every expense whose expense date falls in rng, oldest first.
func (r *ExpenseRepository) FindInRange(ctx context.Context, rng *TimeRange) ([]models.Expense, error) {
	var expenses []models.Expense
	err := rng.apply(r.db.WithContext(ctx), "expense_date").
		Order("expense_date ASC").
		Find(&expenses).Error
	return expenses, wrap(err, "failed to load expenses")
}

func (r *ExpenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Expense, error) {
	var expense models.Expense
	if err := r.db.WithContext(ctx).First(&expense, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get expense")
	}
	return &expense, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, expense *models.Expense) error {
	return wrap(r.db.WithContext(ctx).Create(expense).Error, "failed to create expense")
}

func (r *ExpenseRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Expense{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return wrap(result.Error, "failed to update expense")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to update expense")
	}
	return nil
}

func (r *ExpenseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Expense{}, "id = ?", id)
	if result.Error != nil {
		return wrap(result.Error, "failed to delete expense")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to delete expense")
	}
	return nil
}

// Categories lists the distinct non-empty categories in use, alphabetically.
func (r *ExpenseRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).Model(&models.Expense{}).
		Where("category IS NOT NULL AND category <> ''").
		Distinct("category").
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, wrap(err, "failed to list expense categories")
}
