package repositories

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"pos-backend/models"
)

// RiderFilter narrows the rider list.
type RiderFilter struct {
	Search string
	Status models.RiderStatus
	Pagination
}

func (f RiderFilter) scope(db *gorm.DB) *gorm.DB {
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if strings.TrimSpace(f.Search) != "" {
		pattern := containsPattern(f.Search)
		db = db.Where("LOWER(name) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(COALESCE(cnic, '')) LIKE ?",
			pattern, pattern, pattern)
	}
	return db
}

// RiderRepository provides access to delivery riders.
type RiderRepository struct {
	db *gorm.DB
}

// NewRiderRepository creates a new rider repository
func NewRiderRepository(db *gorm.DB) *RiderRepository {
	return &RiderRepository{db: db}
}

func (r *RiderRepository) List(ctx context.Context, f RiderFilter) ([]models.Rider, int64, error) {
	page := f.Pagination.Normalize()

	var total int64
	if err := f.scope(r.db.WithContext(ctx).Model(&models.Rider{})).Count(&total).Error; err != nil {
		return nil, 0, wrap(err, "failed to count riders")
	}
	var riders []models.Rider
	err := f.scope(r.db.WithContext(ctx)).
		Order("created_at DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&riders).Error
	return riders, total, wrap(err, "failed to list riders")
}

// Active lists riders available for assignment, by name.
func (r *RiderRepository) Active(ctx context.Context) ([]models.Rider, error) {
	var riders []models.Rider
	err := r.db.WithContext(ctx).
		Where("status = ?", models.RiderStatusActive).
		Order("name ASC").
		Find(&riders).Error
	return riders, wrap(err, "failed to list active riders")
}

func (r *RiderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Rider, error) {
	var rider models.Rider
	if err := r.db.WithContext(ctx).First(&rider, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get rider")
	}
	return &rider, nil
}

func (r *RiderRepository) FindByPhone(ctx context.Context, phone string) (*models.Rider, error) {
	var rider models.Rider
	if err := r.db.WithContext(ctx).First(&rider, "phone = ?", phone).Error; err != nil {
		return nil, wrap(err, "failed to get rider by phone")
	}
	return &rider, nil
}

func (r *RiderRepository) FindByCNIC(ctx context.Context, cnic string) (*models.Rider, error) {
	var rider models.Rider
	if err := r.db.WithContext(ctx).First(&rider, "cnic = ?", cnic).Error; err != nil {
		return nil, wrap(err, "failed to get rider by cnic")
	}
	return &rider, nil
}

func (r *RiderRepository) Create(ctx context.Context, rider *models.Rider) error {
	return wrap(r.db.WithContext(ctx).Create(rider).Error, "failed to create rider")
}

func (r *RiderRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Rider{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return wrap(result.Error, "failed to update rider")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to update rider")
	}
	return nil
}

func (r *RiderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.Rider{}, "id = ?", id)
	if result.Error != nil {
		return wrap(result.Error, "failed to delete rider")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to delete rider")
	}
	return nil
}

// SetStats overwrites the derived delivery totals.
func (r *RiderRepository) SetStats(ctx context.Context, id uuid.UUID, deliveries int64, cashCollected decimal.Decimal) error {
	err := r.db.WithContext(ctx).Model(&models.Rider{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_deliveries":     deliveries,
			"total_cash_collected": cashCollected,
		}).Error
	return wrap(err, "failed to update rider stats")
}

func (r *RiderRepository) IDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Rider{}).Pluck("id", &ids).Error
	return ids, wrap(err, "failed to list rider ids")
}
