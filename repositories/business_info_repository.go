package repositories

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pos-backend/models"
)

// BusinessInfoRepository stores key/value business settings.
type BusinessInfoRepository struct {
	db *gorm.DB
}

// NewBusinessInfoRepository creates a new business info repository
func NewBusinessInfoRepository(db *gorm.DB) *BusinessInfoRepository {
	return &BusinessInfoRepository{db: db}
}

func (r *BusinessInfoRepository) List(ctx context.Context) ([]models.BusinessInfo, error) {
	var entries []models.BusinessInfo
	err := r.db.WithContext(ctx).Order("key ASC").Find(&entries).Error
	return entries, wrap(err, "failed to list business info")
}

func (r *BusinessInfoRepository) FindByKey(ctx context.Context, key string) (*models.BusinessInfo, error) {
	var entry models.BusinessInfo
	if err := r.db.WithContext(ctx).First(&entry, "key = ?", key).Error; err != nil {
		return nil, wrap(err, "failed to get business info")
	}
	return &entry, nil
}

func (r *BusinessInfoRepository) Create(ctx context.Context, entry *models.BusinessInfo) error {
	return wrap(r.db.WithContext(ctx).Create(entry).Error, "failed to create business info")
}

func (r *BusinessInfoRepository) Update(ctx context.Context, key string, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.BusinessInfo{}).Where("key = ?", key).Updates(updates)
	if result.Error != nil {
		return wrap(result.Error, "failed to update business info")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to update business info")
	}
	return nil
}

// Upsert inserts the entry or overwrites value and description of an existing key.
func (r *BusinessInfoRepository) Upsert(ctx context.Context, entry *models.BusinessInfo) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "description", "updated_at"}),
	}).Create(entry).Error
	return wrap(err, "failed to upsert business info")
}

func (r *BusinessInfoRepository) Delete(ctx context.Context, key string) error {
	result := r.db.WithContext(ctx).Where("key = ?", key).Delete(&models.BusinessInfo{})
	if result.Error != nil {
		return wrap(result.Error, "failed to delete business info")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to delete business info")
	}
	return nil
}
