package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"pos-backend/models"
)

// UserRepository provides access to staff accounts and their refresh tokens.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error
	return users, wrap(err, "failed to list users")
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrap(err, "failed to get user")
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, wrap(err, "failed to get user by username")
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return wrap(r.db.WithContext(ctx).Create(user).Error, "failed to create user")
}

func (r *UserRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return wrap(result.Error, "failed to update user")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to update user")
	}
	return nil
}

// Delete soft-deletes the user.
func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return wrap(result.Error, "failed to delete user")
	}
	if result.RowsAffected == 0 {
		return errors.Wrap(ErrNotFound, "failed to delete user")
	}
	return nil
}

// CountActiveAdmins counts admins that can still sign in.
func (r *UserRepository) CountActiveAdmins(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND status = ?", models.RoleAdmin, models.UserStatusActive).
		Count(&count).Error
	return count, wrap(err, "failed to count admins")
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", at.UTC()).Error
	return wrap(err, "failed to update last login")
}

func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	return wrap(r.db.WithContext(ctx).Create(token).Error, "failed to store refresh token")
}

// FindActiveRefreshToken returns the stored token if it is neither revoked nor expired.
func (r *UserRepository) FindActiveRefreshToken(ctx context.Context, token string, now time.Time) (*models.RefreshToken, error) {
	var stored models.RefreshToken
	err := r.db.WithContext(ctx).
		Where("token = ? AND revoked_at IS NULL AND expires_at > ?", token, now.UTC()).
		First(&stored).Error
	if err != nil {
		return nil, wrap(err, "failed to get refresh token")
	}
	return &stored, nil
}

func (r *UserRepository) RevokeRefreshToken(ctx context.Context, id uuid.UUID, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("id = ?", id).
		Update("revoked_at", at.UTC()).Error
	return wrap(err, "failed to revoke refresh token")
}

// RevokeUserRefreshTokens revokes every outstanding refresh token of the user.
func (r *UserRepository) RevokeUserRefreshTokens(ctx context.Context, userID uuid.UUID, at time.Time) error {
	err := r.db.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", at.UTC()).Error
	return wrap(err, "failed to revoke refresh tokens")
}

// DeleteExpiredRefreshTokens prunes tokens that can no longer be used.
func (r *UserRepository) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("expires_at <= ?", now.UTC()).Delete(&models.RefreshToken{})
	return result.RowsAffected, wrap(result.Error, "failed to delete expired refresh tokens")
}
