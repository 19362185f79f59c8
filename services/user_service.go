package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pos-backend/models"
	"pos-backend/repositories"
)

const (
	userNotFound     = "User not found"
	duplicateUser    = "Username already exists"
	lastAdminMessage = "Cannot delete the last admin user"
)

type UserInput struct {
	Username string          `json:"username" binding:"required,min=3,max=50"`
	Password string          `json:"password" binding:"required,min=6"`
	FullName string          `json:"full_name" binding:"max=100"`
	Email    *string         `json:"email" binding:"omitempty,email"`
	Phone    *string         `json:"phone" binding:"omitempty,max=20"`
	Role     models.UserRole `json:"role" binding:"omitempty,oneof=admin manager"`
}

type UserUpdateInput struct {
	Username *string           `json:"username" binding:"omitempty,min=3,max=50"`
	Password *string           `json:"password" binding:"omitempty,min=6"`
	FullName *string           `json:"full_name" binding:"omitempty,max=100"`
	Email    *string           `json:"email" binding:"omitempty,email"`
	Phone    *string           `json:"phone" binding:"omitempty,max=20"`
	Role     models.UserRole   `json:"role" binding:"omitempty,oneof=admin manager"`
	Status   models.UserStatus `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ProfileInput is what users may change about themselves.
type ProfileInput struct {
	FullName *string `json:"full_name" binding:"omitempty,max=100"`
	Email    *string `json:"email" binding:"omitempty,email"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
}

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) repo() *repositories.UserRepository {
	return repositories.NewUserRepository(s.db)
}

// HashPassword hashes with bcrypt's default cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "failed to hash password")
	}
	return string(hashed), nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.repo().List(ctx)
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo().FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, userNotFound, "")
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, input UserInput) (*models.User, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(input.Username)
	if _, err := s.repo().FindByUsername(ctx, username); err == nil {
		return nil, Conflict(duplicateUser)
	}
	hashed, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username: username,
		Password: hashed,
		FullName: strings.TrimSpace(input.FullName),
		Email:    input.Email,
		Phone:    input.Phone,
		Role:     input.Role,
		Status:   models.UserStatusActive,
	}
	if err := s.repo().Create(ctx, user); err != nil {
		return nil, translate(err, userNotFound, duplicateUser)
	}
	log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Str("role", string(user.Role)).Msg("User created")
	return user, nil
}

// guardLastAdmin fails when user is the only active admin.
func (s *UserService) guardLastAdmin(ctx context.Context, user *models.User, message string) error {
	if user.Role != models.RoleAdmin || user.Status != models.UserStatusActive {
		return nil
	}
	count, err := s.repo().CountActiveAdmins(ctx)
	if err != nil {
		return err
	}
	if count <= 1 {
		return Validation(message)
	}
	return nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, input UserUpdateInput) (*models.User, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	demoted := input.Role != "" && input.Role != models.RoleAdmin
	deactivated := input.Status == models.UserStatusInactive
	if demoted || deactivated {
		if err := s.guardLastAdmin(ctx, user, "Cannot demote or deactivate the last admin user"); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if other, err := s.repo().FindByUsername(ctx, username); err == nil && other.ID != id {
			return nil, Conflict(duplicateUser)
		}
		updates["username"] = username
	}
	if input.Password != nil {
		hashed, err := HashPassword(*input.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hashed
	}
	if input.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*input.FullName)
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Role != "" {
		updates["role"] = input.Role
	}
	if input.Status != "" {
		updates["status"] = input.Status
	}
	if len(updates) > 0 {
		if err := s.repo().Update(ctx, id, updates); err != nil {
			return nil, translate(err, userNotFound, duplicateUser)
		}
	}
	return s.Get(ctx, id)
}

// UpdateProfile lets a signed-in user edit their own contact details.
func (s *UserService) UpdateProfile(ctx context.Context, id uuid.UUID, input ProfileInput) (*models.User, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	return s.Update(ctx, id, UserUpdateInput{FullName: input.FullName, Email: input.Email, Phone: input.Phone})
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guardLastAdmin(ctx, user, lastAdminMessage); err != nil {
		return err
	}
	if err := s.repo().Delete(ctx, id); err != nil {
		return translate(err, userNotFound, "")
	}
	log.Info().Str("user_id", id.String()).Msg("User deleted")
	return nil
}

// Deactivate marks the account inactive. The last active admin cannot.
func (s *UserService) Deactivate(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.Update(ctx, id, UserUpdateInput{Status: models.UserStatusInactive})
}
