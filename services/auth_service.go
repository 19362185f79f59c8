package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"pos-backend/models"
	"pos-backend/repositories"
	"pos-backend/utils"
)

const (
	invalidCredentials  = "Invalid credentials"
	invalidRefreshToken = "Invalid refresh token"
)

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// Session is returned by login, register and refresh.
type Session struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

type AuthService struct {
	db        *gorm.DB
	tokens    *utils.TokenManager
	blocklist utils.TokenBlocklist
	users     *UserService
}

func NewAuthService(db *gorm.DB, tokens *utils.TokenManager, blocklist utils.TokenBlocklist) *AuthService {
	return &AuthService{db: db, tokens: tokens, blocklist: blocklist, users: NewUserService(db)}
}

func (s *AuthService) repo() *repositories.UserRepository {
	return repositories.NewUserRepository(s.db)
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	user, err := s.repo().FindByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, Unauthorized(invalidCredentials)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, Unauthorized(invalidCredentials)
	}
	if user.Status != models.UserStatusActive {
		return nil, Unauthorized("Account is inactive")
	}

	session, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := s.repo().TouchLastLogin(ctx, user.ID, now); err != nil {
		log.Warn().Err(err).Str("user_id", user.ID.String()).Msg("Failed to record last login")
	} else {
		user.LastLogin = &now
	}
	log.Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("User logged in")
	return session, nil
}

// Register creates an account and signs it in.
func (s *AuthService) Register(ctx context.Context, input UserInput) (*Session, error) {
	user, err := s.users.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

// Refresh trades a stored refresh token for a new pair. The old refresh
// token is revoked.
func (s *AuthService) Refresh(ctx context.Context, input RefreshInput) (*Session, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	claims, err := s.tokens.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, Unauthorized(invalidRefreshToken)
	}
	now := time.Now()
	stored, err := s.repo().FindActiveRefreshToken(ctx, input.RefreshToken, now)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, Unauthorized(invalidRefreshToken)
		}
		return nil, err
	}
	if stored.UserID != claims.UserID {
		return nil, Unauthorized(invalidRefreshToken)
	}
	user, err := s.repo().FindByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, Unauthorized(invalidRefreshToken)
		}
		return nil, err
	}
	if user.Status != models.UserStatusActive {
		return nil, Unauthorized("Account is inactive")
	}
	if err := s.repo().RevokeRefreshToken(ctx, stored.ID, now); err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

// Logout revokes the user's refresh tokens and blocklists the access token
// identified by tokenID until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, userID uuid.UUID, tokenID string, expiresAt time.Time) error {
	if err := s.repo().RevokeUserRefreshTokens(ctx, userID, time.Now()); err != nil {
		return err
	}
	if tokenID != "" {
		if err := s.blocklist.Revoke(ctx, tokenID, expiresAt); err != nil {
			return err
		}
	}
	log.Info().Str("user_id", userID.String()).Msg("User logged out")
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.Get(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, input ChangePasswordInput) error {
	if err := validate(input); err != nil {
		return err
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)); err != nil {
		return Validation("Current password is incorrect")
	}
	hashed, err := HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	if err := s.repo().Update(ctx, userID, map[string]interface{}{"password": hashed}); err != nil {
		return translate(err, userNotFound, "")
	}
	if err := s.repo().RevokeUserRefreshTokens(ctx, userID, time.Now()); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to revoke refresh tokens after password change")
	}
	log.Info().Str("user_id", userID.String()).Msg("Password changed")
	return nil
}

func (s *AuthService) issue(ctx context.Context, user *models.User) (*Session, error) {
	access, err := s.tokens.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate token")
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate refresh token")
	}
	stored := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().UTC().Add(s.tokens.RefreshTTL()),
	}
	if err := s.repo().CreateRefreshToken(ctx, stored); err != nil {
		return nil, err
	}
	return &Session{Token: access, RefreshToken: refresh, User: user}, nil
}
