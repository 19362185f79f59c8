package utils

import (
	"fmt"
	"time"

	"pos-backend/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Claims struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and verifies access and refresh tokens. Refresh tokens
// are signed with their own secret so one cannot stand in for the other.
type TokenManager struct {
	secret        []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	issuer        string
}

func NewTokenManager(cfg config.JWTConfig) *TokenManager {
	if cfg.Secret == "" {
		panic("FATAL: JWT secret is not set. Refusing to start with an insecure configuration.")
	}
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}
	accessTTL := cfg.AccessTTL
	if accessTTL <= 0 {
		accessTTL = 7 * 24 * time.Hour
	}
	refreshTTL := cfg.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}
	issuer := cfg.Issuer
	if issuer == "" {
		issuer = "pos-backend"
	}
	return &TokenManager{
		secret:        []byte(cfg.Secret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		issuer:        issuer,
	}
}

func (m *TokenManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

func (m *TokenManager) GenerateToken(userID uuid.UUID, username, role string) (string, error) {
	return m.sign(userID, username, role, m.accessTTL, m.issuer, m.secret)
}

func (m *TokenManager) GenerateRefreshToken(userID uuid.UUID, username, role string) (string, error) {
	return m.sign(userID, username, role, m.refreshTTL, m.issuer+"-refresh", m.refreshSecret)
}

func (m *TokenManager) sign(userID uuid.UUID, username, role string, ttl time.Duration, issuer string, secret []byte) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   userID,
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (m *TokenManager) ValidateToken(tokenString string) (*Claims, error) {
	return parse(tokenString, m.secret, m.issuer)
}

func (m *TokenManager) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return parse(tokenString, m.refreshSecret, m.issuer+"-refresh")
}

func parse(tokenString string, secret []byte, issuer string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(issuer))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
