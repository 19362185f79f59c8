package utils

import (
	"strings"
	"testing"
	"time"

	"pos-backend/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func newTestTokenManager() *TokenManager {
	return NewTokenManager(config.JWTConfig{
		Secret:        "test-secret-key-for-unit-tests",
		RefreshSecret: "test-refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
}

func TestGenerateToken(t *testing.T) {
	m := newTestTokenManager()

	token, err := m.GenerateToken(uuid.New(), "cashier", "manager")
	if err != nil {
		t.Fatalf("expected no error generating token, got: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("expected JWT with 2 dots, got %q", token)
	}
}

func TestValidateToken(t *testing.T) {
	m := newTestTokenManager()
	userID := uuid.New()

	token, err := m.GenerateToken(userID, "owner", "admin")
	if err != nil {
		t.Fatalf("expected no error generating token, got: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("expected no error validating token, got: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Username != "owner" || claims.Role != "admin" {
		t.Errorf("unexpected claims %+v", claims)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestRefreshTokenIsNotAnAccessToken(t *testing.T) {
	m := newTestTokenManager()

	refresh, err := m.GenerateRefreshToken(uuid.New(), "owner", "admin")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.ValidateToken(refresh); err == nil {
		t.Error("refresh token must not validate as an access token")
	}
	if _, err := m.ValidateRefreshToken(refresh); err != nil {
		t.Errorf("expected refresh token to validate, got %v", err)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	m := newTestTokenManager()
	other := NewTokenManager(config.JWTConfig{Secret: "another-secret"})

	token, _ := other.GenerateToken(uuid.New(), "x", "manager")
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("expected error for token signed with another secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	m := newTestTokenManager()
	claims := Claims{
		UserID: uuid.New(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			Issuer:    "pos-backend",
		},
	}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret-key-for-unit-tests"))

	if _, err := m.ValidateToken(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	m := newTestTokenManager()
	if _, err := m.ValidateToken("not.a.token"); err == nil {
		t.Error("expected error for malformed token")
	}
}

func TestNewTokenManagerPanicsWithoutSecret(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic without secret")
		}
	}()
	NewTokenManager(config.JWTConfig{})
}
