package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pos-backend/config"
	"pos-backend/database"
	"pos-backend/models"
	"pos-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type authFixture struct {
	db        *gorm.DB
	tokens    *utils.TokenManager
	blocklist *utils.MemoryBlocklist
	router    *gin.Engine
}

func setupAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	if err != nil {
		t.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatal(err)
	}

	f := &authFixture{
		db:        db,
		tokens:    utils.NewTokenManager(config.JWTConfig{Secret: "test-secret-key-for-unit-tests"}),
		blocklist: utils.NewMemoryBlocklist(),
		router:    gin.New(),
	}

	auth := AuthMiddleware(f.tokens, f.blocklist, db)

	protected := f.router.Group("/api")
	protected.Use(auth)
	protected.GET("/test", func(c *gin.Context) {
		userID, _ := c.Get(ContextUserID)
		c.JSON(http.StatusOK, gin.H{
			"user_id": userID,
			"role":    c.GetString(ContextUserRole),
		})
	})

	manager := f.router.Group("/api/manager")
	manager.Use(auth, ManagerMiddleware())
	manager.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "manager access granted"})
	})

	admin := f.router.Group("/api/admin")
	admin.Use(auth, AdminMiddleware())
	admin.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "admin access granted"})
	})

	return f
}

func (f *authFixture) createUser(t *testing.T, username string, role models.UserRole, status models.UserStatus) *models.User {
	t.Helper()
	user := &models.User{Username: username, Password: "x", Role: role, Status: status}
	if err := f.db.Create(user).Error; err != nil {
		t.Fatal(err)
	}
	return user
}

func (f *authFixture) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := f.tokens.GenerateToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func (f *authFixture) get(path, authHeader string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	f.router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	f := setupAuthFixture(t)
	user := f.createUser(t, "cashier", models.RoleManager, models.UserStatusActive)

	w := f.get("/api/test", "Bearer "+f.token(t, user))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	f := setupAuthFixture(t)

	w := f.get("/api/test", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareInvalidFormat(t *testing.T) {
	f := setupAuthFixture(t)

	w := f.get("/api/test", "Token abc")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	f := setupAuthFixture(t)

	w := f.get("/api/test", "Bearer not-a-jwt")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareRejectsRefreshToken(t *testing.T) {
	f := setupAuthFixture(t)
	user := f.createUser(t, "cashier", models.RoleManager, models.UserStatusActive)

	refresh, err := f.tokens.GenerateRefreshToken(user.ID, user.Username, string(user.Role))
	if err != nil {
		t.Fatal(err)
	}

	w := f.get("/api/test", "Bearer "+refresh)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareRevokedToken(t *testing.T) {
	f := setupAuthFixture(t)
	user := f.createUser(t, "cashier", models.RoleManager, models.UserStatusActive)
	token := f.token(t, user)

	claims, err := f.tokens.ValidateToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.blocklist.Revoke(context.Background(), claims.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	w := f.get("/api/test", "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareInactiveUser(t *testing.T) {
	f := setupAuthFixture(t)
	user := f.createUser(t, "former", models.RoleManager, models.UserStatusInactive)

	w := f.get("/api/test", "Bearer "+f.token(t, user))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestAuthMiddlewareDeletedUser(t *testing.T) {
	f := setupAuthFixture(t)
	user := f.createUser(t, "gone", models.RoleManager, models.UserStatusActive)
	token := f.token(t, user)
	if err := f.db.Delete(user).Error; err != nil {
		t.Fatal(err)
	}

	w := f.get("/api/test", "Bearer "+token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
}

func TestManagerMiddleware(t *testing.T) {
	f := setupAuthFixture(t)
	manager := f.createUser(t, "manager", models.RoleManager, models.UserStatusActive)
	admin := f.createUser(t, "admin", models.RoleAdmin, models.UserStatusActive)

	for _, user := range []*models.User{manager, admin} {
		w := f.get("/api/manager/test", "Bearer "+f.token(t, user))
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", user.Username, w.Code)
		}
	}
}

func TestAdminMiddlewareNonAdmin(t *testing.T) {
	f := setupAuthFixture(t)
	user := f.createUser(t, "manager", models.RoleManager, models.UserStatusActive)

	w := f.get("/api/admin/test", "Bearer "+f.token(t, user))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestAdminMiddlewareAdmin(t *testing.T) {
	f := setupAuthFixture(t)
	user := f.createUser(t, "admin", models.RoleAdmin, models.UserStatusActive)

	w := f.get("/api/admin/test", "Bearer "+f.token(t, user))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}
