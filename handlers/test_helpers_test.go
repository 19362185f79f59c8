package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"pos-backend/config"
	"pos-backend/database"
	"pos-backend/middleware"
	"pos-backend/models"
	"pos-backend/services"
	"pos-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, time.March, 11, 14, 30, 0, 0, time.Local)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	utils.RegisterValidators()
	os.Exit(m.Run())
}

// testEnv is a fresh in-memory database with the auth collaborators handlers
// need.
type testEnv struct {
	db        *gorm.DB
	tokens    *utils.TokenManager
	blocklist *utils.MemoryBlocklist
	clock     services.Clock
	router    *gin.Engine
	auth      gin.HandlerFunc
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	env := &testEnv{
		db:        db,
		tokens:    utils.NewTokenManager(config.JWTConfig{Secret: "test-secret-key-for-unit-tests"}),
		blocklist: utils.NewMemoryBlocklist(),
		clock:     services.Clock{Location: time.Local, Now: func() time.Time { return testNow }},
		router:    gin.New(),
	}
	env.auth = middleware.AuthMiddleware(env.tokens, env.blocklist, db)
	env.router.NoRoute(NotFound)
	return env
}

func createTestUser(t *testing.T, db *gorm.DB, username, password string, role models.UserRole) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username: username,
		Password: string(hash),
		FullName: username,
		Role:     role,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func (env *testEnv) tokenFor(t *testing.T, user *models.User) string {
	t.Helper()
	token, err := env.tokens.GenerateToken(user.ID, user.Username, string(user.Role))
	require.NoError(t, err)
	return token
}

func seedMenuItem(t *testing.T, db *gorm.DB, name, price string) models.MenuItem {
	t.Helper()
	item := models.MenuItem{Name: name, Price: decimal.RequireFromString(price), Available: true}
	require.NoError(t, db.Create(&item).Error)
	return item
}

func jsonRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authRequest(method, url string, body interface{}, token string) *http.Request {
	req := jsonRequest(method, url, body)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) map[string]interface{} {
	var result map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &result)
	return result
}

// data returns the envelope's data object.
func data(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	body := parseResponse(w)
	d, isMap := body["data"].(map[string]interface{})
	require.True(t, isMap, "expected object data, got %s", w.Body.String())
	return d
}
