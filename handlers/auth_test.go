package handlers

import (
	"net/http"
	"testing"

	"pos-backend/models"
	"pos-backend/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthRouter(t *testing.T) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	h := &AuthHandler{Auth: services.NewAuthService(env.db, env.tokens, env.blocklist)}

	a := env.router.Group("/api/auth")
	a.POST("/login", h.Login)
	a.POST("/register", h.Register)
	a.POST("/refresh-token", h.RefreshToken)
	a.POST("/logout", env.auth, h.Logout)
	a.GET("/me", env.auth, h.Me)
	a.PUT("/change-password", env.auth, h.ChangePassword)
	return env
}

func login(t *testing.T, env *testEnv, username, password string) map[string]interface{} {
	t.Helper()
	w := env.do(jsonRequest("POST", "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return data(t, w)
}

func TestLoginSuccess(t *testing.T) {
	env := setupAuthRouter(t)
	createTestUser(t, env.db, "admin", "admin123", models.RoleAdmin)

	session := login(t, env, "admin", "admin123")
	assert.NotEmpty(t, session["token"])
	assert.NotEmpty(t, session["refresh_token"])

	user := session["user"].(map[string]interface{})
	assert.Equal(t, "admin", user["username"])
	assert.Nil(t, user["password"], "password hash must never be serialized")
}

func TestLoginWrongPassword(t *testing.T) {
	env := setupAuthRouter(t)
	createTestUser(t, env.db, "admin", "admin123", models.RoleAdmin)

	w := env.do(jsonRequest("POST", "/api/auth/login", map[string]string{
		"username": "admin",
		"password": "nope",
	}))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", parseResponse(w)["message"])
}

func TestLoginMissingFields(t *testing.T) {
	env := setupAuthRouter(t)

	w := env.do(jsonRequest("POST", "/api/auth/login", map[string]string{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, parseResponse(w)["errors"])
}

func TestRegisterThenMe(t *testing.T) {
	env := setupAuthRouter(t)

	w := env.do(jsonRequest("POST", "/api/auth/register", map[string]string{
		"username":  "newbie",
		"password":  "secret123",
		"full_name": "New Person",
	}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	token := data(t, w)["token"].(string)

	w = env.do(authRequest("GET", "/api/auth/me", nil, token))
	require.Equal(t, http.StatusOK, w.Code)
	me := data(t, w)
	assert.Equal(t, "newbie", me["username"])
	assert.Equal(t, "manager", me["role"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := setupAuthRouter(t)
	createTestUser(t, env.db, "taken", "secret123", models.RoleManager)

	w := env.do(jsonRequest("POST", "/api/auth/register", map[string]string{
		"username": "taken",
		"password": "secret123",
	}))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	env := setupAuthRouter(t)
	createTestUser(t, env.db, "admin", "admin123", models.RoleAdmin)
	session := login(t, env, "admin", "admin123")

	body := map[string]interface{}{"refresh_token": session["refresh_token"]}
	w := env.do(jsonRequest("POST", "/api/auth/refresh-token", body))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEqual(t, session["refresh_token"], data(t, w)["refresh_token"])

	w = env.do(jsonRequest("POST", "/api/auth/refresh-token", body))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	env := setupAuthRouter(t)
	createTestUser(t, env.db, "admin", "admin123", models.RoleAdmin)
	token := login(t, env, "admin", "admin123")["token"].(string)

	w := env.do(authRequest("POST", "/api/auth/logout", nil, token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(authRequest("GET", "/api/auth/me", nil, token))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword(t *testing.T) {
	env := setupAuthRouter(t)
	createTestUser(t, env.db, "admin", "admin123", models.RoleAdmin)
	token := login(t, env, "admin", "admin123")["token"].(string)

	w := env.do(authRequest("PUT", "/api/auth/change-password", map[string]string{
		"current_password": "wrong",
		"new_password":     "newsecret",
	}, token))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(authRequest("PUT", "/api/auth/change-password", map[string]string{
		"current_password": "admin123",
		"new_password":     "newsecret",
	}, token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	login(t, env, "admin", "newsecret")
}
