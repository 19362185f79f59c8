package handlers

import (
	"net/http"
	"time"

	"pos-backend/middleware"
	"pos-backend/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input services.LoginInput
	if !bindJSON(c, &input) {
		return
	}

	session, err := h.Auth.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Login successful", session)
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input services.UserInput
	if !bindJSON(c, &input) {
		return
	}

	session, err := h.Auth.Register(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	created(c, "User registered successfully", session)
}

func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var input services.RefreshInput
	if !bindJSON(c, &input) {
		return
	}

	session, err := h.Auth.Refresh(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Token refreshed successfully", session)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	expiresAt := time.Now().Add(24 * time.Hour)
	if v, exists := c.Get(middleware.ContextTokenExpires); exists {
		if t, isTime := v.(time.Time); isTime {
			expiresAt = t
		}
	}

	if err := h.Auth.Logout(c.Request.Context(), user.ID, c.GetString(middleware.ContextTokenID), expiresAt); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	me, err := h.Auth.Me(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "User retrieved successfully", me)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	var input services.ChangePasswordInput
	if !bindJSON(c, &input) {
		return
	}

	if err := h.Auth.ChangePassword(c.Request.Context(), user.ID, input); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Password changed successfully", nil)
}
