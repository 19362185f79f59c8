package handlers

import (
	"net/http"

	"pos-backend/services"

	"github.com/gin-gonic/gin"
)

const userNotFound = "User not found"

type UserHandler struct {
	Users *services.UserService
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Users retrieved successfully", users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, valid := paramID(c, "id", userNotFound)
	if !valid {
		return
	}

	user, err := h.Users.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "User retrieved successfully", user)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var input services.UserInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.Users.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	created(c, "User created successfully", user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, valid := paramID(c, "id", userNotFound)
	if !valid {
		return
	}

	var input services.UserUpdateInput
	if !bindJSON(c, &input) {
		return
	}

	user, err := h.Users.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "User updated successfully", user)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, valid := paramID(c, "id", userNotFound)
	if !valid {
		return
	}

	current, found := currentUser(c)
	if !found {
		return
	}
	if current.ID == id {
		fail(c, http.StatusBadRequest, "Cannot delete your own account", nil)
		return
	}

	if err := h.Users.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "User deleted successfully", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	profile, err := h.Users.Get(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Profile retrieved successfully", profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	var input services.ProfileInput
	if !bindJSON(c, &input) {
		return
	}

	profile, err := h.Users.UpdateProfile(c.Request.Context(), user.ID, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Profile updated successfully", profile)
}

func (h *UserHandler) DeactivateProfile(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	if _, err := h.Users.Deactivate(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Account deactivated successfully", nil)
}
