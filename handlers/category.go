package handlers

import (
	"net/http"

	"pos-backend/services"

	"github.com/gin-gonic/gin"
)

const categoryNotFound = "Category not found"

type CategoryHandler struct {
	Menu *services.MenuService
}

func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.Menu.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Categories retrieved successfully", categories)
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, valid := paramID(c, "id", categoryNotFound)
	if !valid {
		return
	}

	category, err := h.Menu.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Category retrieved successfully", category)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var input services.CategoryInput
	if !bindJSON(c, &input) {
		return
	}

	category, err := h.Menu.CreateCategory(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	created(c, "Category created successfully", category)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, valid := paramID(c, "id", categoryNotFound)
	if !valid {
		return
	}

	var input services.CategoryUpdateInput
	if !bindJSON(c, &input) {
		return
	}

	category, err := h.Menu.UpdateCategory(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Category updated successfully", category)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, valid := paramID(c, "id", categoryNotFound)
	if !valid {
		return
	}

	if err := h.Menu.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Category deleted successfully", nil)
}
