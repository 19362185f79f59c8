package handlers

import (
	"net/http"

	"pos-backend/services"

	"github.com/gin-gonic/gin"
)

const menuItemNotFound = "Menu item not found"

type MenuItemHandler struct {
	Menu *services.MenuService
}

func (h *MenuItemHandler) GetMenuItems(c *gin.Context) {
	var input services.MenuItemListInput
	if !bindQuery(c, &input) {
		return
	}

	items, err := h.Menu.ListItems(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Menu items retrieved successfully", items)
}

func (h *MenuItemHandler) GetAvailableItems(c *gin.Context) {
	items, err := h.Menu.AvailableItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Available menu items retrieved successfully", items)
}

func (h *MenuItemHandler) GetItemsByCategory(c *gin.Context) {
	id, valid := paramID(c, "categoryId", categoryNotFound)
	if !valid {
		return
	}

	items, err := h.Menu.ItemsByCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Menu items retrieved successfully", items)
}

func (h *MenuItemHandler) GetMenuItem(c *gin.Context) {
	id, valid := paramID(c, "id", menuItemNotFound)
	if !valid {
		return
	}

	item, err := h.Menu.GetItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Menu item retrieved successfully", item)
}

func (h *MenuItemHandler) CreateMenuItem(c *gin.Context) {
	var input services.MenuItemInput
	if !bindJSON(c, &input) {
		return
	}

	item, err := h.Menu.CreateItem(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	created(c, "Menu item created successfully", item)
}

func (h *MenuItemHandler) UpdateMenuItem(c *gin.Context) {
	id, valid := paramID(c, "id", menuItemNotFound)
	if !valid {
		return
	}

	var input services.MenuItemUpdateInput
	if !bindJSON(c, &input) {
		return
	}

	item, err := h.Menu.UpdateItem(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Menu item updated successfully", item)
}

func (h *MenuItemHandler) ToggleAvailability(c *gin.Context) {
	id, valid := paramID(c, "id", menuItemNotFound)
	if !valid {
		return
	}

	item, err := h.Menu.ToggleAvailability(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Menu item availability updated", item)
}

func (h *MenuItemHandler) DeleteMenuItem(c *gin.Context) {
	id, valid := paramID(c, "id", menuItemNotFound)
	if !valid {
		return
	}

	if err := h.Menu.DeleteItem(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Menu item deleted successfully", nil)
}
