package handlers

import (
	"net/http"

	"pos-backend/services"

	"github.com/gin-gonic/gin"
)

type BusinessInfoHandler struct {
	Info *services.BusinessInfoService
}

func (h *BusinessInfoHandler) GetAll(c *gin.Context) {
	entries, err := h.Info.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Business info retrieved successfully", entries)
}

func (h *BusinessInfoHandler) GetSettings(c *gin.Context) {
	settings, err := h.Info.Settings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Business settings retrieved successfully", settings)
}

func (h *BusinessInfoHandler) Get(c *gin.Context) {
	entry, err := h.Info.Get(c.Request.Context(), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Business info retrieved successfully", entry)
}

func (h *BusinessInfoHandler) Create(c *gin.Context) {
	var input services.BusinessInfoInput
	if !bindJSON(c, &input) {
		return
	}

	entry, err := h.Info.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	created(c, "Business info created successfully", entry)
}

func (h *BusinessInfoHandler) Update(c *gin.Context) {
	var input services.BusinessInfoUpdateInput
	if !bindJSON(c, &input) {
		return
	}

	entry, err := h.Info.Update(c.Request.Context(), c.Param("key"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Business info updated successfully", entry)
}

// Upsert sets a key whether or not it exists yet.
func (h *BusinessInfoHandler) Upsert(c *gin.Context) {
	var input services.BusinessInfoUpdateInput
	if !bindJSON(c, &input) {
		return
	}

	entry, err := h.Info.Upsert(c.Request.Context(), c.Param("key"), input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Business info saved successfully", entry)
}

func (h *BusinessInfoHandler) Delete(c *gin.Context) {
	if err := h.Info.Delete(c.Request.Context(), c.Param("key")); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Business info deleted successfully", nil)
}
