package handlers

import (
	"net/http"

	"pos-backend/models"
	"pos-backend/repositories"
	"pos-backend/services"

	"github.com/gin-gonic/gin"
)

const riderNotFound = "Rider not found"

type RiderHandler struct {
	Riders *services.RiderService
}

type riderOrdersQuery struct {
	Status models.DeliveryStatus `form:"status"`
	Page   int                   `form:"page" binding:"omitempty,gte=1"`
	Limit  int                   `form:"limit" binding:"omitempty,gte=1"`
}

func (h *RiderHandler) GetRiders(c *gin.Context) {
	var input services.RiderListInput
	if !bindQuery(c, &input) {
		return
	}

	list, err := h.Riders.List(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Riders retrieved successfully", list)
}

func (h *RiderHandler) GetActiveRiders(c *gin.Context) {
	riders, err := h.Riders.Active(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Active riders retrieved successfully", riders)
}

func (h *RiderHandler) GetRider(c *gin.Context) {
	id, valid := paramID(c, "id", riderNotFound)
	if !valid {
		return
	}

	rider, err := h.Riders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Rider retrieved successfully", rider)
}

func (h *RiderHandler) GetRiderByPhone(c *gin.Context) {
	rider, err := h.Riders.GetByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Rider retrieved successfully", rider)
}

func (h *RiderHandler) CreateRider(c *gin.Context) {
	var input services.RiderInput
	if !bindJSON(c, &input) {
		return
	}

	rider, err := h.Riders.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	created(c, "Rider created successfully", rider)
}

func (h *RiderHandler) UpdateRider(c *gin.Context) {
	id, valid := paramID(c, "id", riderNotFound)
	if !valid {
		return
	}

	var input services.RiderUpdateInput
	if !bindJSON(c, &input) {
		return
	}

	rider, err := h.Riders.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Rider updated successfully", rider)
}

func (h *RiderHandler) DeleteRider(c *gin.Context) {
	id, valid := paramID(c, "id", riderNotFound)
	if !valid {
		return
	}

	if err := h.Riders.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Rider deleted successfully", nil)
}

func (h *RiderHandler) ToggleStatus(c *gin.Context) {
	id, valid := paramID(c, "id", riderNotFound)
	if !valid {
		return
	}

	rider, err := h.Riders.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Rider status updated", rider)
}

func (h *RiderHandler) GetRiderOrders(c *gin.Context) {
	id, valid := paramID(c, "id", riderNotFound)
	if !valid {
		return
	}

	var q riderOrdersQuery
	if !bindQuery(c, &q) {
		return
	}

	list, err := h.Riders.Orders(c.Request.Context(), id, q.Status, repositories.Pagination{Page: q.Page, Limit: q.Limit})
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Rider orders retrieved successfully", list)
}
