package handlers

import (
	"net/http"

	"pos-backend/models"
	"pos-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const orderNotFound = "Order not found"

type OrderHandler struct {
	Orders *services.OrderService
}

type orderStatusRequest struct {
	OrderStatus models.OrderStatus `json:"order_status" binding:"required"`
}

type deliveryStatusRequest struct {
	DeliveryStatus models.DeliveryStatus `json:"delivery_status" binding:"required"`
}

type assignRiderRequest struct {
	RiderID uuid.UUID `json:"rider_id" binding:"required"`
}

// staffName is the display name recorded on orders and edit history.
func staffName(user *models.User) string {
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	var input services.CreateOrderInput
	if !bindJSON(c, &input) {
		return
	}

	order, err := h.Orders.CreateOrder(c.Request.Context(), input, staffName(user))
	if err != nil {
		respondError(c, err)
		return
	}

	created(c, "Order created successfully", order)
}

func (h *OrderHandler) GetOrders(c *gin.Context) {
	var input services.OrderListInput
	if !bindQuery(c, &input) {
		return
	}

	list, err := h.Orders.GetOrders(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Orders retrieved successfully", list)
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, valid := paramID(c, "id", orderNotFound)
	if !valid {
		return
	}

	order, err := h.Orders.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Order retrieved successfully", order)
}

func (h *OrderHandler) GetOrderItems(c *gin.Context) {
	id, valid := paramID(c, "id", orderNotFound)
	if !valid {
		return
	}

	items, err := h.Orders.GetOrderItems(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Order items retrieved successfully", items)
}

func (h *OrderHandler) GetOrderHistory(c *gin.Context) {
	id, valid := paramID(c, "id", orderNotFound)
	if !valid {
		return
	}

	history, err := h.Orders.GetOrderEditHistory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Order edit history retrieved successfully", history)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}
	id, valid := paramID(c, "id", orderNotFound)
	if !valid {
		return
	}

	var input services.UpdateOrderInput
	if !bindJSON(c, &input) {
		return
	}

	editor := services.Editor{Name: staffName(user), IPAddress: c.ClientIP()}
	order, err := h.Orders.UpdateOrder(c.Request.Context(), id, input, editor)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Order updated successfully", order)
}

func (h *OrderHandler) MarkPaid(c *gin.Context) {
	id, valid := paramID(c, "id", orderNotFound)
	if !valid {
		return
	}

	var input services.MarkPaidInput
	if !bindJSON(c, &input) {
		return
	}

	order, err := h.Orders.MarkOrderAsPaid(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Order marked as paid", order)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, valid := paramID(c, "id", orderNotFound)
	if !valid {
		return
	}

	var req orderStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.Orders.UpdateOrderStatus(c.Request.Context(), id, req.OrderStatus)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Order status updated", order)
}

func (h *OrderHandler) UpdateDeliveryStatus(c *gin.Context) {
	id, valid := paramID(c, "id", orderNotFound)
	if !valid {
		return
	}

	var req deliveryStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.Orders.UpdateDeliveryStatus(c.Request.Context(), id, req.DeliveryStatus)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Delivery status updated", order)
}

func (h *OrderHandler) AssignRider(c *gin.Context) {
	id, valid := paramID(c, "id", orderNotFound)
	if !valid {
		return
	}

	var req assignRiderRequest
	if !bindJSON(c, &req) {
		return
	}

	order, err := h.Orders.AssignRiderToOrder(c.Request.Context(), id, req.RiderID)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Rider assigned successfully", order)
}

// CancelOrder backs both PUT /:id/cancel and DELETE /:id. Orders are never
// removed.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	id, valid := paramID(c, "id", orderNotFound)
	if !valid {
		return
	}

	order, err := h.Orders.CancelOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Order cancelled successfully", order)
}

func (h *OrderHandler) GetDineInOrders(c *gin.Context) {
	var input services.PaymentListInput
	if !bindQuery(c, &input) {
		return
	}

	orders, err := h.Orders.GetDineInOrders(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Dine-in orders retrieved successfully", orders)
}

// GetActiveDineInOrders lists unpaid dine-in orders, the tables in use.
func (h *OrderHandler) GetActiveDineInOrders(c *gin.Context) {
	var input services.PaymentListInput
	if !bindQuery(c, &input) {
		return
	}
	input.Status = models.PaymentStatusPending

	orders, err := h.Orders.GetDineInOrders(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Active dine-in orders retrieved successfully", orders)
}

func (h *OrderHandler) GetDeliveryOrders(c *gin.Context) {
	var input services.PaymentListInput
	if !bindQuery(c, &input) {
		return
	}

	orders, err := h.Orders.GetDeliveryOrders(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Delivery orders retrieved successfully", orders)
}

func (h *OrderHandler) GetDineInStats(c *gin.Context) {
	var q services.DateRangeQuery
	if !bindQuery(c, &q) {
		return
	}

	stats, err := h.Orders.GetDineInStats(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Dine-in stats retrieved successfully", stats)
}

func (h *OrderHandler) GetDeliveryStats(c *gin.Context) {
	var q services.DateRangeQuery
	if !bindQuery(c, &q) {
		return
	}

	stats, err := h.Orders.GetDeliveryStats(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Delivery stats retrieved successfully", stats)
}

func (h *OrderHandler) GetTableAvailability(c *gin.Context) {
	tables, err := h.Orders.GetTableAvailability(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Table availability retrieved successfully", gin.H{"occupied_tables": tables})
}

func (h *OrderHandler) GetStatistics(c *gin.Context) {
	var q services.DateRangeQuery
	if !bindQuery(c, &q) {
		return
	}

	stats, err := h.Orders.GetOrderStatistics(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Statistics retrieved successfully", stats)
}

func (h *OrderHandler) GetSalesReport(c *gin.Context) {
	var q services.DateRangeQuery
	if !bindQuery(c, &q) {
		return
	}

	items, err := h.Orders.GetItemsSalesReport(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Sales report retrieved successfully", items)
}
