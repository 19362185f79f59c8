package handlers

import (
	"net/http"

	"pos-backend/repositories"
	"pos-backend/services"

	"github.com/gin-gonic/gin"
)

const (
	customerNotFound = "Customer not found"
	addressNotFound  = "Address not found"
)

type CustomerHandler struct {
	Customers *services.CustomerService
}

type customerListQuery struct {
	Search string `form:"search"`
	Page   int    `form:"page" binding:"omitempty,gte=1"`
	Limit  int    `form:"limit" binding:"omitempty,gte=1"`
}

func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	var q customerListQuery
	if !bindQuery(c, &q) {
		return
	}

	list, err := h.Customers.List(c.Request.Context(), q.Search, repositories.Pagination{Page: q.Page, Limit: q.Limit})
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Customers retrieved successfully", list)
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, valid := paramID(c, "id", customerNotFound)
	if !valid {
		return
	}

	customer, err := h.Customers.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Customer retrieved successfully", customer)
}

func (h *CustomerHandler) GetCustomerByPhone(c *gin.Context) {
	customer, err := h.Customers.GetByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Customer retrieved successfully", customer)
}

func (h *CustomerHandler) SearchCustomers(c *gin.Context) {
	customers, err := h.Customers.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Customers retrieved successfully", customers)
}

func (h *CustomerHandler) SearchByPhone(c *gin.Context) {
	limit, valid := queryInt(c, "limit", 0)
	if !valid {
		return
	}

	customers, err := h.Customers.SearchByPhone(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Customers retrieved successfully", customers)
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var input services.CustomerInput
	if !bindJSON(c, &input) {
		return
	}

	customer, err := h.Customers.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	created(c, "Customer created successfully", customer)
}

// FindOrCreate answers 201 only when a customer was created.
func (h *CustomerHandler) FindOrCreate(c *gin.Context) {
	var input services.FindOrCreateInput
	if !bindJSON(c, &input) {
		return
	}

	customer, isNew, err := h.Customers.FindOrCreate(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	if isNew {
		created(c, "Customer created successfully", customer)
		return
	}
	respond(c, http.StatusOK, "Customer found", customer)
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	id, valid := paramID(c, "id", customerNotFound)
	if !valid {
		return
	}

	var input services.CustomerUpdateInput
	if !bindJSON(c, &input) {
		return
	}

	customer, err := h.Customers.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Customer updated successfully", customer)
}

func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	id, valid := paramID(c, "id", customerNotFound)
	if !valid {
		return
	}

	if err := h.Customers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Customer deleted successfully", nil)
}

func (h *CustomerHandler) GetCustomerOrders(c *gin.Context) {
	id, valid := paramID(c, "id", customerNotFound)
	if !valid {
		return
	}

	orders, err := h.Customers.Orders(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Customer orders retrieved successfully", orders)
}

func (h *CustomerHandler) GetAddresses(c *gin.Context) {
	id, valid := paramID(c, "id", customerNotFound)
	if !valid {
		return
	}

	addresses, err := h.Customers.Addresses(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Customer addresses retrieved successfully", addresses)
}

func (h *CustomerHandler) CreateAddress(c *gin.Context) {
	id, valid := paramID(c, "id", customerNotFound)
	if !valid {
		return
	}

	var input services.AddressInput
	if !bindJSON(c, &input) {
		return
	}

	address, err := h.Customers.CreateAddress(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	created(c, "Address added successfully", address)
}

func (h *CustomerHandler) UpdateAddress(c *gin.Context) {
	id, valid := paramID(c, "addressId", addressNotFound)
	if !valid {
		return
	}

	var input services.AddressUpdateInput
	if !bindJSON(c, &input) {
		return
	}

	address, err := h.Customers.UpdateAddress(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Address updated successfully", address)
}

func (h *CustomerHandler) DeleteAddress(c *gin.Context) {
	id, valid := paramID(c, "addressId", addressNotFound)
	if !valid {
		return
	}

	if err := h.Customers.DeleteAddress(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Address deleted successfully", nil)
}
