package handlers

import (
	"net/http"

	"pos-backend/services"

	"github.com/gin-gonic/gin"
)

const expenseNotFound = "Expense not found"

type ExpenseHandler struct {
	Expenses *services.ExpenseService
}

func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	var input services.ExpenseListInput
	if !bindQuery(c, &input) {
		return
	}

	list, err := h.Expenses.List(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Expenses retrieved successfully", list)
}

func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, valid := paramID(c, "id", expenseNotFound)
	if !valid {
		return
	}

	expense, err := h.Expenses.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Expense retrieved successfully", expense)
}

func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	user, found := currentUser(c)
	if !found {
		return
	}

	var input services.ExpenseInput
	if !bindJSON(c, &input) {
		return
	}

	expense, err := h.Expenses.Create(c.Request.Context(), input, &user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	created(c, "Expense created successfully", expense)
}

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	id, valid := paramID(c, "id", expenseNotFound)
	if !valid {
		return
	}

	var input services.ExpenseUpdateInput
	if !bindJSON(c, &input) {
		return
	}

	expense, err := h.Expenses.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Expense updated successfully", expense)
}

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	id, valid := paramID(c, "id", expenseNotFound)
	if !valid {
		return
	}

	if err := h.Expenses.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, "Expense deleted successfully", nil)
}

func (h *ExpenseHandler) GetStatistics(c *gin.Context) {
	var q services.DateRangeQuery
	if !bindQuery(c, &q) {
		return
	}

	stats, err := h.Expenses.Statistics(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Expense statistics retrieved successfully", stats)
}

func (h *ExpenseHandler) GetCategories(c *gin.Context) {
	categories, err := h.Expenses.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Expense categories retrieved successfully", categories)
}
