package handlers

import (
	"pos-backend/services"

	"github.com/gin-gonic/gin"
)

// ReportHandler serves the read-only analytics under /api/reports. Every
// period-based report accepts filter, start and end query parameters.
type ReportHandler struct {
	Reports *services.ReportService
}

// rangeReport binds the period and hands it to load.
func rangeReport(c *gin.Context, message string, load func(q services.DateRangeQuery) (interface{}, error)) {
	var q services.DateRangeQuery
	if !bindQuery(c, &q) {
		return
	}

	report, err := load(q)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, message, report)
}

func (h *ReportHandler) DailySales(c *gin.Context) {
	report, err := h.Reports.DailySales(c.Request.Context(), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Daily sales report retrieved successfully", report)
}

func (h *ReportHandler) MonthlySales(c *gin.Context) {
	year, valid := queryInt(c, "year", 0)
	if !valid {
		return
	}
	month, valid := queryInt(c, "month", 0)
	if !valid {
		return
	}

	report, err := h.Reports.MonthlySales(c.Request.Context(), year, month)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Monthly sales report retrieved successfully", report)
}

func (h *ReportHandler) YearlySales(c *gin.Context) {
	year, valid := queryInt(c, "year", 0)
	if !valid {
		return
	}

	report, err := h.Reports.YearlySales(c.Request.Context(), year)
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Yearly sales report retrieved successfully", report)
}

func (h *ReportHandler) OrderSummary(c *gin.Context) {
	rangeReport(c, "Order summary report retrieved successfully", func(q services.DateRangeQuery) (interface{}, error) {
		return h.Reports.OrderSummary(c.Request.Context(), q)
	})
}

func (h *ReportHandler) Timeline(c *gin.Context) {
	rangeReport(c, "Order timeline report retrieved successfully", func(q services.DateRangeQuery) (interface{}, error) {
		return h.Reports.Timeline(c.Request.Context(), q, c.Query("interval"))
	})
}

func (h *ReportHandler) TopItems(c *gin.Context) {
	limit, valid := queryInt(c, "limit", 0)
	if !valid {
		return
	}
	rangeReport(c, "Top selling items report retrieved successfully", func(q services.DateRangeQuery) (interface{}, error) {
		return h.Reports.TopItems(c.Request.Context(), q, limit)
	})
}

func (h *ReportHandler) LowStock(c *gin.Context) {
	report, err := h.Reports.LowStock(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	ok(c, "Low stock items report retrieved successfully", report)
}

func (h *ReportHandler) TopCustomers(c *gin.Context) {
	limit, valid := queryInt(c, "limit", 0)
	if !valid {
		return
	}
	rangeReport(c, "Top customers report retrieved successfully", func(q services.DateRangeQuery) (interface{}, error) {
		return h.Reports.TopCustomers(c.Request.Context(), q, limit)
	})
}

func (h *ReportHandler) CustomerLoyalty(c *gin.Context) {
	rangeReport(c, "Customer loyalty report retrieved successfully", func(q services.DateRangeQuery) (interface{}, error) {
		return h.Reports.CustomerLoyalty(c.Request.Context(), q)
	})
}

func (h *ReportHandler) RiderPerformance(c *gin.Context) {
	rangeReport(c, "Rider performance report retrieved successfully", func(q services.DateRangeQuery) (interface{}, error) {
		return h.Reports.RiderPerformance(c.Request.Context(), q)
	})
}

func (h *ReportHandler) FinancialSummary(c *gin.Context) {
	rangeReport(c, "Financial summary report retrieved successfully", func(q services.DateRangeQuery) (interface{}, error) {
		return h.Reports.FinancialSummary(c.Request.Context(), q)
	})
}

func (h *ReportHandler) ProfitLoss(c *gin.Context) {
	rangeReport(c, "Profit loss report retrieved successfully", func(q services.DateRangeQuery) (interface{}, error) {
		return h.Reports.ProfitLoss(c.Request.Context(), q)
	})
}

func (h *ReportHandler) DeliveryOverview(c *gin.Context) {
	rangeReport(c, "Delivery overview report retrieved successfully", func(q services.DateRangeQuery) (interface{}, error) {
		return h.Reports.DeliveryOverview(c.Request.Context(), q)
	})
}

func (h *ReportHandler) DeliveryAreas(c *gin.Context) {
	rangeReport(c, "Delivery area analysis retrieved successfully", func(q services.DateRangeQuery) (interface{}, error) {
		return h.Reports.DeliveryAreas(c.Request.Context(), q)
	})
}

func (h *ReportHandler) PendingCOD(c *gin.Context) {
	rangeReport(c, "COD orders retrieved successfully", func(q services.DateRangeQuery) (interface{}, error) {
		return h.Reports.CODOrders(c.Request.Context(), c.Query("status"), q)
	})
}
