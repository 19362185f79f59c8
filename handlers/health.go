package handlers

import (
	"net/http"
	"time"

	"pos-backend/database"
	"pos-backend/metrics"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	DB          *gorm.DB
	Metrics     *metrics.Metrics
	Environment string
	StartedAt   time.Time
}

// Health reports ok while the database answers a ping.
func (h *HealthHandler) Health(c *gin.Context) {
	status, code := "ok", http.StatusOK
	if err := database.Ping(h.DB, 2*time.Second); err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":      status,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"uptime":      time.Since(h.StartedAt).Seconds(),
		"environment": h.Environment,
	})
}

func (h *HealthHandler) GetMetrics(c *gin.Context) {
	ok(c, "Metrics retrieved successfully", h.Metrics.GetAllMetrics())
}
