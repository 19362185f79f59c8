package middleware

import (
	"strings"
	"time"

	"pos-backend/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records a counter, timer and error rate per matched route.
// Unmatched paths are grouped under http_unmatched.
func Metrics(collector *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		collector.IncrementCounter("http_requests")
		c.Next()

		name := "http_unmatched"
		if route := c.FullPath(); route != "" {
			name = "http_" + c.Request.Method + "_" + strings.Trim(route, "/")
		}
		status := c.Writer.Status()
		collector.RecordTimer(name, time.Since(start))
		collector.RecordResult(name, status >= 500)
		if status >= 500 {
			collector.IncrementCounter("http_server_errors")
		}
	}
}
