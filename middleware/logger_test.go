package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"pos-backend/metrics"

	"github.com/gin-gonic/gin"
)

func TestRequestIDGenerated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestID))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	id := w.Header().Get(RequestIDHeader)
	if id == "" {
		t.Fatal("expected a generated request id")
	}
	if w.Body.String() != id {
		t.Fatalf("context id %q does not match header %q", w.Body.String(), id)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	r.ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected abc-123, got %q", got)
	}
}

func TestMetricsMiddleware(t *testing.T) {
	collector := metrics.NewMetrics()
	r := gin.New()
	r.Use(Metrics(collector))
	r.GET("/orders/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	for _, path := range []string{"/orders/1", "/orders/2", "/boom", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}

	counters := collector.GetCounters()
	if counters["http_requests"] != 4 {
		t.Fatalf("expected 4 requests, got %d", counters["http_requests"])
	}
	if counters["http_server_errors"] != 1 {
		t.Fatalf("expected 1 server error, got %d", counters["http_server_errors"])
	}

	timers := collector.GetTimers()
	if timers["http_GET_orders/:id"].Count != 2 {
		t.Fatalf("expected 2 timings for the order route, got %+v", timers["http_GET_orders/:id"])
	}
	if _, found := timers["http_unmatched"]; !found {
		t.Fatal("expected unmatched requests to be timed")
	}
}
