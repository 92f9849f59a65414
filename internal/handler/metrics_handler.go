package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type metricsProvider interface {
	Handler() http.Handler
}

// MetricsHandler serves the Prometheus scrape endpoint.
type MetricsHandler struct {
	metrics metricsProvider
}

// NewMetricsHandler builds a new handler.
func NewMetricsHandler(metrics metricsProvider) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Expose serves the registry in the Prometheus text format.
func (h *MetricsHandler) Expose(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
