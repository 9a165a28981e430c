package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) GetEndpointMetrics(c *gin.Context) {
	endpointName := c.Param("endpoint_name")

	from, to := parseTimeRange(c)

	metrics, err := h.metricsSvc.EndpointMetrics(c.Request.Context(), endpointName, from, to)
	if err != nil {
		log.WithError(err).Error("get endpoint metrics failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func parseTimeRange(c *gin.Context) (from, to time.Time) {
	// Default: last 1 hour
	to = time.Now()
	from = to.Add(-1 * time.Hour)

	if fromStr := c.Query("from"); fromStr != "" {
		if parsed, err := time.Parse(time.RFC3339, fromStr); err == nil {
			from = parsed
		}
	}
	if toStr := c.Query("to"); toStr != "" {
		if parsed, err := time.Parse(time.RFC3339, toStr); err == nil {
			to = parsed
		}
	}

	return from, to
}
