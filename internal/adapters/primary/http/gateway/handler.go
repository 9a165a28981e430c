package gateway

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"model-promotion-service/internal/core/ports/output"
)

const (
	customHeader      = "x-custom-header"
	customHeaderValue = "Inference API Response"
)

// Handler is the stateless inference gateway. It forwards request bodies
// verbatim to the endpoint it was bound to at startup and stamps every
// response with the gateway header.
type Handler struct {
	invoker ports.EndpointInvoker
}

func New(invoker ports.EndpointInvoker) *Handler {
	return &Handler{invoker: invoker}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/inference", h.Inference)
	r.NoRoute(h.NotFound)
}

func (h *Handler) Inference(c *gin.Context) {
	c.Header(customHeader, customHeaderValue)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not read request body"})
		return
	}

	respBody, err := h.invoker.Invoke(c.Request.Context(), body)
	if err != nil {
		log.WithError(err).Error("endpoint invocation failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "endpoint invocation failed"})
		return
	}

	var parsed interface{}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		c.Data(http.StatusOK, "application/json", respBody)
		return
	}
	c.JSON(http.StatusOK, parsed)
}

// NotFound covers every route and method the gateway does not serve: 404
// with the gateway header and no body.
func (h *Handler) NotFound(c *gin.Context) {
	c.Header(customHeader, customHeaderValue)
	c.Status(http.StatusNotFound)
	// Flush the status now so the fallback body is never appended.
	c.Writer.WriteHeaderNow()
}
