package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports liveness and, when known, the upstream breaker state
type HealthHandler struct {
	upstream func() string
}

// NewHealthHandler creates a health handler. upstream may be nil.
func NewHealthHandler(upstream func() string) *HealthHandler {
	return &HealthHandler{upstream: upstream}
}

// Health always answers 200; an open upstream breaker degrades the
// stylesheet but not the service.
func (h *HealthHandler) Health(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if h.upstream != nil {
		body["upstream"] = h.upstream()
	}
	c.JSON(http.StatusOK, body)
}
