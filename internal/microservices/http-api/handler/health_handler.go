package handler

import (
	"context"
	"net/http"
	"time"

	"libraryhub/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
)

// Check probes one dependency. A nil error means healthy.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health GET /health, 503 when any dependency is down.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			middleware.Logger(c).Error("health check failed", "check", name, "error", err)
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	if status != http.StatusOK {
		c.JSON(status, gin.H{
			"status": "degraded",
			"checks": results,
			"code":   c.GetString(middleware.ContextRequestID),
		})
		return
	}
	c.JSON(status, gin.H{"status": "ok", "checks": results})
}
