package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	pkgredis "github.com/eduflow/course-booking/pkg/redis"
)

// Pinger reports reachability of an upstream dependency
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health and readiness probes
type HealthHandler struct {
	redis   *pkgredis.Client
	catalog Pinger
	version string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(redis *pkgredis.Client, catalog Pinger, version string) *HealthHandler {
	return &HealthHandler{
		redis:   redis,
		catalog: catalog,
		version: version,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

// Ready handles GET /ready. It reports degraded dependencies with 503.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := gin.H{}
	healthy := true

	if h.redis != nil {
		if err := h.redis.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	if h.catalog != nil {
		if err := h.catalog.Ping(ctx); err != nil {
			checks["catalog"] = err.Error()
			healthy = false
		} else {
			checks["catalog"] = "ok"
		}
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	c.JSON(status, gin.H{
		"status": state,
		"checks": checks,
	})
}
