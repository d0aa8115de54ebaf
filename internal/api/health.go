package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"sentiment-chat-demo/backend/pkg/health"
)

// HealthController exposes liveness and component health endpoints
type HealthController struct {
	checker *health.Checker
}

// NewHealthController creates a new health controller
func NewHealthController(checker *health.Checker) *HealthController {
	return &HealthController{checker: checker}
}

// RegisterRoutes registers the root liveness probe used by the clients
func (c *HealthController) RegisterRoutes(router *gin.Engine) {
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"ok": true})
	})
}

// RegisterRoutesV1 registers the component health endpoint
func (c *HealthController) RegisterRoutesV1(v1 *gin.RouterGroup) {
	v1.GET("/health", c.Health)
}

// Health reports per-component status; 503 when a critical component is down
func (c *HealthController) Health(ctx *gin.Context) {
	code := http.StatusOK
	status := "ok"
	if !c.checker.Healthy() {
		code = http.StatusServiceUnavailable
		status = "degraded"
	}

	ctx.JSON(code, gin.H{
		"status":     status,
		"timestamp":  time.Now(),
		"components": c.checker.GetStatus(),
	})
}
