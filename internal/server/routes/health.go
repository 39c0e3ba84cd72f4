package routes

import (
	"net/http"

	"github.com/allinsys/contactforms/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupHealthRoutes configures health check endpoints
func SetupHealthRoutes(router *gin.Engine, health *handlers.HealthHandler) {
	router.GET("/health", health.Check)
}

// SetupMetricsRoutes exposes the Prometheus handler
func SetupMetricsRoutes(router *gin.Engine, metrics http.Handler) {
	if metrics == nil {
		return
	}
	router.GET("/metrics", gin.WrapH(metrics))
}
