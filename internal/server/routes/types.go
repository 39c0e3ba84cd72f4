package routes

import (
	"net/http"

	"github.com/allinsys/contactforms/internal/api/handlers"
	"github.com/allinsys/contactforms/internal/api/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers contains all the route handlers
type Handlers struct {
	Contact *handlers.ContactHandler
	Health  *handlers.HealthHandler
	Metrics http.Handler
}

// Middleware contains the per-route middleware
type Middleware struct {
	Validation  *middleware.ValidationMiddleware
	SubmitLimit gin.HandlerFunc
}
