package routes

import (
	"net/http"
	"strings"

	"github.com/allinsys/contactforms/internal/api/middleware"
	"github.com/allinsys/contactforms/internal/logging"
	"github.com/allinsys/contactforms/internal/metrics"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// GlobalOptions configures the middleware shared by every route
type GlobalOptions struct {
	ServiceName string
	LogRequests bool
	CORS        middleware.CORSConfig
	Metrics     *metrics.Metrics
}

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers, m *Middleware) {
	logger := logging.GetGlobalLogger()

	// Operational endpoints
	SetupHealthRoutes(router, h.Health)
	SetupMetricsRoutes(router, h.Metrics)

	v1 := router.Group("/api/v1")

	// Contact routes (public)
	SetupContactRoutes(v1, h.Contact, m)

	logger.Info("All routes have been set up successfully")
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, opts GlobalOptions) {
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(otelgin.Middleware(opts.ServiceName, otelgin.WithFilter(skipOperational)))
	router.Use(middleware.Metrics(opts.Metrics))
	router.Use(middleware.RequestLogger(opts.LogRequests))
	router.Use(middleware.CORS(opts.CORS))
	router.Use(middleware.SecurityHeaders())
}

func skipOperational(r *http.Request) bool {
	return r.URL.Path != "/health" && r.URL.Path != "/metrics"
}

// TrimTrailingSlash removes the need for strict trailing slash matching.
// It wraps the engine since gin resolves routes before any middleware runs.
func TrimTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if path := r.URL.Path; path != "/" && strings.HasSuffix(path, "/") {
			r.URL.Path = strings.TrimRight(path, "/")
			if r.URL.Path == "" {
				r.URL.Path = "/"
			}
			r.URL.RawPath = ""
		}
		next.ServeHTTP(w, r)
	})
}
