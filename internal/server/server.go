package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/allinsys/contactforms/internal/api/handlers"
	"github.com/allinsys/contactforms/internal/api/middleware"
	"github.com/allinsys/contactforms/internal/config"
	"github.com/allinsys/contactforms/internal/logging"
	"github.com/allinsys/contactforms/internal/metrics"
	"github.com/allinsys/contactforms/internal/server/routes"
	"github.com/allinsys/contactforms/internal/service"
	"github.com/allinsys/contactforms/internal/telemetry"
	"github.com/allinsys/contactforms/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 120 * time.Second
)

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	httpServer *http.Server
	logger     *logging.Logger
}

// Dependencies are the collaborators the server routes requests to
type Dependencies struct {
	ContactService *service.ContactService
	// Recaptcha is optional; nil disables token verification
	Recaptcha *service.RecaptchaService
	Metrics   *metrics.Metrics
	// Gatherer backs /metrics; nil disables the endpoint
	Gatherer prometheus.Gatherer
}

// NewServer creates a new server instance with every route registered
func NewServer(cfg *config.Config, deps Dependencies) *Server {
	logger := logging.GetGlobalLogger()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Disable Gin's default logger entirely because we're using our custom logger
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	// Create a new engine without default middleware
	router := gin.New()
	router.RedirectTrailingSlash = false

	origins, rejected := utils.ParseAllowedOrigins(strings.Join(cfg.AllowedOrigins, ","))
	for _, origin := range rejected {
		logger.Warn("Ignoring invalid allowed origin %q", origin)
	}

	routes.SetupGlobalMiddleware(router, routes.GlobalOptions{
		ServiceName: telemetry.ServiceName,
		LogRequests: cfg.LogRequests,
		CORS: middleware.CORSConfig{
			AllowedOrigins: origins,
			Permissive:     !cfg.IsProduction() && len(origins) == 0,
		},
		Metrics: deps.Metrics,
	})

	var metricsHandler http.Handler
	if deps.Gatherer != nil {
		metricsHandler = promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})
	}

	routes.Setup(router,
		&routes.Handlers{
			Contact: handlers.NewContactHandler(deps.ContactService, deps.Recaptcha),
			Health:  handlers.NewHealthHandler(deps.ContactService),
			Metrics: metricsHandler,
		},
		&routes.Middleware{
			Validation: middleware.NewValidationMiddleware(),
			SubmitLimit: middleware.RateLimitMiddleware(middleware.RateLimitConfig{
				RPS:   cfg.RateLimitRPS,
				Burst: cfg.RateLimitBurst,
			}),
		},
	)

	return &Server{
		cfg:    cfg,
		router: router,
		logger: logger,
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           routes.TrimTrailingSlash(router),
			ReadHeaderTimeout: readHeaderTimeout,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
		},
	}
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until the server is shut down
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
