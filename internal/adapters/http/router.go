package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotes-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotes-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotes-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/quotes-service/internal/platform/metrics"
	"github.com/jsamuelsen/quotes-service/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default timeout for API requests.
const DefaultRequestTimeout = 30 * time.Second

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is stored in every request context. Nil keeps the default logger.
	Logger *slog.Logger

	// ServiceName names the server spans.
	ServiceName string

	// Metrics receives request, panic and mutation metrics. May be nil.
	Metrics *metrics.Manager

	HealthHandler *handlers.HealthHandler
	AuthorHandler *handlers.AuthorHandler
	QuoteHandler  *handlers.QuoteHandler

	// Timeout is the per-request deadline for API routes. Zero disables it.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last):
//  1. Context logger
//  2. Recovery - catch panics
//  3. Request ID and Correlation ID
//  4. OpenTelemetry tracing, then OTel metrics and the trace header
//  5. Prometheus request metrics
//  6. Logging (skips /-/ endpoints)
//
// Health endpoints live under /-/. The API is mounted at the root with a
// request deadline.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	if cfg.Logger != nil {
		engine.Use(middleware.ContextLogger(cfg.Logger))
	}

	engine.Use(
		middleware.Recovery(cfg.Metrics),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.ServiceName),
		telemetry.Middleware(),
	)

	if cfg.Metrics != nil {
		engine.Use(middleware.Metrics(cfg.Metrics))
	}

	engine.Use(middleware.Logging())

	engine.NoRoute(func(c *gin.Context) {
		c.PureJSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeNotFound, "resource not found").
			WithTraceID(dto.GetTraceID(c)))
	})

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutes(engine)
	}

	api := engine.Group("")
	api.Use(middleware.SimpleTimeout(cfg.Timeout))

	setupAPIRoutes(api, cfg)
}

// setupAPIRoutes registers the author and quote endpoints.
func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthorHandler != nil {
		cfg.AuthorHandler.RegisterAuthorRoutes(rg)
	}

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(rg)
	}
}

// NewDefaultRouterConfig creates a RouterConfig with the default timeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	serviceName string,
	m *metrics.Manager,
	health *handlers.HealthHandler,
	authors *handlers.AuthorHandler,
	quotes *handlers.QuoteHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		ServiceName:   serviceName,
		Metrics:       m,
		HealthHandler: health,
		AuthorHandler: authors,
		QuoteHandler:  quotes,
		Timeout:       DefaultRequestTimeout,
	}
}
