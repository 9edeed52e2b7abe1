package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/packgenius/internal/metrics"
	"github.com/guttosm/packgenius/internal/middleware"
	"github.com/guttosm/packgenius/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterConfig holds router configuration options.
type RouterConfig struct {
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	// EnableAuth protects /api with a bearer JWT when JWT.SecretKey is set,
	// otherwise with the API keys.
	EnableAuth        bool
	APIKeys           map[string]bool
	JWT               middleware.JWTConfig
	EnableIdempotency bool
	// Idempotency overrides the default idempotency cache when set.
	Idempotency      *middleware.IdempotencyConfig
	CORSOrigins      []string
	SwaggerUser      string
	SwaggerPass      string
	MaxImportBytes   int64
	LoggingService   service.LoggingService
	InventoryService service.InventoryService
	HistoryService   service.HistoryService
}

// DefaultRouterConfig returns the default router configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RateLimit:         100,
		RateWindow:        time.Minute,
		RequestTimeout:    30 * time.Second,
		EnableIdempotency: true,
	}
}

// NewRouter creates and configures the Gin router for the packaging planner.
func NewRouter(handler *Handler, healthHandler *HealthHandler, cfg RouterConfig) *gin.Engine {
	router := gin.New()

	configureGlobalMiddleware(router, &cfg)
	registerInfrastructureRoutes(router, healthHandler, &cfg)

	api := router.Group("/api")
	configureAPIMiddleware(api, &cfg)

	for _, group := range routeGroups(handler, &cfg) {
		group.RegisterRoutes(api, &cfg)
	}

	return router
}

// configureGlobalMiddleware sets up middleware applied to all routes.
func configureGlobalMiddleware(router *gin.Engine, cfg *RouterConfig) {
	router.Use(
		middleware.CORS(cfg.CORSOrigins),
		middleware.RequestID(),
		middleware.Recovery(),
		metrics.PrometheusMiddleware(),
		middleware.Compression(),
		middleware.RequestLogger(cfg.LoggingService),
		middleware.ErrorHandler(),
		middleware.WithLoggingService(cfg.LoggingService),
	)
}

// registerInfrastructureRoutes registers health, metrics, and documentation routes.
func registerInfrastructureRoutes(router *gin.Engine, healthHandler *HealthHandler, cfg *RouterConfig) {
	if healthHandler != nil {
		healthHandler.Register(router)
	}
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.SwaggerUser != "" && cfg.SwaggerPass != "" {
		authorized := router.Group("/swagger", gin.BasicAuth(gin.Accounts{
			cfg.SwaggerUser: cfg.SwaggerPass,
		}))
		authorized.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	} else {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
}

// configureAPIMiddleware sets up middleware for the API group.
// Authentication runs before rate limiting so authenticated callers are
// limited per subject rather than per IP.
func configureAPIMiddleware(api *gin.RouterGroup, cfg *RouterConfig) {
	if cfg.EnableAuth {
		if cfg.JWT.SecretKey != "" {
			api.Use(middleware.JWTAuth(cfg.JWT))
		} else if len(cfg.APIKeys) > 0 {
			api.Use(middleware.APIKeyAuth(cfg.APIKeys))
		} else {
			log.Error().Msg("Authentication enabled without API keys or JWT secret, rejecting API requests")
			api.Use(middleware.DenyAll())
		}
	}

	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		api.Use(limiter.UserRateLimit())
	}

	if cfg.RequestTimeout > 0 {
		api.Use(middleware.TimeoutWithDuration(cfg.RequestTimeout))
	}

	if cfg.EnableIdempotency {
		idempotencyCfg := cfg.Idempotency
		if idempotencyCfg == nil {
			defaults := middleware.DefaultIdempotencyConfig()
			idempotencyCfg = &defaults
		}
		api.Use(middleware.Idempotency(*idempotencyCfg))
	}
}

// routeGroups lists the API route groups whose services are configured.
func routeGroups(handler *Handler, cfg *RouterConfig) []RouteGroup {
	var groups []RouteGroup
	if handler != nil {
		groups = append(groups, NewPlanRoutes(handler))
	}
	if cfg.InventoryService != nil {
		groups = append(groups, NewInventoryRoutes(NewInventoryHandler(cfg.InventoryService, cfg.MaxImportBytes)))
	}
	if cfg.HistoryService != nil {
		groups = append(groups, NewHistoryRoutes(NewHistoryHandler(cfg.HistoryService)))
	}
	return groups
}
