package app

import (
	"github.com/guttosm/packgenius/config"
	"github.com/guttosm/packgenius/internal/http"
	"github.com/guttosm/packgenius/internal/middleware"
	"github.com/guttosm/packgenius/internal/service"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.Handler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
}

// InitializeRouter initializes HTTP handlers and router configuration.
func InitializeRouter(services *ServiceComponents, dbComponents *DatabaseComponents, cfg config.Config) *RouterComponents {
	var loggingService service.LoggingService
	if dbComponents != nil {
		loggingService = dbComponents.LoggingService
	}

	handler := http.NewHandler(services.Calculator, http.WithDefaultWallThickness(cfg.Planner.InnerWallThickness))
	healthHandler := http.NewHealthHandler()

	// The advisor breaker is left out: an open advisor only degrades analyses.
	if dbComponents != nil {
		healthHandler.RegisterChecker("mongodb", http.HealthCheckFunc(dbComponents.DB.HealthCheck))
		healthHandler.RegisterCircuitBreaker("mongodb_inventory", dbComponents.InventoryCircuitBreaker)
		healthHandler.RegisterCircuitBreaker("mongodb_history", dbComponents.HistoryCircuitBreaker)
		healthHandler.RegisterCircuitBreaker("mongodb_logs", dbComponents.LogsCircuitBreaker)
	}

	routerCfg := http.RouterConfig{
		RateLimit:      cfg.Server.RateLimit,
		RateWindow:     cfg.Server.RateWindow,
		RequestTimeout: cfg.Server.RequestTimeout,
		EnableAuth:     cfg.Auth.Enabled,
		APIKeys:        cfg.Auth.APIKeys,
		JWT: middleware.JWTConfig{
			SecretKey: cfg.Auth.JWTSecretKey,
			Issuer:    cfg.Auth.JWTIssuer,
		},
		EnableIdempotency: true,
		CORSOrigins:       cfg.Server.CORSOrigins,
		SwaggerUser:       cfg.Server.SwaggerUser,
		SwaggerPass:       cfg.Server.SwaggerPass,
		MaxImportBytes:    http.DefaultMaxImportBytes,
		LoggingService:    loggingService,
		InventoryService:  services.Inventory,
		HistoryService:    services.History,
	}

	return &RouterComponents{
		Handler:       handler,
		HealthHandler: healthHandler,
		Config:        routerCfg,
	}
}
