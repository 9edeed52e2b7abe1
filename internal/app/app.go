// Package app wires configuration, storage, services and the HTTP router
// into a runnable packaging planner.
package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/guttosm/packgenius/config"
	"github.com/guttosm/packgenius/internal/http"
	"github.com/guttosm/packgenius/internal/middleware"
)

// App holds the wired application.
type App struct {
	Router   *gin.Engine
	Database *DatabaseComponents
	Services *ServiceComponents
	Config   config.Config
}

// InitializeApp creates and wires all application dependencies.
// Storage falls back to in-memory when MongoDB is disabled or unreachable.
func InitializeApp(cfg config.Config) *App {
	InitializeLogger(cfg.Log)

	dbComponents := InitializeDatabase(cfg.Database, cfg.Planner.MaxHistoryItems)
	serviceComponents := InitializeServices(cfg, dbComponents)

	if dbComponents != nil && dbComponents.LoggingService != nil {
		asyncCfg := middleware.DefaultAsyncLoggerConfig()
		if cfg.Log.AsyncBufferSize > 0 {
			asyncCfg.BufferSize = cfg.Log.AsyncBufferSize
		}
		if cfg.Log.AsyncWorkers > 0 {
			asyncCfg.NumWorkers = cfg.Log.AsyncWorkers
		}
		middleware.InitAsyncLogger(dbComponents.LoggingService, asyncCfg)
	}

	routerComponents := InitializeRouter(serviceComponents, dbComponents, cfg)

	return &App{
		Router:   http.NewRouter(routerComponents.Handler, routerComponents.HealthHandler, routerComponents.Config),
		Database: dbComponents,
		Services: serviceComponents,
		Config:   cfg,
	}
}

// Close drains the audit log queue, stops background workers and
// disconnects from MongoDB.
func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	middleware.StopAsyncLogger()
	a.Services.Stop()
	if err := a.Database.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to close MongoDB connection")
	}
}

// NewServer builds the HTTP server for a, closing a on shutdown.
func (a *App) NewServer() *Server {
	return NewServer(a.Router, a.Config.Server.Port,
		WithRequestTimeout(a.Config.Server.RequestTimeout),
		WithShutdownHook(a.Close),
	)
}
