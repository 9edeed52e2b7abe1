package app

import (
	"context"

	"github.com/guttosm/packgenius/config"
	"github.com/guttosm/packgenius/internal/circuitbreaker"
	"github.com/guttosm/packgenius/internal/metrics"
	"github.com/guttosm/packgenius/internal/repository"
	"github.com/guttosm/packgenius/internal/service"
	"github.com/rs/zerolog/log"
)

// DatabaseComponents holds database-related components.
type DatabaseComponents struct {
	DB                      *repository.MongoDB
	InventoryRepo           repository.InventoryRepositoryInterface
	HistoryRepo             repository.HistoryRepositoryInterface
	LoggingService          service.LoggingService
	InventoryCircuitBreaker *circuitbreaker.CircuitBreaker
	HistoryCircuitBreaker   *circuitbreaker.CircuitBreaker
	LogsCircuitBreaker      *circuitbreaker.CircuitBreaker
}

// Close disconnects from MongoDB.
func (d *DatabaseComponents) Close(ctx context.Context) error {
	if d == nil || d.DB == nil {
		return nil
	}
	return d.DB.Close(ctx)
}

// InitializeDatabase connects to MongoDB and wraps every repository in a circuit breaker.
// Returns nil if the database is disabled or the connection fails; callers then
// fall back to in-memory stores.
func InitializeDatabase(cfg config.DatabaseConfig, maxHistoryItems int) *DatabaseComponents {
	if !cfg.Enabled {
		log.Info().Msg("MongoDB disabled - using in-memory stores")
		return nil
	}

	db, err := repository.NewMongoDB(cfg.URI, cfg.DatabaseName)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to MongoDB - continuing with in-memory stores")
		return nil
	}

	log.Info().Str("database", cfg.DatabaseName).Msg("Connected to MongoDB")

	ttlDays := int(cfg.LogsTTL.Hours() / 24)
	if ttlDays > 0 {
		if err := db.SetLogsTTL(context.Background(), ttlDays); err != nil {
			log.Warn().Err(err).Msg("Failed to set logs TTL index (may already exist)")
		}
	}

	inventoryCB := newStoreBreaker(cfg, "mongodb-inventory")
	historyCB := newStoreBreaker(cfg, "mongodb-history")
	logsCB := newStoreBreaker(cfg, "mongodb-logs")

	logsRepo := repository.NewLogsRepositoryWithCircuitBreaker(repository.NewLogsRepository(db), logsCB)

	return &DatabaseComponents{
		DB:                      db,
		InventoryRepo:           repository.NewInventoryRepositoryWithCircuitBreaker(repository.NewInventoryRepository(db), inventoryCB),
		HistoryRepo:             repository.NewHistoryRepositoryWithCircuitBreaker(repository.NewHistoryRepository(db, maxHistoryItems), historyCB),
		LoggingService:          service.NewLoggingService(logsRepo),
		InventoryCircuitBreaker: inventoryCB,
		HistoryCircuitBreaker:   historyCB,
		LogsCircuitBreaker:      logsCB,
	}
}

// newStoreBreaker builds a repository breaker that ignores missing documents
// and exports its state as a metric.
func newStoreBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	metrics.SetCircuitBreakerState(name, int(circuitbreaker.StateClosed))
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		IsFailure:        repository.IsStoreFailure,
		OnStateChange:    recordBreakerState,
	})
}

func recordBreakerState(name string, _, to circuitbreaker.State) {
	metrics.SetCircuitBreakerState(name, int(to))
}
