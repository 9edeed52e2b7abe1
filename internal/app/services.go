package app

import (
	"context"
	"time"

	"github.com/guttosm/packgenius/config"
	"github.com/guttosm/packgenius/internal/advisor"
	"github.com/guttosm/packgenius/internal/circuitbreaker"
	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/repository"
	"github.com/guttosm/packgenius/internal/service"
	"github.com/rs/zerolog/log"
)

const (
	analysisCacheShards = 16
	seedTimeout         = 5 * time.Second
)

// ServiceComponents holds service-related components.
type ServiceComponents struct {
	Inventory             service.InventoryService
	History               service.HistoryService
	Calculator            service.CalculationService
	AnalysisCache         *service.ShardedCache
	AdvisorCircuitBreaker *circuitbreaker.CircuitBreaker
}

// Stop releases background resources.
func (s *ServiceComponents) Stop() {
	if s != nil && s.AnalysisCache != nil {
		s.AnalysisCache.Stop()
	}
}

// InitializeServices wires the business services over MongoDB when db is
// non-nil, otherwise over in-memory stores.
func InitializeServices(cfg config.Config, db *DatabaseComponents) *ServiceComponents {
	var (
		inventoryRepo repository.InventoryRepositoryInterface
		historyRepo   repository.HistoryRepositoryInterface
	)
	if db != nil {
		inventoryRepo = db.InventoryRepo
		historyRepo = db.HistoryRepo
	} else {
		inventoryRepo = repository.NewMemoryInventoryRepository(nil)
		historyRepo = repository.NewMemoryHistoryRepository(cfg.Planner.MaxHistoryItems)
	}

	inventory := service.NewInventoryService(inventoryRepo,
		service.WithSnapshotTTL(cfg.Cache.InventoryTTL),
		service.WithMaxBatch(cfg.Planner.MaxInventoryItems),
	)
	seedInventory(inventory, cfg.Planner.DefaultInventory)

	history := service.NewHistoryService(historyRepo, cfg.Planner.HistoryLimit)

	components := &ServiceComponents{
		Inventory: inventory,
		History:   history,
	}

	advisoryOpts := []service.AdvisoryOption{service.WithDimensionUnit(cfg.Planner.Unit)}
	if cfg.Cache.Size > 0 {
		components.AnalysisCache = service.NewShardedCache(cfg.Cache.Size, cfg.Cache.TTL, analysisCacheShards)
		advisoryOpts = append(advisoryOpts, service.WithAnalysisCache(components.AnalysisCache))
	}

	var adv service.Advisor
	if cfg.Advisor.Enabled {
		components.AdvisorCircuitBreaker = circuitbreaker.New(circuitbreaker.Config{
			FailureThreshold: cfg.Database.CircuitBreakerFailureThreshold,
			SuccessThreshold: cfg.Database.CircuitBreakerSuccessThreshold,
			Timeout:          cfg.Database.CircuitBreakerTimeout,
			Name:             "advisor",
			IsFailure:        advisor.IsFailure,
			OnStateChange:    recordBreakerState,
		})
		adv = advisor.NewClient(advisor.Config{
			APIKey:    cfg.Advisor.APIKey,
			BaseURL:   cfg.Advisor.BaseURL,
			Model:     cfg.Advisor.Model,
			Timeout:   cfg.Advisor.Timeout,
			RateLimit: cfg.Advisor.RateLimit,
			Burst:     cfg.Advisor.Burst,
		}, advisor.WithCircuitBreaker(components.AdvisorCircuitBreaker))
		log.Info().Str("model", cfg.Advisor.Model).Msg("Advisory analysis enabled")
	} else {
		log.Info().Msg("Advisory analysis disabled - plans carry the fallback analysis")
	}

	components.Calculator = service.NewCalculationService(
		inventory,
		service.NewAdvisoryService(adv, advisoryOpts...),
		service.WithDefaultGaps(cfg.Planner.SafetyGaps),
		service.WithStrictValidation(cfg.Planner.Strict),
		service.WithCorrectedGapsByDefault(cfg.Planner.CorrectRotatedGaps),
		service.WithDefaultLanguage(cfg.Advisor.DefaultLanguage),
		service.WithHistory(history),
	)

	return components
}

// seedInventory stores the default cartons when the inventory is empty.
func seedInventory(inventory service.InventoryService, defaults []model.BoxItem) {
	ctx, cancel := context.WithTimeout(context.Background(), seedTimeout)
	defer cancel()

	if _, err := inventory.SeedDefaults(ctx, defaults); err != nil {
		log.Warn().Err(err).Msg("Failed to seed default inventory")
	}
}
