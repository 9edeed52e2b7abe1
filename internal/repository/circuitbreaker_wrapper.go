package repository

import (
	"context"
	"errors"

	"github.com/guttosm/packgenius/internal/circuitbreaker"
	"github.com/guttosm/packgenius/internal/domain/model"
)

// IsStoreFailure reports whether err should count against a repository breaker.
// Missing documents and cancelled requests are caller outcomes, not store faults.
func IsStoreFailure(err error) bool {
	return !errors.Is(err, ErrNotFound) && !errors.Is(err, context.Canceled)
}

// InventoryRepositoryWithCircuitBreaker wraps an inventory repository with circuit breaker protection.
type InventoryRepositoryWithCircuitBreaker struct {
	repo           InventoryRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewInventoryRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewInventoryRepositoryWithCircuitBreaker(repo InventoryRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *InventoryRepositoryWithCircuitBreaker {
	return &InventoryRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// List returns every carton with circuit breaker protection.
// Returns circuitbreaker.ErrCircuitOpen while the circuit is open.
func (r *InventoryRepositoryWithCircuitBreaker) List(ctx context.Context) ([]model.BoxItem, error) {
	var result []model.BoxItem
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.List(ctx)
		return cbErr
	})
	return result, err
}

// Upsert writes cartons with circuit breaker protection.
func (r *InventoryRepositoryWithCircuitBreaker) Upsert(ctx context.Context, items []model.BoxItem) (int, error) {
	var written int
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		written, cbErr = r.repo.Upsert(ctx, items)
		return cbErr
	})
	return written, err
}

// Delete removes a carton with circuit breaker protection.
func (r *InventoryRepositoryWithCircuitBreaker) Delete(ctx context.Context, id string) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Delete(ctx, id)
	})
}

// Count returns the number of cartons with circuit breaker protection.
func (r *InventoryRepositoryWithCircuitBreaker) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		n, cbErr = r.repo.Count(ctx)
		return cbErr
	})
	return n, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *InventoryRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// HistoryRepositoryWithCircuitBreaker wraps a history repository with circuit breaker protection.
type HistoryRepositoryWithCircuitBreaker struct {
	repo           HistoryRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewHistoryRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewHistoryRepositoryWithCircuitBreaker(repo HistoryRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *HistoryRepositoryWithCircuitBreaker {
	return &HistoryRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a calculation with circuit breaker protection.
func (r *HistoryRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *model.HistoryEntry) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
}

// List returns recent calculations with circuit breaker protection.
func (r *HistoryRepositoryWithCircuitBreaker) List(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	var result []model.HistoryEntry
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		result, cbErr = r.repo.List(ctx, limit)
		return cbErr
	})
	return result, err
}

// Delete removes a calculation with circuit breaker protection.
func (r *HistoryRepositoryWithCircuitBreaker) Delete(ctx context.Context, id string) error {
	return r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Delete(ctx, id)
	})
}

// Clear removes all calculations with circuit breaker protection.
func (r *HistoryRepositoryWithCircuitBreaker) Clear(ctx context.Context) (int64, error) {
	var n int64
	err := r.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		n, cbErr = r.repo.Clear(ctx)
		return cbErr
	})
	return n, err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *HistoryRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}

// LogsRepositoryWithCircuitBreaker wraps a logs repository with circuit breaker protection.
type LogsRepositoryWithCircuitBreaker struct {
	repo           LogsRepositoryInterface
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewLogsRepositoryWithCircuitBreaker creates a new repository wrapper with circuit breaker.
func NewLogsRepositoryWithCircuitBreaker(repo LogsRepositoryInterface, cb *circuitbreaker.CircuitBreaker) *LogsRepositoryWithCircuitBreaker {
	return &LogsRepositoryWithCircuitBreaker{
		repo:           repo,
		circuitBreaker: cb,
	}
}

// Create stores a single log entry with circuit breaker protection.
// An open circuit drops the entry silently.
func (r *LogsRepositoryWithCircuitBreaker) Create(ctx context.Context, entry *LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.Create(ctx, entry)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// CreateMany stores multiple log entries with circuit breaker protection.
// An open circuit drops the batch silently.
func (r *LogsRepositoryWithCircuitBreaker) CreateMany(ctx context.Context, entries []*LogEntryDocument) error {
	err := r.circuitBreaker.Execute(ctx, func() error {
		return r.repo.CreateMany(ctx, entries)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return nil
	}
	return err
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (r *LogsRepositoryWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return r.circuitBreaker
}
