package repository

import (
	"context"
	"errors"

	"github.com/guttosm/packgenius/internal/domain/model"
)

// ErrNotFound is returned when a document addressed by id does not exist.
var ErrNotFound = errors.New("document not found")

// InventoryRepositoryInterface defines the interface for inventory repository operations.
type InventoryRepositoryInterface interface {
	// List returns every carton, newest first and then by id.
	List(ctx context.Context) ([]model.BoxItem, error)
	// Upsert inserts or replaces cartons by id and returns how many were written.
	Upsert(ctx context.Context, items []model.BoxItem) (int, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// HistoryRepositoryInterface defines the interface for calculation history operations.
type HistoryRepositoryInterface interface {
	// Create assigns ID and CreatedAt when unset and stores the entry.
	Create(ctx context.Context, entry *model.HistoryEntry) error
	// List returns at most limit entries, newest first.
	List(ctx context.Context, limit int) ([]model.HistoryEntry, error)
	Delete(ctx context.Context, id string) error
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int64, error)
}

// LogsRepositoryInterface defines the interface for logs repository operations.
type LogsRepositoryInterface interface {
	Create(ctx context.Context, entry *LogEntryDocument) error
	CreateMany(ctx context.Context, entries []*LogEntryDocument) error
}
