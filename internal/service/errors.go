package service

import (
	"errors"
	"fmt"
)

var (
	// ErrRepositoryNotConfigured is returned when the repository is not configured.
	ErrRepositoryNotConfigured = errors.New("repository not configured")
	// ErrInventoryNotFound is returned when a carton id is not in inventory.
	ErrInventoryNotFound = errors.New("carton not found in inventory")
	// ErrHistoryNotFound is returned when a history id does not exist.
	ErrHistoryNotFound = errors.New("calculation not found in history")
	// ErrInventoryBatchSize is returned for an empty or oversized inventory batch.
	ErrInventoryBatchSize = errors.New("inventory batch size out of range")
	// ErrNoValidRows is returned when a CSV import contains no usable rows.
	ErrNoValidRows = errors.New("no valid ID,L,W,H rows")
)

// InvalidBoxError reports a carton that cannot be stored.
type InvalidBoxError struct {
	Index   int
	ID      string
	Message string
}

func (e *InvalidBoxError) Error() string {
	return fmt.Sprintf("inventory[%d] (%q): %s", e.Index, e.ID, e.Message)
}
