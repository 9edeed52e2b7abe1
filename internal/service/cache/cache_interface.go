// Package cache defines the advisory cache contract.
package cache

import "github.com/guttosm/packgenius/internal/domain/model"

// Cache defines the interface for cache operations.
type Cache interface {
	Get(key string) (model.Analysis, bool)
	Set(key string, value model.Analysis)
	Invalidate(key string)
	Clear()
	Stop()
}

// Metrics provides cache performance metrics.
type Metrics struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Size      int
	Capacity  int
}

// CacheWithMetrics extends Cache with metrics reporting.
type CacheWithMetrics interface {
	Cache
	Metrics() Metrics
}
