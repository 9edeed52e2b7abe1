//go:build !integration

package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/service/cache"
	"github.com/stretchr/testify/assert"
)

func analysis(score int) model.Analysis {
	return model.Analysis{
		Recommendation:  fmt.Sprintf("score %d", score),
		EfficiencyScore: score,
		Reasoning:       []string{"fits"},
	}
}

// newClockedCache returns a cache whose time only moves when advance is called.
func newClockedCache(capacity int, ttl time.Duration) (*ttlCache, func(time.Duration)) {
	c := newTTLCache(capacity, ttl)
	var mu sync.Mutex
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	return c, func(d time.Duration) {
		mu.Lock()
		current = current.Add(d)
		mu.Unlock()
	}
}

func TestTTLCache_Get(t *testing.T) {
	tests := []struct {
		name          string
		setupCache    func() *ttlCache
		key           string
		expectedValue model.Analysis
		expectedFound bool
	}{
		{
			name: "returns value when exists and not expired",
			setupCache: func() *ttlCache {
				c := newTTLCache(10, time.Minute)
				c.Set("en:a", analysis(80))
				return c
			},
			key:           "en:a",
			expectedValue: analysis(80),
			expectedFound: true,
		},
		{
			name: "returns false when key not found",
			setupCache: func() *ttlCache {
				return newTTLCache(10, time.Minute)
			},
			key:           "en:missing",
			expectedFound: false,
		},
		{
			name: "returns false when expired",
			setupCache: func() *ttlCache {
				c, advance := newClockedCache(10, time.Minute)
				c.Set("en:a", analysis(80))
				advance(2 * time.Minute)
				return c
			},
			key:           "en:a",
			expectedFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.setupCache()
			defer c.Stop()
			value, found := c.Get(tt.key)

			assert.Equal(t, tt.expectedFound, found)
			if tt.expectedFound {
				assert.Equal(t, tt.expectedValue, value)
			}
		})
	}
}

func TestTTLCache_Set(t *testing.T) {
	type op struct {
		key   string
		value model.Analysis
	}
	tests := []struct {
		name       string
		capacity   int
		operations []op
		validate   func(*testing.T, *ttlCache)
	}{
		{
			name:       "evicts LRU when at capacity",
			capacity:   2,
			operations: []op{{"a", analysis(1)}, {"b", analysis(2)}, {"c", analysis(3)}},
			validate: func(t *testing.T, c *ttlCache) {
				_, okA := c.Get("a")
				_, okB := c.Get("b")
				_, okC := c.Get("c")
				assert.False(t, okA, "first entry evicted")
				assert.True(t, okB)
				assert.True(t, okC)
			},
		},
		{
			name:       "updates existing entry",
			capacity:   10,
			operations: []op{{"a", analysis(40)}, {"a", analysis(90)}},
			validate: func(t *testing.T, c *ttlCache) {
				value, ok := c.Get("a")
				assert.True(t, ok)
				assert.Equal(t, 90, value.EfficiencyScore)
				assert.Equal(t, 1, c.Metrics().Size)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTTLCache(tt.capacity, time.Minute)
			defer c.Stop()
			for _, o := range tt.operations {
				c.Set(o.key, o.value)
			}
			tt.validate(t, c)
		})
	}
}

func TestTTLCache_ReturnsCopies(t *testing.T) {
	c := newTTLCache(10, time.Minute)
	defer c.Stop()

	stored := analysis(70)
	c.Set("k", stored)
	stored.Reasoning[0] = "changed by caller"

	got, _ := c.Get("k")
	assert.Equal(t, "fits", got.Reasoning[0])

	got.Reasoning[0] = "changed again"
	again, _ := c.Get("k")
	assert.Equal(t, "fits", again.Reasoning[0])
}

func TestTTLCache_Stop(t *testing.T) {
	c := newTTLCache(10, time.Minute)
	c.Set("k", analysis(1))

	assert.NotPanics(t, func() {
		c.Stop()
		c.Stop()
	})
}

func TestTTLCache_Metrics(t *testing.T) {
	c := newTTLCache(10, time.Minute)
	defer c.Stop()

	c.Set("a", analysis(1))
	c.Get("a") // hit
	c.Get("b") // miss
	c.Set("b", analysis(2))
	c.Set("c", analysis(3))

	m := c.Metrics()
	assert.Equal(t, int64(1), m.Hits)
	assert.Equal(t, int64(1), m.Misses)
	assert.Equal(t, 3, m.Size)
	assert.Equal(t, 10, m.Capacity)
}

func TestTTLCache_ImplementsInterface(t *testing.T) {
	var _ cache.Cache = (*ttlCache)(nil)
	var _ cache.CacheWithMetrics = (*ttlCache)(nil)
	var _ cache.CacheWithMetrics = (*ShardedCache)(nil)
}

func TestTTLCache_Concurrency(t *testing.T) {
	c := newTTLCache(100, time.Minute)
	defer c.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				key := fmt.Sprintf("%d-%d", worker, j)
				c.Set(key, analysis(j))
				c.Get(key)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, c.Metrics().Size)
}

func TestTTLCache_MoveToFront(t *testing.T) {
	c := newTTLCache(3, time.Minute)
	defer c.Stop()

	c.Set("1", analysis(1))
	c.Set("2", analysis(2))
	c.Set("3", analysis(3))

	// touching 1 makes 2 the least recently used
	c.Get("1")
	c.Set("4", analysis(4))

	_, ok1 := c.Get("1")
	_, ok2 := c.Get("2")
	_, ok3 := c.Get("3")
	_, ok4 := c.Get("4")

	assert.True(t, ok1, "entry 1 should still exist (was accessed)")
	assert.False(t, ok2, "entry 2 should be evicted (was LRU)")
	assert.True(t, ok3)
	assert.True(t, ok4)
	assert.Equal(t, int64(1), c.Metrics().Evictions)
}

func TestTTLCache_Cleanup(t *testing.T) {
	c, advance := newClockedCache(10, time.Minute)
	defer c.Stop()

	c.Set("a", analysis(1))
	advance(30 * time.Second)
	c.Set("b", analysis(2))
	advance(45 * time.Second)

	c.cleanup()

	assert.Equal(t, 1, c.Metrics().Size)
	_, ok := c.Get("b")
	assert.True(t, ok)
}

func TestTTLCache_ExpiredEntryRemoval(t *testing.T) {
	c, advance := newClockedCache(10, time.Minute)
	defer c.Stop()

	c.Set("a", analysis(1))
	advance(time.Minute + time.Second)

	value, found := c.Get("a")
	assert.False(t, found)
	assert.Equal(t, model.Analysis{}, value)
	assert.Equal(t, 0, c.Metrics().Size)
}

func TestTTLCache_Clear(t *testing.T) {
	c := newTTLCache(10, time.Minute)
	defer c.Stop()

	c.Set("a", analysis(1))
	c.Get("a")
	c.Clear()

	m := c.Metrics()
	assert.Equal(t, 0, m.Size)
	assert.Zero(t, m.Hits)
	_, ok := c.Get("a")
	assert.False(t, ok)
}
