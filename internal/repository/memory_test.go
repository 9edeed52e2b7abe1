//go:build !integration

package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBoxes() []model.BoxItem {
	return []model.BoxItem{
		model.NewBoxItem("BOX-002", 300, 200, 150),
		model.NewBoxItem("BOX-001", 200, 150, 100),
		model.NewBoxItem("BOX-003", 400, 300, 200),
	}
}

func TestMemoryInventoryRepository_List(t *testing.T) {
	ctx := context.Background()

	t.Run("seed is ordered by id", func(t *testing.T) {
		repo := NewMemoryInventoryRepository(seedBoxes())

		boxes, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, boxes, 3)
		assert.Equal(t, "BOX-001", boxes[0].ID)
		assert.Equal(t, "BOX-002", boxes[1].ID)
		assert.Equal(t, "BOX-003", boxes[2].ID)
		assert.NotNil(t, boxes[0].CreatedAt)
	})

	t.Run("newer cartons come first", func(t *testing.T) {
		repo := NewMemoryInventoryRepository(seedBoxes())
		repo.now = func() time.Time { return time.Now().Add(time.Hour) }

		_, err := repo.Upsert(ctx, []model.BoxItem{model.NewBoxItem("A-NEW", 10, 10, 10)})
		require.NoError(t, err)

		boxes, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "A-NEW", boxes[0].ID)
	})

	t.Run("empty store", func(t *testing.T) {
		repo := NewMemoryInventoryRepository(nil)

		boxes, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, boxes)
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		repo := NewMemoryInventoryRepository(seedBoxes())

		boxes, _ := repo.List(ctx)
		boxes[0].Length = 1

		again, _ := repo.List(ctx)
		assert.Equal(t, 200.0, again[0].Length)
	})
}

func TestMemoryInventoryRepository_Upsert(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryInventoryRepository(seedBoxes())

	before, _ := repo.List(ctx)
	originalCreatedAt := *before[0].CreatedAt

	repo.now = func() time.Time { return originalCreatedAt.Add(time.Minute) }
	n, err := repo.Upsert(ctx, []model.BoxItem{
		model.NewBoxItem("BOX-001", 210, 160, 110),
		model.NewBoxItem("BOX-009", 50, 50, 50),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), count)

	boxes, _ := repo.List(ctx)
	var updated model.BoxItem
	for _, box := range boxes {
		if box.ID == "BOX-001" {
			updated = box
		}
	}
	assert.Equal(t, model.Dimensions{Length: 210, Width: 160, Height: 110}, updated.Dimensions)
	assert.True(t, originalCreatedAt.Equal(*updated.CreatedAt), "replacing a carton keeps created_at")
}

func TestMemoryInventoryRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryInventoryRepository(seedBoxes())

	require.NoError(t, repo.Delete(ctx, "BOX-002"))
	assert.ErrorIs(t, repo.Delete(ctx, "BOX-002"), ErrNotFound)

	count, _ := repo.Count(ctx)
	assert.Equal(t, int64(2), count)
}

func TestMemoryInventoryRepository_Concurrent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryInventoryRepository(seedBoxes())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = repo.Upsert(ctx, []model.BoxItem{model.NewBoxItem("BOX-X", 1, 2, 3)})
		}()
		go func() {
			defer wg.Done()
			_, _ = repo.List(ctx)
		}()
	}
	wg.Wait()

	count, _ := repo.Count(ctx)
	assert.Equal(t, int64(4), count)
}

func historyEntry(waste float64) *model.HistoryEntry {
	return &model.HistoryEntry{
		Product: model.Dimensions{Length: 100, Width: 50, Height: 25},
		Config:  model.NewPackagingConfig(1).WithInnerArrangement(model.Arrangement{L: 2, W: 2, H: 2}),
		Gaps:    model.DefaultSafetyGaps(),
		Result:  model.CalculationResult{WasteVolume: waste, TotalItems: 8},
		Analysis: &model.Analysis{
			Recommendation: "ok",
			Reasoning:      []string{"fits"},
		},
		Language: "en",
	}
}

func TestMemoryHistoryRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHistoryRepository(0)

	first := historyEntry(1)
	second := historyEntry(2)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.CreatedAt.IsZero())

	entries, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, second.ID, entries[0].ID, "newest first")

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	t.Run("entries are copies", func(t *testing.T) {
		entries[0].Analysis.Reasoning[0] = "mutated"
		again, _ := repo.List(ctx, 1)
		assert.Equal(t, "fits", again[0].Analysis.Reasoning[0])
	})
}

func TestMemoryHistoryRepository_Cap(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHistoryRepository(3)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, historyEntry(float64(i))))
	}

	entries, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 4.0, entries[0].Result.WasteVolume)
	assert.Equal(t, 2.0, entries[2].Result.WasteVolume)
}

func TestMemoryHistoryRepository_DeleteAndClear(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHistoryRepository(10)

	entry := historyEntry(1)
	require.NoError(t, repo.Create(ctx, entry))
	require.NoError(t, repo.Create(ctx, historyEntry(2)))

	require.NoError(t, repo.Delete(ctx, entry.ID))
	assert.ErrorIs(t, repo.Delete(ctx, entry.ID), ErrNotFound)

	n, err := repo.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	entries, _ := repo.List(ctx, 0)
	assert.Empty(t, entries)
}
