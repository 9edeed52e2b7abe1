//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/packgenius/internal/circuitbreaker"
	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryRepository_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	repo := NewInventoryRepository(db)
	seededAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return seededAt }

	t.Run("upsert seed", func(t *testing.T) {
		n, err := repo.Upsert(ctx, seedBoxes())
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("list orders by created_at then id", func(t *testing.T) {
		repo.now = func() time.Time { return seededAt.Add(time.Hour) }
		_, err := repo.Upsert(ctx, []model.BoxItem{model.NewBoxItem("BOX-000", 10, 10, 10)})
		require.NoError(t, err)

		boxes, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, boxes, 4)
		assert.Equal(t, "BOX-000", boxes[0].ID)
		assert.Equal(t, "BOX-001", boxes[1].ID)
		assert.Equal(t, "BOX-002", boxes[2].ID)
		assert.Equal(t, 300.0, boxes[2].Length)
	})

	t.Run("replace keeps created_at", func(t *testing.T) {
		repo.now = func() time.Time { return seededAt.Add(2 * time.Hour) }
		_, err := repo.Upsert(ctx, []model.BoxItem{model.NewBoxItem("BOX-001", 205, 155, 105)})
		require.NoError(t, err)

		boxes, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, "BOX-001", boxes[1].ID)
		assert.Equal(t, 205.0, boxes[1].Length)
		require.NotNil(t, boxes[1].CreatedAt)
		assert.True(t, seededAt.Equal(*boxes[1].CreatedAt))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "BOX-003"))
		assert.ErrorIs(t, repo.Delete(ctx, "BOX-003"), ErrNotFound)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestInventoryRepositoryWithCircuitBreaker_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db := setupTestDBFromSharedContainer(t)
	defer func() {
		require.NoError(t, db.Close(ctx))
	}()

	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	repo := NewInventoryRepositoryWithCircuitBreaker(NewInventoryRepository(db), cb)

	_, err := repo.Upsert(ctx, seedBoxes())
	require.NoError(t, err)

	boxes, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, boxes, 3)
	assert.Equal(t, "closed", cb.GetStats().State)
}
