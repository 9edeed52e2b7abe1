package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/packgenius/internal/domain/model"
)

// MemoryInventoryRepository keeps cartons in-memory and guards access with a RWMutex.
// It backs the service when MongoDB is disabled.
type MemoryInventoryRepository struct {
	mu    sync.RWMutex
	boxes map[string]model.BoxItem
	now   func() time.Time
}

// NewMemoryInventoryRepository creates a store seeded with the given cartons.
func NewMemoryInventoryRepository(seed []model.BoxItem) *MemoryInventoryRepository {
	r := &MemoryInventoryRepository{
		boxes: make(map[string]model.BoxItem, len(seed)),
		now:   time.Now,
	}
	_, _ = r.Upsert(context.Background(), seed)
	return r
}

// List returns a copy of every carton, newest first and then by id.
func (r *MemoryInventoryRepository) List(_ context.Context) ([]model.BoxItem, error) {
	r.mu.RLock()
	boxes := make([]model.BoxItem, 0, len(r.boxes))
	for _, box := range r.boxes {
		boxes = append(boxes, cloneBox(box))
	}
	r.mu.RUnlock()

	sortInventory(boxes)
	return boxes, nil
}

// Upsert stores cartons by id. Existing cartons keep their original created_at.
func (r *MemoryInventoryRepository) Upsert(_ context.Context, items []model.BoxItem) (int, error) {
	now := r.now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		createdAt := now
		if existing, ok := r.boxes[item.ID]; ok && existing.CreatedAt != nil {
			createdAt = *existing.CreatedAt
		}
		stored := model.NewBoxItem(item.ID, item.Length, item.Width, item.Height)
		stored.CreatedAt = &createdAt
		r.boxes[item.ID] = stored
	}
	return len(items), nil
}

// Delete removes a carton by id.
func (r *MemoryInventoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.boxes[id]; !ok {
		return ErrNotFound
	}
	delete(r.boxes, id)
	return nil
}

// Count returns the number of stored cartons.
func (r *MemoryInventoryRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.boxes)), nil
}

func sortInventory(boxes []model.BoxItem) {
	sort.SliceStable(boxes, func(i, j int) bool {
		ci, cj := createdAt(boxes[i]), createdAt(boxes[j])
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return boxes[i].ID < boxes[j].ID
	})
}

func createdAt(box model.BoxItem) time.Time {
	if box.CreatedAt == nil {
		return time.Time{}
	}
	return *box.CreatedAt
}

func cloneBox(box model.BoxItem) model.BoxItem {
	if box.CreatedAt != nil {
		t := *box.CreatedAt
		box.CreatedAt = &t
	}
	return box
}

// MemoryHistoryRepository keeps the newest maxItems calculations in-memory.
type MemoryHistoryRepository struct {
	mu       sync.RWMutex
	entries  []model.HistoryEntry // newest first
	maxItems int
	now      func() time.Time
}

// NewMemoryHistoryRepository creates an empty history store.
// A non-positive maxItems keeps every entry.
func NewMemoryHistoryRepository(maxItems int) *MemoryHistoryRepository {
	return &MemoryHistoryRepository{
		maxItems: maxItems,
		now:      time.Now,
	}
}

// Create stores a calculation, assigning ID and CreatedAt when unset.
func (r *MemoryHistoryRepository) Create(_ context.Context, entry *model.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now().UTC()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append([]model.HistoryEntry{cloneHistoryEntry(*entry)}, r.entries...)
	if r.maxItems > 0 && len(r.entries) > r.maxItems {
		r.entries = r.entries[:r.maxItems]
	}
	return nil
}

// List returns at most limit entries, newest first. A non-positive limit returns all.
func (r *MemoryHistoryRepository) List(_ context.Context, limit int) ([]model.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := len(r.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]model.HistoryEntry, n)
	for i := 0; i < n; i++ {
		out[i] = cloneHistoryEntry(r.entries[i])
	}
	return out, nil
}

// Delete removes a single entry.
func (r *MemoryHistoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, entry := range r.entries {
		if entry.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Clear removes every entry.
func (r *MemoryHistoryRepository) Clear(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.entries))
	r.entries = nil
	return n, nil
}

func cloneHistoryEntry(entry model.HistoryEntry) model.HistoryEntry {
	entry.Result.Box = cloneBox(entry.Result.Box)
	if entry.Analysis != nil {
		analysis := *entry.Analysis
		analysis.Reasoning = append([]string(nil), entry.Analysis.Reasoning...)
		entry.Analysis = &analysis
	}
	return entry
}
