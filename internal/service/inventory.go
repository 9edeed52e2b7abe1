package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/guttosm/packgenius/internal/metrics"
	"github.com/guttosm/packgenius/internal/repository"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// DefaultMaxInventoryBatch bounds a single upsert.
const DefaultMaxInventoryBatch = 1000

const snapshotLoadTimeout = 10 * time.Second

// ImportResult summarizes a CSV import.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// InventoryService manages the carton inventory used by the planner.
type InventoryService interface {
	// List returns the current inventory snapshot.
	List(ctx context.Context) ([]model.BoxItem, error)
	// Upsert validates and stores cartons by id.
	Upsert(ctx context.Context, items []model.BoxItem) (int, error)
	// Delete removes a carton. Returns ErrInventoryNotFound when absent.
	Delete(ctx context.Context, id string) error
	// Import reads ID,L,W,H rows and upserts the valid ones.
	Import(ctx context.Context, r io.Reader) (ImportResult, error)
	// SeedDefaults stores items when the inventory is empty.
	SeedDefaults(ctx context.Context, items []model.BoxItem) (int, error)
}

// InventoryOption configures an InventoryServiceImpl.
type InventoryOption func(*InventoryServiceImpl)

// WithSnapshotTTL sets how long a listed snapshot is reused. Zero disables reuse.
func WithSnapshotTTL(ttl time.Duration) InventoryOption {
	return func(s *InventoryServiceImpl) {
		s.ttl = ttl
	}
}

// WithMaxBatch sets the largest accepted upsert batch.
func WithMaxBatch(n int) InventoryOption {
	return func(s *InventoryServiceImpl) {
		if n > 0 {
			s.maxBatch = n
		}
	}
}

// InventoryServiceImpl implements InventoryService.
// Listed snapshots are cached for ttl and concurrent misses share one load.
type InventoryServiceImpl struct {
	repo     repository.InventoryRepositoryInterface
	ttl      time.Duration
	maxBatch int
	now      func() time.Time
	group    singleflight.Group

	mu         sync.RWMutex
	snapshot   []model.BoxItem
	loadedAt   time.Time
	hasCache   bool
	generation uint64
}

// NewInventoryService creates a new inventory service.
func NewInventoryService(repo repository.InventoryRepositoryInterface, opts ...InventoryOption) *InventoryServiceImpl {
	s := &InventoryServiceImpl{
		repo:     repo,
		maxBatch: DefaultMaxInventoryBatch,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns the cached snapshot when fresh, otherwise loads it.
// When the store fails and a previous snapshot exists, the stale snapshot is served.
func (s *InventoryServiceImpl) List(ctx context.Context) ([]model.BoxItem, error) {
	if s.repo == nil {
		return nil, ErrRepositoryNotConfigured
	}

	s.mu.RLock()
	if s.hasCache && s.now().Sub(s.loadedAt) < s.ttl {
		boxes := cloneBoxes(s.snapshot)
		s.mu.RUnlock()
		return boxes, nil
	}
	gen := s.generation
	s.mu.RUnlock()

	v, err, _ := s.group.Do(fmt.Sprintf("inventory-%d", gen), func() (interface{}, error) {
		// detached so one cancelled caller does not fail the others sharing the load
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), snapshotLoadTimeout)
		defer cancel()
		boxes, err := s.repo.List(loadCtx)
		if err != nil {
			return nil, err
		}
		s.store(gen, boxes)
		return boxes, nil
	})
	if err != nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.hasCache {
			log.Warn().Err(err).Int("boxes", len(s.snapshot)).Msg("Inventory load failed, serving stale snapshot")
			return cloneBoxes(s.snapshot), nil
		}
		return nil, err
	}

	boxes, _ := v.([]model.BoxItem)
	return cloneBoxes(boxes), nil
}

// store keeps a loaded snapshot unless a mutation happened since the load started.
func (s *InventoryServiceImpl) store(gen uint64, boxes []model.BoxItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return
	}
	s.snapshot = cloneBoxes(boxes)
	s.loadedAt = s.now()
	s.hasCache = true
	metrics.SetInventorySize(len(boxes))
}

func (s *InventoryServiceImpl) invalidate() {
	s.mu.Lock()
	s.generation++
	s.hasCache = false
	s.snapshot = nil
	s.mu.Unlock()
}

// Upsert validates and stores cartons by id. Later duplicates in one batch win.
func (s *InventoryServiceImpl) Upsert(ctx context.Context, items []model.BoxItem) (int, error) {
	if s.repo == nil {
		return 0, ErrRepositoryNotConfigured
	}
	if len(items) == 0 || len(items) > s.maxBatch {
		return 0, ErrInventoryBatchSize
	}

	normalized := make([]model.BoxItem, 0, len(items))
	position := make(map[string]int, len(items))
	for i, item := range items {
		box, err := normalizeBox(i, item)
		if err != nil {
			return 0, err
		}
		if at, ok := position[box.ID]; ok {
			normalized[at] = box
			continue
		}
		position[box.ID] = len(normalized)
		normalized = append(normalized, box)
	}

	n, err := s.repo.Upsert(ctx, normalized)
	s.invalidate()
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Delete removes a carton by id.
func (s *InventoryServiceImpl) Delete(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrRepositoryNotConfigured
	}

	err := s.repo.Delete(ctx, strings.TrimSpace(id))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrInventoryNotFound
	}
	if err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Import parses ID,L,W,H rows. A leading header row is ignored; unparsable
// or invalid rows are skipped and counted.
func (s *InventoryServiceImpl) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	items, skipped, err := ParseInventoryCSV(r)
	if err != nil {
		return ImportResult{}, err
	}
	if len(items) == 0 {
		return ImportResult{Skipped: skipped}, ErrNoValidRows
	}

	n, err := s.Upsert(ctx, items)
	if err != nil {
		return ImportResult{}, err
	}
	return ImportResult{Imported: n, Skipped: skipped}, nil
}

// SeedDefaults stores items only when the inventory is empty.
func (s *InventoryServiceImpl) SeedDefaults(ctx context.Context, items []model.BoxItem) (int, error) {
	if s.repo == nil {
		return 0, ErrRepositoryNotConfigured
	}
	if len(items) == 0 {
		return 0, nil
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	n, err := s.Upsert(ctx, items)
	if err != nil {
		return 0, err
	}
	log.Info().Int("boxes", n).Msg("Seeded default inventory")
	return n, nil
}

// ParseInventoryCSV reads ID,L,W,H rows and returns the valid cartons and the
// number of skipped rows.
func ParseInventoryCSV(r io.Reader) ([]model.BoxItem, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	var (
		items   []model.BoxItem
		skipped int
		row     int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			skipped++
			row++
			continue
		}
		if err != nil {
			return nil, 0, err
		}

		row++
		if row == 1 && len(record) > 0 {
			record[0] = strings.TrimPrefix(record[0], "\ufeff")
		}
		if isBlank(record) {
			continue
		}
		if row == 1 && isHeader(record) {
			continue
		}

		box, ok := parseBoxRecord(record)
		if !ok {
			skipped++
			continue
		}
		if _, err := normalizeBox(len(items), box); err != nil {
			skipped++
			continue
		}
		items = append(items, box)
	}
	return items, skipped, nil
}

func parseBoxRecord(record []string) (model.BoxItem, bool) {
	if len(record) < 4 {
		return model.BoxItem{}, false
	}
	dims := make([]float64, 3)
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
		if err != nil {
			return model.BoxItem{}, false
		}
		dims[i] = v
	}
	return model.NewBoxItem(strings.TrimSpace(record[0]), dims[0], dims[1], dims[2]), true
}

func isHeader(record []string) bool {
	if len(record) < 2 {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	return err != nil && strings.EqualFold(strings.TrimSpace(record[0]), "id")
}

func isBlank(record []string) bool {
	for _, field := range record {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func normalizeBox(index int, item model.BoxItem) (model.BoxItem, error) {
	id := strings.TrimSpace(item.ID)
	if id == "" {
		return model.BoxItem{}, &InvalidBoxError{Index: index, Message: "id is required"}
	}
	if utf8.RuneCountInString(id) > model.MaxBoxIDLength {
		return model.BoxItem{}, &InvalidBoxError{Index: index, Message: fmt.Sprintf("id must be at most %d characters", model.MaxBoxIDLength)}
	}
	if id == model.CustomBoxID {
		return model.BoxItem{}, &InvalidBoxError{Index: index, ID: id, Message: "id is reserved"}
	}
	for _, v := range []float64{item.Length, item.Width, item.Height} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return model.BoxItem{}, &InvalidBoxError{Index: index, ID: id, Message: "dimensions must be positive numbers"}
		}
	}
	return model.NewBoxItem(id, item.Length, item.Width, item.Height), nil
}

func cloneBoxes(boxes []model.BoxItem) []model.BoxItem {
	if boxes == nil {
		return []model.BoxItem{}
	}
	out := make([]model.BoxItem, len(boxes))
	for i, box := range boxes {
		if box.CreatedAt != nil {
			t := *box.CreatedAt
			box.CreatedAt = &t
		}
		out[i] = box
	}
	return out
}
