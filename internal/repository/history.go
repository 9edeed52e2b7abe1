package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/packgenius/internal/domain/model"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// historyDocument is the stored form of a saved calculation.
type historyDocument struct {
	ID        string                        `bson:"_id"`
	Product   model.Dimensions              `bson:"product"`
	Config    model.PackagingConfigDocument `bson:"config"`
	Gaps      model.SafetyGaps              `bson:"safety_gaps"`
	Result    model.CalculationResult       `bson:"result"`
	Analysis  *model.Analysis               `bson:"analysis,omitempty"`
	Language  string                        `bson:"language,omitempty"`
	CreatedAt time.Time                     `bson:"created_at"`
}

func newHistoryDocument(entry *model.HistoryEntry) historyDocument {
	return historyDocument{
		ID:        entry.ID,
		Product:   entry.Product,
		Config:    entry.Config.Document(),
		Gaps:      entry.Gaps,
		Result:    entry.Result,
		Analysis:  entry.Analysis,
		Language:  entry.Language,
		CreatedAt: entry.CreatedAt,
	}
}

func (d historyDocument) toModel() (model.HistoryEntry, error) {
	cfg, err := d.Config.Config()
	if err != nil {
		return model.HistoryEntry{}, fmt.Errorf("history %s: %w", d.ID, err)
	}
	return model.HistoryEntry{
		ID:        d.ID,
		Product:   d.Product,
		Config:    cfg,
		Gaps:      d.Gaps,
		Result:    d.Result,
		Analysis:  d.Analysis,
		Language:  d.Language,
		CreatedAt: d.CreatedAt,
	}, nil
}

// HistoryRepository stores saved calculations in MongoDB.
// When maxItems is positive, entries beyond the newest maxItems are removed on insert.
type HistoryRepository struct {
	collection *mongo.Collection
	maxItems   int
	now        func() time.Time
	prune      func(ctx context.Context) error
}

// NewHistoryRepository creates a new history repository.
func NewHistoryRepository(db *MongoDB, maxItems int) *HistoryRepository {
	r := &HistoryRepository{
		collection: db.History,
		maxItems:   maxItems,
		now:        time.Now,
	}
	r.prune = r.trim
	return r
}

// Create stores a calculation, assigning ID and CreatedAt when unset.
// Trimming old entries is best-effort: once the insert succeeds the entry is
// saved, and a failed trim is retried on the next insert.
func (r *HistoryRepository) Create(ctx context.Context, entry *model.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = r.now().UTC()
	}

	if _, err := r.collection.InsertOne(ctx, newHistoryDocument(entry)); err != nil {
		return err
	}
	if err := r.prune(ctx); err != nil {
		log.Warn().Err(err).Str("history_id", entry.ID).Int("max_items", r.maxItems).
			Msg("Failed to trim calculation history")
	}
	return nil
}

// trim deletes everything older than the newest maxItems entries.
func (r *HistoryRepository) trim(ctx context.Context) error {
	if r.maxItems <= 0 {
		return nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(r.maxItems)).
		SetProjection(bson.M{"_id": 1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var stale []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &stale); err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	ids := make([]string, len(stale))
	for i, doc := range stale {
		ids[i] = doc.ID
	}
	_, err = r.collection.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	return err
}

// List returns at most limit entries, newest first. A non-positive limit returns all.
func (r *HistoryRepository) List(ctx context.Context, limit int) ([]model.HistoryEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []historyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	entries := make([]model.HistoryEntry, 0, len(docs))
	for _, doc := range docs {
		entry, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Delete removes a single entry.
func (r *HistoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes every entry.
func (r *HistoryRepository) Clear(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
