package repository

import (
	"context"
	"time"

	"github.com/guttosm/packgenius/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// boxDocument is the stored form of an inventory carton, keyed by its id.
type boxDocument struct {
	ID        string    `bson:"_id"`
	Length    float64   `bson:"length"`
	Width     float64   `bson:"width"`
	Height    float64   `bson:"height"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d boxDocument) toModel() model.BoxItem {
	box := model.NewBoxItem(d.ID, d.Length, d.Width, d.Height)
	if !d.CreatedAt.IsZero() {
		createdAt := d.CreatedAt
		box.CreatedAt = &createdAt
	}
	return box
}

// InventoryRepository stores cartons in MongoDB.
type InventoryRepository struct {
	collection *mongo.Collection
	now        func() time.Time
}

// NewInventoryRepository creates a new inventory repository.
func NewInventoryRepository(db *MongoDB) *InventoryRepository {
	return &InventoryRepository{
		collection: db.Inventory,
		now:        time.Now,
	}
}

// List returns every carton, newest first and then by id.
func (r *InventoryRepository) List(ctx context.Context) ([]model.BoxItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []boxDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	boxes := make([]model.BoxItem, 0, len(docs))
	for _, doc := range docs {
		boxes = append(boxes, doc.toModel())
	}
	return boxes, nil
}

// Upsert writes cartons by id in one unordered bulk operation.
// Existing cartons keep their original created_at.
func (r *InventoryRepository) Upsert(ctx context.Context, items []model.BoxItem) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	now := r.now().UTC()
	writes := make([]mongo.WriteModel, 0, len(items))
	for _, item := range items {
		update := bson.M{
			"$set": bson.M{
				"length":     item.Length,
				"width":      item.Width,
				"height":     item.Height,
				"updated_at": now,
			},
			"$setOnInsert": bson.M{"created_at": now},
		}
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": item.ID}).
			SetUpdate(update).
			SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, err
	}
	return int(result.UpsertedCount + result.MatchedCount), nil
}

// Delete removes a carton by id.
func (r *InventoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored cartons.
func (r *InventoryRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
