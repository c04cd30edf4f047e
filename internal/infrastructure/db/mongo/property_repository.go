package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
	"github.com/sould/property-match/internal/core/search"
)

// PropertyRepository reads listings written by the ingestion feed. Documents
// are addressed by their feed id, not _id.
type PropertyRepository struct {
	col *mongo.Collection
}

func NewPropertyRepository(db *mongo.Database) *PropertyRepository {
	return &PropertyRepository{col: db.Collection(collectionProperties)}
}

// Search counts and fetches one page of listings matching query.
func (r *PropertyRepository) Search(ctx context.Context, query search.Node, page ports.Page) (*ports.PropertyPage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, RenderQuery(query, RenderCount))
	if err != nil {
		return nil, fmt.Errorf("count properties: %w", err)
	}

	filter := RenderQuery(query, RenderFind)
	opts := options.Find().
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	if !usesNear(filter) {
		opts.SetSort(bson.D{{Key: "lastUpdated", Value: -1}, {Key: "_id", Value: 1}})
	}

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find properties: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]domain.Property, 0, page.Limit)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}

	return &ports.PropertyPage{
		Items:      items,
		Total:      total,
		Page:       page.Number,
		Limit:      page.Limit,
		TotalPages: ports.TotalPages(total, page.Limit),
	}, nil
}

func (r *PropertyRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Property, error) {
	if len(ids) == 0 {
		return []domain.Property{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find properties by id: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.Property
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}
	return items, nil
}

func (r *PropertyRepository) ListPurgeable(ctx context.Context, cutoff time.Time) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"isDeleted": true, "deletedAt": bson.M{"$lte": cutoff}}
	cursor, err := r.col.Find(ctx, filter, options.Find().SetProjection(bson.M{"id": 1}))
	if err != nil {
		return nil, fmt.Errorf("find purgeable properties: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID string `bson:"id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode purgeable properties: %w", err)
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	return ids, nil
}

func (r *PropertyRepository) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"id": bson.M{"$in": ids}, "isDeleted": true})
	if err != nil {
		return 0, fmt.Errorf("delete properties: %w", err)
	}
	return res.DeletedCount, nil
}
