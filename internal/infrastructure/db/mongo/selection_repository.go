package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sould/property-match/internal/core/domain"
)

type SelectionRepository struct {
	col *mongo.Collection
}

func NewSelectionRepository(db *mongo.Database) *SelectionRepository {
	return &SelectionRepository{col: db.Collection(collectionSelections)}
}

type mongoSelection struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"userId"`
	PropertyID string             `bson:"propertyId"`
	Status     string             `bson:"status"`
	CreatedAt  time.Time          `bson:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt"`
}

func (m mongoSelection) toDomain() domain.PropertySelection {
	return domain.PropertySelection{
		ID:         m.ID.Hex(),
		UserID:     m.UserID,
		PropertyID: m.PropertyID,
		Status:     domain.SelectionStatus(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (r *SelectionRepository) Create(ctx context.Context, s *domain.PropertySelection) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoSelection{
		ID:         primitive.NewObjectID(),
		UserID:     s.UserID,
		PropertyID: s.PropertyID,
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSelectionExists
		}
		return fmt.Errorf("insert selection: %w", err)
	}
	s.ID = doc.ID.Hex()
	return nil
}

func (r *SelectionRepository) ListByUser(ctx context.Context, userID string) ([]domain.PropertySelection, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find selections: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []mongoSelection
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode selections: %w", err)
	}
	out := make([]domain.PropertySelection, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *SelectionRepository) PropertyIDs(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ids, err := r.col.Distinct(ctx, "propertyId", bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("distinct selected properties: %w", err)
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if s, ok := id.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *SelectionRepository) Delete(ctx context.Context, userID, propertyID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.DeleteOne(ctx, bson.M{"userId": userID, "propertyId": propertyID}); err != nil {
		return fmt.Errorf("delete selection: %w", err)
	}
	return nil
}

func (r *SelectionRepository) DeleteByProperties(ctx context.Context, propertyIDs []string) (int64, error) {
	if len(propertyIDs) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"propertyId": bson.M{"$in": propertyIDs}})
	if err != nil {
		return 0, fmt.Errorf("delete selections: %w", err)
	}
	return res.DeletedCount, nil
}
