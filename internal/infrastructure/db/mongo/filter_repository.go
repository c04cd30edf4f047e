package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sould/property-match/internal/core/domain"
)

type FilterRepository struct {
	col *mongo.Collection
}

func NewFilterRepository(db *mongo.Database) *FilterRepository {
	return &FilterRepository{col: db.Collection(collectionFilters)}
}

type mongoFilter struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	UserID        string             `bson:"userId"`
	StreetAddress string             `bson:"streetAddress,omitempty"`
	Province      string             `bson:"province,omitempty"`
	Bedroom       []int              `bson:"bedroom,omitempty"`
	Bathroom      []int              `bson:"bathroom,omitempty"`
	Parking       []int              `bson:"parking,omitempty"`
	PriceRange    *domain.PriceRange `bson:"priceRange,omitempty"`
	Keywords      []string           `bson:"keywords,omitempty"`
	HouseType     []string           `bson:"houseType,omitempty"`
	Location      *domain.Location   `bson:"location,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func toMongoFilter(f *domain.Filter) mongoFilter {
	houseTypes := make([]string, len(f.HouseType))
	for i, t := range f.HouseType {
		houseTypes[i] = string(t)
	}
	return mongoFilter{
		UserID:        f.UserID,
		StreetAddress: f.StreetAddress,
		Province:      f.Province,
		Bedroom:       f.Bedroom,
		Bathroom:      f.Bathroom,
		Parking:       f.Parking,
		PriceRange:    f.PriceRange,
		Keywords:      f.Keywords,
		HouseType:     houseTypes,
		Location:      f.Location,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

func (m mongoFilter) toDomain() *domain.Filter {
	houseTypes := make([]domain.HouseType, len(m.HouseType))
	for i, t := range m.HouseType {
		houseTypes[i] = domain.HouseType(t)
	}
	return &domain.Filter{
		ID:            m.ID.Hex(),
		UserID:        m.UserID,
		StreetAddress: m.StreetAddress,
		Province:      m.Province,
		Bedroom:       m.Bedroom,
		Bathroom:      m.Bathroom,
		Parking:       m.Parking,
		PriceRange:    m.PriceRange,
		Keywords:      m.Keywords,
		HouseType:     houseTypes,
		Location:      m.Location,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func (r *FilterRepository) FindByUser(ctx context.Context, userID string) (*domain.Filter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mf mongoFilter
	if err := r.col.FindOne(ctx, bson.M{"userId": userID}).Decode(&mf); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find filter: %w", err)
	}
	return mf.toDomain(), nil
}

// Upsert replaces the whole filter document so cleared fields do not linger.
// The unique index on userId turns a concurrent first save into a duplicate
// key error, which is retried once as a replace.
func (r *FilterRepository) Upsert(ctx context.Context, filter *domain.Filter) (*domain.Filter, error) {
	existing, err := r.FindByUser(ctx, filter.UserID)
	if err != nil {
		return nil, err
	}

	doc := toMongoFilter(filter)
	if doc.UpdatedAt.IsZero() {
		doc.UpdatedAt = time.Now().UTC()
	}
	doc.CreatedAt = doc.UpdatedAt
	if existing != nil {
		doc.CreatedAt = existing.CreatedAt
	}

	saved, err := r.replace(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		saved, err = r.replace(ctx, doc)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert filter: %w", err)
	}
	return saved.toDomain(), nil
}

func (r *FilterRepository) replace(ctx context.Context, doc mongoFilter) (mongoFilter, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndReplace().SetUpsert(true).SetReturnDocument(options.After)
	var saved mongoFilter
	err := r.col.FindOneAndReplace(ctx, bson.M{"userId": doc.UserID}, doc, opts).Decode(&saved)
	return saved, err
}
