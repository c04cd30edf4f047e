package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sould/property-match/internal/core/search"
)

// indexSpecs lists the indexes each collection needs. Uniqueness of users,
// filters, selections and invitations is enforced here, not in code.
func indexSpecs() map[string][]mongo.IndexModel {
	text := bson.D{}
	for _, field := range search.TextFields {
		text = append(text, bson.E{Key: field, Value: "text"})
	}

	return map[string][]mongo.IndexModel{
		collectionUsers: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionFilters: {
			{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		collectionProperties: {
			{Keys: bson.D{{Key: "id", Value: 1}}},
			{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
			{Keys: text, Options: options.Index().SetName("listing_text")},
			{Keys: bson.D{{Key: "isDeleted", Value: 1}, {Key: "deletedAt", Value: 1}}},
			{Keys: bson.D{{Key: "address.province", Value: 1}, {Key: "transactionType", Value: 1}}},
		},
		collectionSelections: {
			{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "propertyId", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "propertyId", Value: 1}}},
		},
		collectionInvitations: {
			{Keys: bson.D{{Key: "fromUserId", Value: 1}, {Key: "toUserEmail", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "toUserId", Value: 1}, {Key: "status", Value: 1}}},
			{Keys: bson.D{{Key: "toUserEmail", Value: 1}}},
		},
		collectionComments: {
			{Keys: bson.D{{Key: "propertyId", Value: 1}, {Key: "userId", Value: 1}}},
		},
	}
}

// EnsureIndexes creates every index the repositories rely on. It is safe to
// run repeatedly.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for coll, models := range indexSpecs() {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
