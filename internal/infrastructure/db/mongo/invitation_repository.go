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

// InvitationRepository stores the invitation graph. Status changes are
// conditional updates so concurrent accepts and rejects resolve to a single
// winner.
type InvitationRepository struct {
	col *mongo.Collection
}

func NewInvitationRepository(db *mongo.Database) *InvitationRepository {
	return &InvitationRepository{col: db.Collection(collectionInvitations)}
}

type mongoInvitation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	FromUserID  string             `bson:"fromUserId"`
	ToUserID    string             `bson:"toUserId,omitempty"`
	ToUserEmail string             `bson:"toUserEmail"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (m mongoInvitation) toDomain() domain.Invitation {
	return domain.Invitation{
		ID:          m.ID.Hex(),
		FromUserID:  m.FromUserID,
		ToUserID:    m.ToUserID,
		ToUserEmail: m.ToUserEmail,
		Status:      domain.InvitationStatus(m.Status),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *InvitationRepository) Create(ctx context.Context, inv *domain.Invitation) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoInvitation{
		ID:          primitive.NewObjectID(),
		FromUserID:  inv.FromUserID,
		ToUserID:    inv.ToUserID,
		ToUserEmail: domain.NormalizeEmail(inv.ToUserEmail),
		Status:      string(inv.Status),
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrInvitationExists
		}
		return fmt.Errorf("insert invitation: %w", err)
	}
	inv.ID = doc.ID.Hex()
	return nil
}

func (r *InvitationRepository) Exists(ctx context.Context, fromUserID, toUserEmail string) (bool, error) {
	return r.exists(ctx, bson.M{"fromUserId": fromUserID, "toUserEmail": domain.NormalizeEmail(toUserEmail)})
}

func (r *InvitationRepository) HasAccepted(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	if toUserID == "" {
		return false, nil
	}
	return r.exists(ctx, bson.M{
		"fromUserId": fromUserID,
		"toUserId":   toUserID,
		"status":     string(domain.InvitationAccepted),
	})
}

func (r *InvitationRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count invitations: %w", err)
	}
	return n > 0, nil
}

func (r *InvitationRepository) FindByID(ctx context.Context, id string) (*domain.Invitation, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrInvitationNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mi mongoInvitation
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mi); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrInvitationNotFound
		}
		return nil, fmt.Errorf("find invitation: %w", err)
	}
	inv := mi.toDomain()
	return &inv, nil
}

// Transition updates the status only while it still equals from. A miss is
// reported as not found or as an invalid transition depending on whether
// the invitation still exists.
func (r *InvitationRepository) Transition(ctx context.Context, id string, from, to domain.InvitationStatus) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrInvitationNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update invitation status: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missReason(ctx, oid)
	}
	return nil
}

func (r *InvitationRepository) Delete(ctx context.Context, id string) error {
	return r.deleteOne(ctx, id, "")
}

func (r *InvitationRepository) DeletePending(ctx context.Context, id string) error {
	return r.deleteOne(ctx, id, domain.InvitationPending)
}

func (r *InvitationRepository) deleteOne(ctx context.Context, id string, status domain.InvitationStatus) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrInvitationNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid}
	if status != "" {
		filter["status"] = string(status)
	}
	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete invitation: %w", err)
	}
	if res.DeletedCount == 0 {
		if status == "" {
			return domain.ErrInvitationNotFound
		}
		return r.missReason(ctx, oid)
	}
	return nil
}

func (r *InvitationRepository) missReason(ctx context.Context, oid primitive.ObjectID) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("count invitations: %w", err)
	}
	if n == 0 {
		return domain.ErrInvitationNotFound
	}
	return domain.ErrInvalidTransition
}

func (r *InvitationRepository) List(ctx context.Context, f domain.InvitationFilter) ([]domain.Invitation, error) {
	filter := bson.M{}
	if f.FromUserID != "" {
		filter["fromUserId"] = f.FromUserID
	}
	if f.ToUserID != "" {
		filter["toUserId"] = f.ToUserID
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find invitations: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []mongoInvitation
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode invitations: %w", err)
	}
	out := make([]domain.Invitation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *InvitationRepository) BackfillInvitee(ctx context.Context, email, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx,
		bson.M{"toUserEmail": domain.NormalizeEmail(email), "toUserId": bson.M{"$ne": userID}},
		bson.M{"$set": bson.M{"toUserId": userID, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("backfill invitations: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *InvitationRepository) AcceptedInvitees(ctx context.Context, fromUserID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ids, err := r.col.Distinct(ctx, "toUserId", bson.M{
		"fromUserId": fromUserID,
		"status":     string(domain.InvitationAccepted),
		"toUserId":   bson.M{"$exists": true, "$ne": ""},
	})
	if err != nil {
		return nil, fmt.Errorf("distinct accepted invitees: %w", err)
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if s, ok := id.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}
