package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sould/property-match/internal/core/domain"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	FirstName            string             `bson:"firstName"`
	LastName             string             `bson:"lastName,omitempty"`
	Email                string             `bson:"email"`
	Password             string             `bson:"password,omitempty"`
	Phone                string             `bson:"phone,omitempty"`
	ImageURL             string             `bson:"imageUrl,omitempty"`
	Role                 string             `bson:"role"`
	UserType             string             `bson:"userType"`
	SocialSignIn         bool               `bson:"socialSignIn"`
	IsFirstLogin         bool               `bson:"isFirstLogin"`
	VerificationToken    string             `bson:"verificationToken,omitempty"`
	IsVerified           bool               `bson:"isVerified"`
	HasTemporaryPassword bool               `bson:"hasTemporaryPassword,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		FirstName:            u.FirstName,
		LastName:             u.LastName,
		Email:                domain.NormalizeEmail(u.Email),
		Password:             u.PasswordHash,
		Phone:                u.Phone,
		ImageURL:             u.ImageURL,
		Role:                 string(u.Role),
		UserType:             string(u.UserType),
		SocialSignIn:         u.SocialSignIn,
		IsFirstLogin:         u.IsFirstLogin,
		VerificationToken:    u.VerificationToken,
		IsVerified:           u.IsVerified,
		HasTemporaryPassword: u.HasTemporaryPassword,
		CreatedAt:            u.CreatedAt,
		UpdatedAt:            u.UpdatedAt,
	}
}

func (m mongoUser) toDomain() *domain.User {
	role := domain.Role(m.Role)
	if role == "" {
		role = domain.RoleUser
	}
	userType := domain.UserType(m.UserType)
	if userType == "" {
		userType = domain.UserTypeVisitor
	}
	return &domain.User{
		ID:                   m.ID.Hex(),
		FirstName:            m.FirstName,
		LastName:             m.LastName,
		Email:                m.Email,
		PasswordHash:         m.Password,
		Phone:                m.Phone,
		ImageURL:             m.ImageURL,
		Role:                 role,
		UserType:             userType,
		SocialSignIn:         m.SocialSignIn,
		IsFirstLogin:         m.IsFirstLogin,
		VerificationToken:    m.VerificationToken,
		IsVerified:           m.IsVerified,
		HasTemporaryPassword: m.HasTemporaryPassword,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	doc.ID = primitive.NewObjectID()
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return []*domain.User{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}})
}

// Update writes every mutable field of user.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	oid, ok := objectID(user.ID)
	if !ok {
		return domain.ErrUserNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(user)
	doc.ID = oid
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrUserNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SearchVerified(ctx context.Context, query, excludeID string) ([]*domain.User, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{
		"isVerified": true,
		"$or": bson.A{
			bson.M{"firstName": pattern},
			bson.M{"lastName": pattern},
		},
	}
	if oid, ok := objectID(excludeID); ok {
		filter["_id"] = bson.M{"$ne": oid}
	}
	return r.find(ctx, filter)
}

func (r *UserRepository) ListVerified(ctx context.Context) ([]*domain.User, error) {
	return r.find(ctx, bson.M{"isVerified": true})
}

func (r *UserRepository) find(ctx context.Context, filter bson.M) ([]*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "firstName", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []mongoUser
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	users := make([]*domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toDomain())
	}
	return users, nil
}
