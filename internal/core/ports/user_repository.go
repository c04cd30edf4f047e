package ports

import (
	"context"

	"github.com/sould/property-match/internal/core/domain"
)

// UserRepository persists accounts. Emails are stored normalized and are
// unique; Create returns domain.ErrUserExists on a duplicate and lookups
// return domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByIDs skips ids that do not resolve.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	// SearchVerified matches verified users by first or last name prefix,
	// excluding excludeID.
	SearchVerified(ctx context.Context, query, excludeID string) ([]*domain.User, error)
	ListVerified(ctx context.Context) ([]*domain.User, error)
}
