package ports

import (
	"context"

	"github.com/sould/property-match/internal/core/domain"
)

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID string
	Role   domain.Role
}

// UserService defines profile and account administration use cases.
// Administration methods require the super_admin role.
type UserService interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update domain.ProfileUpdate) (*domain.User, error)
	SetUserType(ctx context.Context, userID string, userType domain.UserType) (*domain.User, error)
	Search(ctx context.Context, userID, query string) ([]*domain.User, error)
	DeleteSelf(ctx context.Context, userID string) error

	ListVerified(ctx context.Context, actor Actor) ([]*domain.User, error)
	SetAdmin(ctx context.Context, actor Actor, targetID string, admin bool) (*domain.User, error)
	Delete(ctx context.Context, actor Actor, targetID string) error
}
