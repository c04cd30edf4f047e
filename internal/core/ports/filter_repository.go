package ports

import (
	"context"

	"github.com/sould/property-match/internal/core/domain"
)

// FilterRepository stores at most one filter per user.
type FilterRepository interface {
	// FindByUser returns nil, nil when the user has no saved filter.
	FindByUser(ctx context.Context, userID string) (*domain.Filter, error)
	// Upsert replaces the user's filter, creating it when absent.
	Upsert(ctx context.Context, filter *domain.Filter) (*domain.Filter, error)
}
