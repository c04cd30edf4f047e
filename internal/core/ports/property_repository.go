package ports

import (
	"context"
	"time"

	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/search"
)

// PropertyRepository reads listings and purges soft-deleted ones. Properties
// are addressed by their feed id.
type PropertyRepository interface {
	Search(ctx context.Context, query search.Node, page Page) (*PropertyPage, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.Property, error)
	// ListPurgeable returns ids of properties soft-deleted at or before cutoff.
	ListPurgeable(ctx context.Context, cutoff time.Time) ([]string, error)
	// DeleteByIDs removes the given properties if they are still soft-deleted.
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
}

// SelectionRepository persists like/dislike decisions. Create returns
// domain.ErrSelectionExists when the user already selected the property.
type SelectionRepository interface {
	Create(ctx context.Context, selection *domain.PropertySelection) error
	ListByUser(ctx context.Context, userID string) ([]domain.PropertySelection, error)
	PropertyIDs(ctx context.Context, userID string) ([]string, error)
	Delete(ctx context.Context, userID, propertyID string) error
	DeleteByProperties(ctx context.Context, propertyIDs []string) (int64, error)
}

// CommentRepository persists listing comments. Lookups return
// domain.ErrCommentNotFound.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id string) (*domain.Comment, error)
	UpdateText(ctx context.Context, id, text string, at time.Time) error
	Delete(ctx context.Context, id string) error
	ListByPropertyAndAuthors(ctx context.Context, propertyID string, authorIDs []string) ([]domain.Comment, error)
	DeleteByProperties(ctx context.Context, propertyIDs []string) (int64, error)
}
