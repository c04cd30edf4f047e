package ports

import (
	"context"

	"github.com/sould/property-match/internal/core/domain"
)

// SelectionView pairs a selection with its listing. Property is nil when the
// listing was purged.
type SelectionView struct {
	Selection domain.PropertySelection
	Property  *domain.Property
}

// PropertyService defines search and selection use cases.
type PropertyService interface {
	Search(ctx context.Context, userID string, page Page) (*PropertyPage, error)
	SearchByLocation(ctx context.Context, userID string, location domain.Location, page Page) (*PropertyPage, error)

	SetSelection(ctx context.Context, userID, propertyID string, status domain.SelectionStatus) (*domain.PropertySelection, error)
	Selections(ctx context.Context, userID string) ([]SelectionView, error)
	ClientSelections(ctx context.Context, viewerID, ownerID string) ([]SelectionView, error)
	DeleteSelection(ctx context.Context, userID, propertyID string) error
}

// CommentView pairs a comment with its author. Author is nil when the account
// no longer exists.
type CommentView struct {
	Comment domain.Comment
	Author  *domain.User
}

// CommentService defines the gated comment use cases.
type CommentService interface {
	List(ctx context.Context, userID, propertyID string) ([]CommentView, error)
	Create(ctx context.Context, userID, propertyID, text string) (*domain.Comment, error)
	Update(ctx context.Context, userID, commentID, text string) (*domain.Comment, error)
	Delete(ctx context.Context, userID, commentID string) error
}

// FilterService defines saved-filter use cases.
type FilterService interface {
	Get(ctx context.Context, userID string) (*domain.Filter, error)
	Set(ctx context.Context, userID string, filter *domain.Filter) (*domain.Filter, error)
}
