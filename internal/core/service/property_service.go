package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
	"github.com/sould/property-match/internal/core/search"
)

type PropertyService struct {
	properties ports.PropertyRepository
	selections ports.SelectionRepository
	filters    ports.FilterRepository
	gate       *AccessGate
	logger     zerolog.Logger
}

func NewPropertyService(
	properties ports.PropertyRepository,
	selections ports.SelectionRepository,
	filters ports.FilterRepository,
	gate *AccessGate,
	logger zerolog.Logger,
) *PropertyService {
	return &PropertyService{
		properties: properties,
		selections: selections,
		filters:    filters,
		gate:       gate,
		logger:     logger,
	}
}

// Search runs the user's saved filter, excluding listings the user already
// liked or disliked.
func (s *PropertyService) Search(ctx context.Context, userID string, page ports.Page) (*ports.PropertyPage, error) {
	return s.search(ctx, userID, nil, page)
}

// SearchByLocation runs the saved filter with its geo term replaced by a
// distance query around location.
func (s *PropertyService) SearchByLocation(ctx context.Context, userID string, location domain.Location, page ports.Page) (*ports.PropertyPage, error) {
	return s.search(ctx, userID, &location, page)
}

func (s *PropertyService) search(ctx context.Context, userID string, location *domain.Location, page ports.Page) (*ports.PropertyPage, error) {
	filter, err := s.filters.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	excluded, err := s.selections.PropertyIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := search.Compile(filter, search.Options{Excluded: excluded, Location: location})
	page = ports.NewPage(page.Number, page.Limit)

	result, err := s.properties.Search(ctx, query, page)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("property search failed")
		return nil, err
	}
	return result, nil
}

// SetSelection records a like or dislike. A property can be selected once per
// user; a second selection returns domain.ErrSelectionExists.
func (s *PropertyService) SetSelection(ctx context.Context, userID, propertyID string, status domain.SelectionStatus) (*domain.PropertySelection, error) {
	if propertyID == "" {
		return nil, domain.ErrMissingID
	}
	if status != domain.SelectionLiked && status != domain.SelectionDisliked {
		return nil, domain.ErrMissingFields
	}

	now := time.Now().UTC()
	sel := &domain.PropertySelection{
		UserID:     userID,
		PropertyID: propertyID,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.selections.Create(ctx, sel); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", userID).Str("property_id", propertyID).Str("status", string(status)).Msg("property selected")
	return sel, nil
}

// Selections returns the user's own selections with their listings.
func (s *PropertyService) Selections(ctx context.Context, userID string) ([]ports.SelectionView, error) {
	return s.selectionsOf(ctx, userID)
}

// ClientSelections returns ownerID's selections when viewerID holds an
// accepted invitation to ownerID. The owner's selections are not read
// otherwise.
func (s *PropertyService) ClientSelections(ctx context.Context, viewerID, ownerID string) ([]ports.SelectionView, error) {
	if ownerID == "" {
		return nil, domain.ErrMissingID
	}
	ok, err := s.gate.CanView(ctx, viewerID, ownerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.Warn().Str("viewer_id", viewerID).Str("owner_id", ownerID).Msg("client selections denied")
		return nil, domain.ErrNoClientAccess
	}
	return s.selectionsOf(ctx, ownerID)
}

func (s *PropertyService) selectionsOf(ctx context.Context, userID string) ([]ports.SelectionView, error) {
	sels, err := s.selections.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]ports.SelectionView, 0, len(sels))
	if len(sels) == 0 {
		return views, nil
	}

	ids := make([]string, len(sels))
	for i, sel := range sels {
		ids[i] = sel.PropertyID
	}
	props, err := s.properties.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Property, len(props))
	for i := range props {
		byID[props[i].ID] = &props[i]
	}

	for _, sel := range sels {
		views = append(views, ports.SelectionView{Selection: sel, Property: byID[sel.PropertyID]})
	}
	return views, nil
}

// DeleteSelection removes the user's selection of propertyID, making the
// listing searchable again.
func (s *PropertyService) DeleteSelection(ctx context.Context, userID, propertyID string) error {
	if propertyID == "" {
		return domain.ErrMissingID
	}
	return s.selections.Delete(ctx, userID, propertyID)
}
