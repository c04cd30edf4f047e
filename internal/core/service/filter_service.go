package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sould/property-match/internal/core/domain"
	"github.com/sould/property-match/internal/core/ports"
)

type FilterService struct {
	repo   ports.FilterRepository
	logger zerolog.Logger
}

func NewFilterService(repo ports.FilterRepository, logger zerolog.Logger) *FilterService {
	return &FilterService{repo: repo, logger: logger}
}

// Get returns the user's saved filter, or an empty filter when none is saved.
func (s *FilterService) Get(ctx context.Context, userID string) (*domain.Filter, error) {
	f, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if f == nil {
		return &domain.Filter{UserID: userID}, nil
	}
	return f, nil
}

// Set replaces the user's saved filter.
func (s *FilterService) Set(ctx context.Context, userID string, filter *domain.Filter) (*domain.Filter, error) {
	if filter == nil || isEmptyFilter(filter) {
		return nil, domain.ErrMissingFields
	}
	if filter.Location != nil && filter.Location.Radius < 0 {
		return nil, domain.NewError(domain.KindInvalid, "radius must not be negative")
	}
	for _, ht := range filter.HouseType {
		if !ht.Valid() {
			return nil, domain.NewError(domain.KindInvalid, "unknown house type: "+string(ht))
		}
	}

	f := *filter
	f.UserID = userID
	f.UpdatedAt = time.Now().UTC()

	saved, err := s.repo.Upsert(ctx, &f)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to save filter")
		return nil, err
	}
	s.logger.Info().Str("user_id", userID).Msg("filter saved")
	return saved, nil
}

func isEmptyFilter(f *domain.Filter) bool {
	return f.StreetAddress == "" &&
		f.Province == "" &&
		len(f.Bedroom) == 0 &&
		len(f.Bathroom) == 0 &&
		len(f.Parking) == 0 &&
		f.PriceRange == nil &&
		len(f.Keywords) == 0 &&
		len(f.HouseType) == 0 &&
		f.Location == nil
}
