package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/sould/property-match/internal/core/ports"
)

// DefaultRetention is how long a soft-deleted listing is kept before purge.
const DefaultRetention = 14 * 24 * time.Hour

// SweepResult counts the documents removed by one sweep.
type SweepResult struct {
	Properties int64
	Comments   int64
	Selections int64
}

// SweepService purges listings soft-deleted longer than the retention
// period, together with their comments and selections. Running it twice is
// harmless.
type SweepService struct {
	properties ports.PropertyRepository
	selections ports.SelectionRepository
	comments   ports.CommentRepository
	retention  time.Duration
	logger     zerolog.Logger
}

func NewSweepService(
	properties ports.PropertyRepository,
	selections ports.SelectionRepository,
	comments ports.CommentRepository,
	retention time.Duration,
	logger zerolog.Logger,
) *SweepService {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &SweepService{
		properties: properties,
		selections: selections,
		comments:   comments,
		retention:  retention,
		logger:     logger,
	}
}

// Sweep deletes dependents first so an interrupted run never leaves comments
// or selections pointing at a purged listing.
func (s *SweepService) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult

	ids, err := s.properties.ListPurgeable(ctx, now.Add(-s.retention))
	if err != nil {
		return res, err
	}
	if len(ids) == 0 {
		s.logger.Debug().Msg("sweep: nothing to purge")
		return res, nil
	}

	if res.Comments, err = s.comments.DeleteByProperties(ctx, ids); err != nil {
		return res, err
	}
	if res.Selections, err = s.selections.DeleteByProperties(ctx, ids); err != nil {
		return res, err
	}
	if res.Properties, err = s.properties.DeleteByIDs(ctx, ids); err != nil {
		return res, err
	}

	s.logger.Info().
		Int64("properties", res.Properties).
		Int64("comments", res.Comments).
		Int64("selections", res.Selections).
		Msg("sweep: purged deleted properties")
	return res, nil
}
