package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/foodtravel/foodmcp/internal/domain/restaurant"
	"github.com/foodtravel/foodmcp/internal/domain/search/query"
	"github.com/foodtravel/foodmcp/internal/logger"
)

// Service runs restaurant searches against a places provider.
type Service struct {
	provider Provider
}

// New creates a search service.
func New(provider Provider) *Service {
	return &Service{provider: provider}
}

// Search converts the radius to meters, delegates to the provider and caps the
// result at q.MaxResults(), preserving provider order.
func (s *Service) Search(ctx context.Context, q query.Query) ([]restaurant.Restaurant, error) {
	log := logger.FromContext(ctx).With(
		zap.String("location", q.Location()),
		zap.String("cuisine", q.Category()),
		zap.Float64("radius_km", q.RadiusKm()),
	)
	log.Debug("searching restaurants")

	results, err := s.provider.SearchPlaces(ctx, q.Location(), q.RadiusMeters(), q.Category())
	if err != nil {
		return nil, fmt.Errorf("search places: %w", err)
	}
	if results == nil {
		results = []restaurant.Restaurant{}
	}

	log.Debug("restaurants found", zap.Int("total_found", len(results)))

	if limit := q.MaxResults(); limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
