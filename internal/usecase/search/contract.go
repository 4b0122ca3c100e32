package search

import (
	"context"

	"github.com/foodtravel/foodmcp/internal/domain/restaurant"
)

// Provider looks up restaurants near a location.
type Provider interface {
	SearchPlaces(ctx context.Context, location string, radiusMeters int, category string) ([]restaurant.Restaurant, error)
}
