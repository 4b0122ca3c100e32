package tool

import (
	"context"

	"github.com/foodtravel/foodmcp/internal/domain/restaurant"
	"github.com/foodtravel/foodmcp/internal/domain/search/query"
)

// Searcher runs a restaurant search.
type Searcher interface {
	Search(ctx context.Context, q query.Query) ([]restaurant.Restaurant, error)
}
