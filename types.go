package foodmcp

import "github.com/foodtravel/foodmcp/internal/domain/restaurant"

// SearchRequest describes one restaurant search.
// Zero RadiusKm and MaxResults take the client defaults.
type SearchRequest struct {
	Location    string // "New York, NY" or "lat,lng"
	CuisineType string
	RadiusKm    float64
	MaxResults  int
}

// Restaurant is one search result.
type Restaurant struct {
	PlaceID          string
	Name             string
	Address          string
	Latitude         *float64 // nil when the provider returned no geometry
	Longitude        *float64
	Rating           float64
	UserRatingsTotal int
	PriceLevel       *int
	Types            []string
}

func fromDomain(r *restaurant.Restaurant) Restaurant {
	return Restaurant{
		PlaceID:          r.PlaceID(),
		Name:             r.Name(),
		Address:          r.Address(),
		Latitude:         r.Latitude(),
		Longitude:        r.Longitude(),
		Rating:           r.Rating(),
		UserRatingsTotal: r.RatingCount(),
		PriceLevel:       r.PriceLevel(),
		Types:            r.Categories(),
	}
}
