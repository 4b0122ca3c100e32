package restaurant

import (
	"errors"
	"slices"
)

// Restaurant is a normalized place returned by a search (immutable value object).
type Restaurant struct {
	placeID     string
	name        string
	address     string
	latitude    *float64
	longitude   *float64
	rating      float64
	ratingCount int
	priceLevel  *int
	categories  []string
}

// Coordinates is an optional point attached to a restaurant.
// A nil *Coordinates means the provider returned no geometry.
type Coordinates struct {
	Latitude  *float64
	Longitude *float64
}

// New creates a Restaurant for storage. placeID is the cache natural key and must be non-empty.
// A nil categories slice is stored as an empty one.
func New(
	placeID, name, address string,
	coords *Coordinates,
	rating float64, ratingCount int,
	priceLevel *int,
	categories []string,
) (Restaurant, error) {
	if placeID == "" {
		return Restaurant{}, errors.New("place id is required")
	}
	return NewResult(placeID, name, address, coords, rating, ratingCount, priceLevel, categories), nil
}

// NewResult creates a transient search result. Unlike New it accepts an empty
// placeID: the provider may omit it and the record is still returned to callers.
func NewResult(
	placeID, name, address string,
	coords *Coordinates,
	rating float64, ratingCount int,
	priceLevel *int,
	categories []string,
) Restaurant {
	r := Restaurant{
		placeID:     placeID,
		name:        name,
		address:     address,
		rating:      rating,
		ratingCount: ratingCount,
		priceLevel:  cloneInt(priceLevel),
		categories:  slices.Clone(categories),
	}
	if r.categories == nil {
		r.categories = []string{}
	}
	if coords != nil {
		r.latitude = cloneFloat(coords.Latitude)
		r.longitude = cloneFloat(coords.Longitude)
	}
	return r
}

// PlaceID returns the provider place identifier, empty if the provider omitted it.
func (r *Restaurant) PlaceID() string { return r.placeID }

// Name returns the display name.
func (r *Restaurant) Name() string { return r.name }

// Address returns the provider-formatted address.
func (r *Restaurant) Address() string { return r.address }

// Latitude returns the latitude, nil if the provider omitted it.
func (r *Restaurant) Latitude() *float64 { return cloneFloat(r.latitude) }

// Longitude returns the longitude, nil if the provider omitted it.
func (r *Restaurant) Longitude() *float64 { return cloneFloat(r.longitude) }

// Rating returns the average rating (0 when unrated).
func (r *Restaurant) Rating() float64 { return r.rating }

// RatingCount returns the number of user ratings.
func (r *Restaurant) RatingCount() int { return r.ratingCount }

// PriceLevel returns the provider price ordinal, nil if unknown.
func (r *Restaurant) PriceLevel() *int { return cloneInt(r.priceLevel) }

// Categories returns provider tags in provider order.
func (r *Restaurant) Categories() []string { return slices.Clone(r.categories) }

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
