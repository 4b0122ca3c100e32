package places

import (
	"fmt"
	"slices"

	"github.com/spf13/cast"

	"github.com/foodtravel/foodmcp/internal/domain"
	"github.com/foodtravel/foodmcp/internal/domain/restaurant"
)

// normalizePlace maps one raw Text Search result onto a Restaurant.
// Missing fields take their defaults, place_id included. A record that is not
// an object or carries a field of the wrong shape is ErrMalformedResult.
func normalizePlace(raw any) (restaurant.Restaurant, error) {
	place, ok := raw.(map[string]any)
	if !ok {
		return restaurant.Restaurant{}, fmt.Errorf("%w: record is %T, not an object", domain.ErrMalformedResult, raw)
	}

	placeID, err := cast.ToStringE(place["place_id"])
	if err != nil {
		return restaurant.Restaurant{}, malformed(placeID, "place_id", err)
	}
	name, err := cast.ToStringE(place["name"])
	if err != nil {
		return restaurant.Restaurant{}, malformed(placeID, "name", err)
	}
	address, err := cast.ToStringE(place["formatted_address"])
	if err != nil {
		return restaurant.Restaurant{}, malformed(placeID, "formatted_address", err)
	}

	coords, err := coordinates(place["geometry"])
	if err != nil {
		return restaurant.Restaurant{}, malformed(placeID, "geometry", err)
	}

	var rating float64
	if v, ok := place["rating"]; ok && v != nil {
		if rating, err = cast.ToFloat64E(v); err != nil {
			return restaurant.Restaurant{}, malformed(placeID, "rating", err)
		}
	}

	var ratingCount int
	if v, ok := place["user_ratings_total"]; ok && v != nil {
		if ratingCount, err = cast.ToIntE(v); err != nil {
			return restaurant.Restaurant{}, malformed(placeID, "user_ratings_total", err)
		}
	}

	var priceLevel *int
	if v, ok := place["price_level"]; ok && v != nil {
		p, err := cast.ToIntE(v)
		if err != nil {
			return restaurant.Restaurant{}, malformed(placeID, "price_level", err)
		}
		priceLevel = &p
	}

	types := []string{}
	if v, ok := place["types"]; ok && v != nil {
		if types, err = stringList(v); err != nil {
			return restaurant.Restaurant{}, malformed(placeID, "types", err)
		}
	}

	return restaurant.NewResult(placeID, name, address, coords, rating, ratingCount, priceLevel, types), nil
}

// coordinates extracts geometry.location.{lat,lng}. Absent or null geometry yields nil.
func coordinates(geometry any) (*restaurant.Coordinates, error) {
	if geometry == nil {
		return nil, nil
	}
	g, ok := geometry.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("geometry is %T, not an object", geometry)
	}
	rawLoc, ok := g["location"]
	if !ok || rawLoc == nil {
		return nil, nil
	}
	loc, ok := rawLoc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("geometry.location is %T, not an object", rawLoc)
	}

	coords := &restaurant.Coordinates{}
	if v, ok := loc["lat"]; ok && v != nil {
		lat, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("lat: %w", err)
		}
		coords.Latitude = &lat
	}
	if v, ok := loc["lng"]; ok && v != nil {
		lng, err := cast.ToFloat64E(v)
		if err != nil {
			return nil, fmt.Errorf("lng: %w", err)
		}
		coords.Longitude = &lng
	}
	return coords, nil
}

// stringList accepts only a JSON array. Non-string entries are skipped.
func stringList(v any) ([]string, error) {
	switch list := v.(type) {
	case []string:
		return slices.Clone(list), nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%T is not a list", v)
	}
}

func malformed(placeID, field string, err error) error {
	return fmt.Errorf("%w: place %s: %s: %w", domain.ErrMalformedResult, placeID, field, err)
}
