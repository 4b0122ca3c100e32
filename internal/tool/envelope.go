package tool

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/foodtravel/foodmcp/internal/domain/restaurant"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// restaurantJSON is the wire shape of one restaurant in a tool response.
type restaurantJSON struct {
	GooglePlaceID    *string  `json:"google_place_id"`
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	PriceLevel       *int     `json:"price_level"`
	Types            []string `json:"types"`
}

type successEnvelope struct {
	Success      bool             `json:"success"`
	Location     string           `json:"location"`
	TotalResults int              `json:"total_results"`
	Restaurants  []restaurantJSON `json:"restaurants"`
}

type errorEnvelope struct {
	Success  bool   `json:"success"`
	Error    string `json:"error"`
	Location string `json:"location"`
}

func toRestaurantJSON(r restaurant.Restaurant) restaurantJSON {
	return restaurantJSON{
		GooglePlaceID:    placeID(r.PlaceID()),
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

func newSuccessEnvelope(location string, results []restaurant.Restaurant) successEnvelope {
	items := make([]restaurantJSON, 0, len(results))
	for _, r := range results {
		items = append(items, toRestaurantJSON(r))
	}
	return successEnvelope{
		Success:      true,
		Location:     location,
		TotalResults: len(items),
		Restaurants:  items,
	}
}

func marshalEnvelope(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// placeID maps an omitted provider id to null.
func placeID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
