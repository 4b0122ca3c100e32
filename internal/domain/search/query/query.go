package query

import (
	"fmt"
	"math"
	"strings"

	"github.com/foodtravel/foodmcp/internal/domain"
)

// Search defaults applied when a parameter is absent (zero or negative).
const (
	DefaultRadiusKm   = 10.0
	DefaultMaxResults = 10
)

// Query is a validated restaurant search.
type Query struct {
	location   string
	category   string
	radiusKm   float64
	maxResults int
}

// New validates and normalizes search parameters.
// radiusKm <= 0 (or NaN) and maxResults <= 0 mean "not set" and take the package defaults.
func New(location, category string, radiusKm float64, maxResults int) (Query, error) {
	return NewWithDefaults(location, category, radiusKm, maxResults, DefaultRadiusKm, DefaultMaxResults)
}

// NewWithDefaults is New with caller-supplied defaults.
func NewWithDefaults(
	location, category string,
	radiusKm float64, maxResults int,
	defaultRadiusKm float64, defaultMaxResults int,
) (Query, error) {
	if strings.TrimSpace(location) == "" {
		return Query{}, fmt.Errorf("%w: location is required", domain.ErrInvalidArgument)
	}
	if defaultRadiusKm <= 0 || math.IsNaN(defaultRadiusKm) {
		defaultRadiusKm = DefaultRadiusKm
	}
	if defaultMaxResults <= 0 {
		defaultMaxResults = DefaultMaxResults
	}
	if radiusKm <= 0 || math.IsNaN(radiusKm) {
		radiusKm = defaultRadiusKm
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return Query{
		location:   location,
		category:   strings.TrimSpace(category),
		radiusKm:   radiusKm,
		maxResults: maxResults,
	}, nil
}

// Location returns the free-form location ("New York, NY" or "lat,lng"), passed to the provider as-is.
func (q *Query) Location() string { return q.location }

// Category returns the cuisine filter, empty for none.
func (q *Query) Category() string { return q.category }

// RadiusKm returns the search radius in kilometers.
func (q *Query) RadiusKm() float64 { return q.radiusKm }

// RadiusMeters converts the radius to whole meters (truncated), saturating at math.MaxInt32.
func (q *Query) RadiusMeters() int {
	m := q.radiusKm * 1000
	if m >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int(m)
}

// MaxResults returns the result cap.
func (q *Query) MaxResults() int { return q.maxResults }
