package restaurant

import (
	"encoding/json"
	"slices"
	"time"
)

// Details holds the fields a cache record stores beyond a search result.
type Details struct {
	Phone        string
	Website      string
	OpeningHours json.RawMessage // provider-defined structure, stored verbatim
	Photos       []string        // opaque photo references, provider order
}

// CacheRecord is the persisted shape of a restaurant in restaurant_cache.
// PlaceID is the natural key; timestamps are owned by the storage layer.
type CacheRecord struct {
	Restaurant
	details   Details
	createdAt time.Time
	updatedAt time.Time
}

// NewCacheRecord builds a record ready to be written. Timestamps are left zero.
func NewCacheRecord(r Restaurant, d Details) CacheRecord {
	return CacheRecord{Restaurant: r, details: cloneDetails(d)}
}

// ReconstructCacheRecord creates a record without validation (storage hydration).
func ReconstructCacheRecord(r Restaurant, d Details, createdAt, updatedAt time.Time) CacheRecord {
	return CacheRecord{Restaurant: r, details: d, createdAt: createdAt, updatedAt: updatedAt}
}

// Details returns the extended place details.
func (c *CacheRecord) Details() Details { return cloneDetails(c.details) }

// CreatedAt returns when the record was first written.
func (c *CacheRecord) CreatedAt() time.Time { return c.createdAt }

// UpdatedAt returns when the record was last written.
func (c *CacheRecord) UpdatedAt() time.Time { return c.updatedAt }

func cloneDetails(d Details) Details {
	return Details{
		Phone:        d.Phone,
		Website:      d.Website,
		OpeningHours: slices.Clone(d.OpeningHours),
		Photos:       slices.Clone(d.Photos),
	}
}
