package restaurantcache

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/foodtravel/foodmcp/internal/domain/restaurant"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Hash field names, shared with the SQL column names.
const (
	fieldPlaceID      = "google_place_id"
	fieldName         = "name"
	fieldAddress      = "address"
	fieldLatitude     = "latitude"
	fieldLongitude    = "longitude"
	fieldPhone        = "phone"
	fieldWebsite      = "website"
	fieldRating       = "rating"
	fieldRatingsTotal = "user_ratings_total"
	fieldPriceLevel   = "price_level"
	fieldCuisineTypes = "cuisine_types"
	fieldOpeningHours = "opening_hours"
	fieldPhotos       = "photos"
	fieldCreatedAt    = "created_at"
	fieldUpdatedAt    = "updated_at"
)

// row is the storage form of a CacheRecord and the gorm model of restaurant_cache.
// List and object columns hold JSON text.
type row struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"`
	PlaceID      string          `gorm:"column:google_place_id;type:varchar(255);not null;uniqueIndex:ix_restaurant_cache_google_place_id"`
	Name         string          `gorm:"type:varchar(255);not null"`
	Address      sql.NullString  `gorm:"type:text"`
	Latitude     sql.NullFloat64 `gorm:"type:real"`
	Longitude    sql.NullFloat64 `gorm:"type:real"`
	Phone        sql.NullString  `gorm:"type:varchar(50)"`
	Website      sql.NullString  `gorm:"type:varchar(500)"`
	Rating       float64         `gorm:"type:real;default:0"`
	RatingsTotal int64           `gorm:"column:user_ratings_total;type:integer;default:0"`
	PriceLevel   sql.NullInt64   `gorm:"type:integer"`
	CuisineTypes sql.NullString  `gorm:"type:text"`
	OpeningHours sql.NullString  `gorm:"type:text"`
	Photos       sql.NullString  `gorm:"type:text"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName binds the model to restaurant_cache.
func (row) TableName() string {
	return TableName
}

var errMissingPlaceID = errors.New("google_place_id is required")

func toRow(rec *restaurant.CacheRecord) (row, error) {
	if rec.PlaceID() == "" {
		return row{}, errMissingPlaceID
	}
	d := rec.Details()

	cuisine, err := json.Marshal(rec.Categories())
	if err != nil {
		return row{}, fmt.Errorf("encode cuisine_types: %w", err)
	}
	r := row{
		PlaceID:      rec.PlaceID(),
		Name:         rec.Name(),
		Address:      nullString(rec.Address()),
		Phone:        nullString(d.Phone),
		Website:      nullString(d.Website),
		Rating:       rec.Rating(),
		RatingsTotal: int64(rec.RatingCount()),
		CuisineTypes: nullString(string(cuisine)),
	}
	if lat := rec.Latitude(); lat != nil {
		r.Latitude = sql.NullFloat64{Float64: *lat, Valid: true}
	}
	if lng := rec.Longitude(); lng != nil {
		r.Longitude = sql.NullFloat64{Float64: *lng, Valid: true}
	}
	if p := rec.PriceLevel(); p != nil {
		r.PriceLevel = sql.NullInt64{Int64: int64(*p), Valid: true}
	}
	if len(d.OpeningHours) > 0 {
		r.OpeningHours = nullString(string(d.OpeningHours))
	}
	if d.Photos != nil {
		photos, err := json.Marshal(d.Photos)
		if err != nil {
			return row{}, fmt.Errorf("encode photos: %w", err)
		}
		r.Photos = nullString(string(photos))
	}
	return r, nil
}

func (r *row) toDomain() (restaurant.CacheRecord, error) {
	var coords *restaurant.Coordinates
	if r.Latitude.Valid || r.Longitude.Valid {
		coords = &restaurant.Coordinates{}
		if r.Latitude.Valid {
			coords.Latitude = &r.Latitude.Float64
		}
		if r.Longitude.Valid {
			coords.Longitude = &r.Longitude.Float64
		}
	}

	var priceLevel *int
	if r.PriceLevel.Valid {
		p := int(r.PriceLevel.Int64)
		priceLevel = &p
	}

	var categories []string
	if r.CuisineTypes.Valid && r.CuisineTypes.String != "" {
		if err := json.Unmarshal([]byte(r.CuisineTypes.String), &categories); err != nil {
			return restaurant.CacheRecord{}, fmt.Errorf("decode cuisine_types: %w", err)
		}
	}

	base, err := restaurant.New(
		r.PlaceID, r.Name, r.Address.String, coords,
		r.Rating, int(r.RatingsTotal), priceLevel, categories,
	)
	if err != nil {
		return restaurant.CacheRecord{}, err
	}

	d := restaurant.Details{Phone: r.Phone.String, Website: r.Website.String}
	if r.OpeningHours.Valid && r.OpeningHours.String != "" {
		d.OpeningHours = []byte(r.OpeningHours.String)
	}
	if r.Photos.Valid && r.Photos.String != "" {
		if err := json.Unmarshal([]byte(r.Photos.String), &d.Photos); err != nil {
			return restaurant.CacheRecord{}, fmt.Errorf("decode photos: %w", err)
		}
	}

	return restaurant.ReconstructCacheRecord(base, d, r.CreatedAt, r.UpdatedAt), nil
}

// toHash flattens a row into hash fields. NULLs become empty strings.
func (r *row) toHash() map[string]string {
	m := map[string]string{
		fieldPlaceID:      r.PlaceID,
		fieldName:         r.Name,
		fieldAddress:      r.Address.String,
		fieldLatitude:     "",
		fieldLongitude:    "",
		fieldPhone:        r.Phone.String,
		fieldWebsite:      r.Website.String,
		fieldRating:       strconv.FormatFloat(r.Rating, 'f', -1, 64),
		fieldRatingsTotal: strconv.FormatInt(r.RatingsTotal, 10),
		fieldPriceLevel:   "",
		fieldCuisineTypes: r.CuisineTypes.String,
		fieldOpeningHours: r.OpeningHours.String,
		fieldPhotos:       r.Photos.String,
		fieldUpdatedAt:    formatTime(r.UpdatedAt),
	}
	if r.Latitude.Valid {
		m[fieldLatitude] = strconv.FormatFloat(r.Latitude.Float64, 'f', -1, 64)
	}
	if r.Longitude.Valid {
		m[fieldLongitude] = strconv.FormatFloat(r.Longitude.Float64, 'f', -1, 64)
	}
	if r.PriceLevel.Valid {
		m[fieldPriceLevel] = strconv.FormatInt(r.PriceLevel.Int64, 10)
	}
	return m
}

func rowFromHash(m map[string]string) (row, error) {
	r := row{
		PlaceID:      m[fieldPlaceID],
		Name:         m[fieldName],
		Address:      nullString(m[fieldAddress]),
		Phone:        nullString(m[fieldPhone]),
		Website:      nullString(m[fieldWebsite]),
		CuisineTypes: nullString(m[fieldCuisineTypes]),
		OpeningHours: nullString(m[fieldOpeningHours]),
		Photos:       nullString(m[fieldPhotos]),
	}

	var err error
	if r.CreatedAt, err = parseTime(m[fieldCreatedAt]); err != nil {
		return row{}, fmt.Errorf("decode %s: %w", fieldCreatedAt, err)
	}
	if r.UpdatedAt, err = parseTime(m[fieldUpdatedAt]); err != nil {
		return row{}, fmt.Errorf("decode %s: %w", fieldUpdatedAt, err)
	}
	if v := m[fieldRating]; v != "" {
		if r.Rating, err = strconv.ParseFloat(v, 64); err != nil {
			return row{}, fmt.Errorf("decode %s: %w", fieldRating, err)
		}
	}
	if v := m[fieldRatingsTotal]; v != "" {
		if r.RatingsTotal, err = strconv.ParseInt(v, 10, 64); err != nil {
			return row{}, fmt.Errorf("decode %s: %w", fieldRatingsTotal, err)
		}
	}
	if v := m[fieldLatitude]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return row{}, fmt.Errorf("decode %s: %w", fieldLatitude, err)
		}
		r.Latitude = sql.NullFloat64{Float64: f, Valid: true}
	}
	if v := m[fieldLongitude]; v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return row{}, fmt.Errorf("decode %s: %w", fieldLongitude, err)
		}
		r.Longitude = sql.NullFloat64{Float64: f, Valid: true}
	}
	if v := m[fieldPriceLevel]; v != "" {
		p, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return row{}, fmt.Errorf("decode %s: %w", fieldPriceLevel, err)
		}
		r.PriceLevel = sql.NullInt64{Int64: p, Valid: true}
	}
	return r, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
