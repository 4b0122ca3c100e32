package restaurantcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/foodtravel/foodmcp/internal/db"
	"github.com/foodtravel/foodmcp/internal/domain"
	"github.com/foodtravel/foodmcp/internal/domain/restaurant"
)

// SQLRepository stores cache records in the restaurant_cache table.
type SQLRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewSQLRepository creates a repository over an open gorm handle.
func NewSQLRepository(conn *gorm.DB) *SQLRepository {
	return &SQLRepository{db: conn, now: time.Now}
}

// EnsureSchema creates the table and its unique google_place_id index if missing.
func (r *SQLRepository) EnsureSchema(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&row{}); err != nil {
		return &db.Error{Op: db.OpMigrate, Err: err}
	}
	return nil
}

// Upsert inserts rec or updates the row with the same place id.
// created_at is set on insert only; updated_at on every write.
func (r *SQLRepository) Upsert(ctx context.Context, rec restaurant.CacheRecord) error {
	dto, err := toRow(&rec)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}
	now := r.now().UTC()
	dto.CreatedAt = now
	dto.UpdatedAt = now

	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: fieldPlaceID}},
			DoUpdates: clause.AssignmentColumns(updateColumns),
		}).
		Create(&dto).Error
	if err != nil {
		return &db.Error{Op: db.OpUpsert, Err: err}
	}
	return nil
}

// Get returns the record for placeID, or domain.ErrNotFound.
func (r *SQLRepository) Get(ctx context.Context, placeID string) (restaurant.CacheRecord, error) {
	var dto row
	err := r.db.WithContext(ctx).Where(fieldPlaceID+" = ?", placeID).Take(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return restaurant.CacheRecord{}, fmt.Errorf("restaurant %s: %w", placeID, domain.ErrNotFound)
		}
		return restaurant.CacheRecord{}, &db.Error{Op: db.OpSelect, Err: err}
	}
	return dto.toDomain()
}

// Delete removes the record for placeID. Missing records are not an error.
func (r *SQLRepository) Delete(ctx context.Context, placeID string) error {
	if err := r.db.WithContext(ctx).Where(fieldPlaceID+" = ?", placeID).Delete(&row{}).Error; err != nil {
		return &db.Error{Op: db.OpDelete, Err: err}
	}
	return nil
}
