package restaurantcache

import (
	"context"
	"fmt"
	"time"

	"github.com/foodtravel/foodmcp/internal/domain"
	"github.com/foodtravel/foodmcp/internal/domain/restaurant"
)

// KeyPrefix namespaces cache hashes.
const KeyPrefix = TableName + ":"

// HashStore is the subset of the Redis store the hash repository needs.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
}

// HashRepository stores one hash per place at restaurant_cache:<place_id>.
type HashRepository struct {
	store HashStore
	now   func() time.Time
}

// NewHashRepository creates a repository over a hash store.
func NewHashRepository(store HashStore) *HashRepository {
	return &HashRepository{store: store, now: time.Now}
}

// Key returns the hash key for placeID.
func Key(placeID string) string {
	return KeyPrefix + placeID
}

// Upsert writes rec. created_at is written only when the hash is new.
func (r *HashRepository) Upsert(ctx context.Context, rec restaurant.CacheRecord) error {
	dto, err := toRow(&rec)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}
	now := r.now().UTC()
	dto.UpdatedAt = now

	key := Key(rec.PlaceID())
	if err := r.store.HSet(ctx, key, dto.toHash()); err != nil {
		return fmt.Errorf("write restaurant %s: %w", rec.PlaceID(), err)
	}
	if _, err := r.store.HSetNX(ctx, key, fieldCreatedAt, formatTime(now)); err != nil {
		return fmt.Errorf("write restaurant %s created_at: %w", rec.PlaceID(), err)
	}
	return nil
}

// Get returns the record for placeID, or domain.ErrNotFound.
func (r *HashRepository) Get(ctx context.Context, placeID string) (restaurant.CacheRecord, error) {
	m, err := r.store.HGetAll(ctx, Key(placeID))
	if err != nil {
		return restaurant.CacheRecord{}, fmt.Errorf("read restaurant %s: %w", placeID, err)
	}
	if len(m) == 0 {
		return restaurant.CacheRecord{}, fmt.Errorf("restaurant %s: %w", placeID, domain.ErrNotFound)
	}

	dto, err := rowFromHash(m)
	if err != nil {
		return restaurant.CacheRecord{}, fmt.Errorf("restaurant %s: %w", placeID, err)
	}
	return dto.toDomain()
}

// Delete removes the record for placeID.
func (r *HashRepository) Delete(ctx context.Context, placeID string) error {
	if err := r.store.Del(ctx, Key(placeID)); err != nil {
		return fmt.Errorf("delete restaurant %s: %w", placeID, err)
	}
	return nil
}
