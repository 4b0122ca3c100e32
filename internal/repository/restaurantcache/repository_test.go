package restaurantcache

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/foodtravel/foodmcp/internal/db/sqlite"
	"github.com/foodtravel/foodmcp/internal/domain"
	"github.com/foodtravel/foodmcp/internal/domain/restaurant"
)

// repository is the behavior both backends share.
type repository interface {
	Upsert(ctx context.Context, rec restaurant.CacheRecord) error
	Get(ctx context.Context, placeID string) (restaurant.CacheRecord, error)
	Delete(ctx context.Context, placeID string) error
}

// --- Mocks ---

type mockHashStore struct {
	data   map[string]map[string]string
	setErr error
}

func newMockHashStore() *mockHashStore {
	return &mockHashStore{data: make(map[string]map[string]string)}
}

func (m *mockHashStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.setErr != nil {
		return m.setErr
	}
	h, ok := m.data[key]
	if !ok {
		h = make(map[string]string)
		m.data[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *mockHashStore) HSetNX(_ context.Context, key, field, value string) (bool, error) {
	h, ok := m.data[key]
	if !ok {
		h = make(map[string]string)
		m.data[key] = h
	}
	if _, exists := h[field]; exists {
		return false, nil
	}
	h[field] = value
	return true, nil
}

func (m *mockHashStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	out := make(map[string]string)
	for k, v := range m.data[key] {
		out[k] = v
	}
	return out, nil
}

func (m *mockHashStore) Del(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

// clock hands out increasing timestamps.
type clock struct{ t time.Time }

func (c *clock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newSQLRepo(t *testing.T, c *clock) *SQLRepository {
	t.Helper()
	store, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(store.Close)

	repo := NewSQLRepository(store.DB())
	repo.now = c.now
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	return repo
}

func newHashRepo(c *clock) *HashRepository {
	repo := NewHashRepository(newMockHashStore())
	repo.now = c.now
	return repo
}

func backends(t *testing.T) map[string]func(*clock) repository {
	return map[string]func(*clock) repository{
		"sql":  func(c *clock) repository { return newSQLRepo(t, c) },
		"hash": func(c *clock) repository { return newHashRepo(c) },
	}
}

func fullRecord(t *testing.T, name string) restaurant.CacheRecord {
	t.Helper()
	lat, lng, price := 40.7128, -74.006, 3
	r, err := restaurant.New("place-1", name, "1 Main St",
		&restaurant.Coordinates{Latitude: &lat, Longitude: &lng},
		4.6, 321, &price, []string{"restaurant", "italian"})
	if err != nil {
		t.Fatalf("restaurant.New: %v", err)
	}
	return restaurant.NewCacheRecord(r, restaurant.Details{
		Phone:        "+1 212 555 0100",
		Website:      "https://example.com",
		OpeningHours: []byte(`{"open_now":true}`),
		Photos:       []string{"ref-a", "ref-b"},
	})
}

func sparseRecord(t *testing.T) restaurant.CacheRecord {
	t.Helper()
	r, err := restaurant.New("place-2", "Pop-up", "", nil, 0, 0, nil, nil)
	if err != nil {
		t.Fatalf("restaurant.New: %v", err)
	}
	return restaurant.NewCacheRecord(r, restaurant.Details{})
}

// --- Tests ---

func TestRepository_RoundTrip(t *testing.T) {
	for name, newRepo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(&clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
			ctx := context.Background()

			if err := repo.Upsert(ctx, fullRecord(t, "Trattoria")); err != nil {
				t.Fatalf("Upsert: %v", err)
			}
			got, err := repo.Get(ctx, "place-1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}

			if got.PlaceID() != "place-1" || got.Name() != "Trattoria" || got.Address() != "1 Main St" {
				t.Errorf("identity mismatch: %q %q %q", got.PlaceID(), got.Name(), got.Address())
			}
			if lat := got.Latitude(); lat == nil || *lat != 40.7128 {
				t.Errorf("latitude = %v", lat)
			}
			if lng := got.Longitude(); lng == nil || *lng != -74.006 {
				t.Errorf("longitude = %v", lng)
			}
			if got.Rating() != 4.6 || got.RatingCount() != 321 {
				t.Errorf("rating = %v/%d", got.Rating(), got.RatingCount())
			}
			if p := got.PriceLevel(); p == nil || *p != 3 {
				t.Errorf("price level = %v", p)
			}
			if !slices.Equal(got.Categories(), []string{"restaurant", "italian"}) {
				t.Errorf("categories = %v", got.Categories())
			}

			d := got.Details()
			if d.Phone != "+1 212 555 0100" || d.Website != "https://example.com" {
				t.Errorf("details = %+v", d)
			}
			if string(d.OpeningHours) != `{"open_now":true}` {
				t.Errorf("opening hours = %s", d.OpeningHours)
			}
			if !slices.Equal(d.Photos, []string{"ref-a", "ref-b"}) {
				t.Errorf("photos = %v", d.Photos)
			}
			if got.CreatedAt().IsZero() || !got.CreatedAt().Equal(got.UpdatedAt()) {
				t.Errorf("timestamps: created=%v updated=%v", got.CreatedAt(), got.UpdatedAt())
			}
		})
	}
}

func TestRepository_UpsertKeepsCreatedAt(t *testing.T) {
	for name, newRepo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(&clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
			ctx := context.Background()

			if err := repo.Upsert(ctx, fullRecord(t, "Old Name")); err != nil {
				t.Fatalf("first Upsert: %v", err)
			}
			first, err := repo.Get(ctx, "place-1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}

			if err := repo.Upsert(ctx, fullRecord(t, "New Name")); err != nil {
				t.Fatalf("second Upsert: %v", err)
			}
			second, err := repo.Get(ctx, "place-1")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}

			if second.Name() != "New Name" {
				t.Errorf("name = %q, want New Name", second.Name())
			}
			if !second.CreatedAt().Equal(first.CreatedAt()) {
				t.Errorf("created_at changed: %v -> %v", first.CreatedAt(), second.CreatedAt())
			}
			if !second.UpdatedAt().After(first.UpdatedAt()) {
				t.Errorf("updated_at not bumped: %v -> %v", first.UpdatedAt(), second.UpdatedAt())
			}
		})
	}
}

func TestRepository_SparseRecord(t *testing.T) {
	for name, newRepo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(&clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)})
			ctx := context.Background()

			if err := repo.Upsert(ctx, sparseRecord(t)); err != nil {
				t.Fatalf("Upsert: %v", err)
			}
			got, err := repo.Get(ctx, "place-2")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Latitude() != nil || got.Longitude() != nil || got.PriceLevel() != nil {
				t.Error("absent optional fields must stay absent")
			}
			if len(got.Categories()) != 0 {
				t.Errorf("categories = %v, want empty", got.Categories())
			}
			d := got.Details()
			if d.OpeningHours != nil || d.Photos != nil || d.Phone != "" {
				t.Errorf("details = %+v, want empty", d)
			}
		})
	}
}

func TestRepository_NotFound(t *testing.T) {
	for name, newRepo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(&clock{})
			_, err := repo.Get(context.Background(), "missing")
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestRepository_Delete(t *testing.T) {
	for name, newRepo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(&clock{})
			ctx := context.Background()

			if err := repo.Upsert(ctx, fullRecord(t, "Gone Soon")); err != nil {
				t.Fatalf("Upsert: %v", err)
			}
			if err := repo.Delete(ctx, "place-1"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := repo.Get(ctx, "place-1"); !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound after delete, got %v", err)
			}
		})
	}
}

func TestSQLRepository_EnsureSchemaIdempotent(t *testing.T) {
	repo := newSQLRepo(t, &clock{})
	if err := repo.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

func TestSQLRepository_EnsureSchemaCreatesUniqueIndex(t *testing.T) {
	repo := newSQLRepo(t, &clock{})
	if !repo.db.Migrator().HasIndex(&row{}, "ix_restaurant_cache_google_place_id") {
		t.Fatal("missing ix_restaurant_cache_google_place_id")
	}
}

func TestRepository_RejectsEmptyPlaceID(t *testing.T) {
	rec := restaurant.NewCacheRecord(
		restaurant.NewResult("", "No ID", "", nil, 0, 0, nil, nil),
		restaurant.Details{},
	)
	for name, newRepo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := newRepo(&clock{})
			err := repo.Upsert(context.Background(), rec)
			if !errors.Is(err, domain.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestHashRepository_Key(t *testing.T) {
	if got := Key("abc"); got != "restaurant_cache:abc" {
		t.Errorf("Key = %q", got)
	}
}

func TestHashRepository_WriteError(t *testing.T) {
	store := newMockHashStore()
	store.setErr = errors.New("connection reset")
	repo := NewHashRepository(store)

	if err := repo.Upsert(context.Background(), fullRecord(t, "X")); err == nil {
		t.Fatal("expected error")
	}
}
