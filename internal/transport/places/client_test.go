package places

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"go.uber.org/zap"

	"github.com/foodtravel/foodmcp/internal/domain"
	"github.com/foodtravel/foodmcp/internal/domain/search/query"
	"github.com/foodtravel/foodmcp/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.Register()
	os.Exit(m.Run())
}

const okBody = `{
  "status": "OK",
  "results": [
    {
      "place_id": "p1",
      "name": "Trattoria Uno",
      "formatted_address": "1 Main St",
      "geometry": {"location": {"lat": 40.71, "lng": -74.0}},
      "rating": 4.5,
      "user_ratings_total": 120,
      "price_level": 2,
      "types": ["restaurant", "food"]
    },
    {
      "place_id": "p2",
      "name": "No Geometry Diner"
    },
    {
      "name": "Missing ID"
    },
    "not-an-object",
    {
      "place_id": "p3",
      "geometry": "broken"
    }
  ]
}`

// recorder captures the query of the last provider request.
type recorder struct {
	mu    sync.Mutex
	query url.Values
	path  string
}

func (r *recorder) last() (string, url.Values) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.path, r.query
}

func newServer(t *testing.T, status int, body string) (*httptest.Server, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.path = r.URL.Path
		rec.query = r.URL.Query()
		rec.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func newClient(baseURL string, surface bool) *Client {
	return NewClient(&Config{
		APIKey:        "test-key",
		BaseURL:       baseURL,
		SurfaceErrors: surface,
		Logger:        zap.NewNop(),
	})
}

func TestSearchPlaces_RequestShape(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`)
	c := newClient(srv.URL, false)

	if _, err := c.SearchPlaces(context.Background(), "New York, NY", 5000, "Italian"); err != nil {
		t.Fatalf("SearchPlaces: %v", err)
	}

	path, q := rec.last()
	if path != "/textsearch/json" {
		t.Errorf("path = %q, want /textsearch/json", path)
	}
	want := map[string]string{
		"query":    "Italian restaurant",
		"location": "New York, NY",
		"radius":   "5000",
		"type":     "restaurant",
		"key":      "test-key",
	}
	for k, v := range want {
		if got := q.Get(k); got != v {
			t.Errorf("param %s = %q, want %q", k, got, v)
		}
	}
}

func TestSearchPlaces_RadiusClamped(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`)
	c := newClient(srv.URL, false)

	if _, err := c.SearchPlaces(context.Background(), "Paris", 120000, ""); err != nil {
		t.Fatalf("SearchPlaces: %v", err)
	}

	_, q := rec.last()
	if got := q.Get("radius"); got != "50000" {
		t.Errorf("radius = %q, want 50000", got)
	}
	if got := q.Get("query"); got != "restaurant" {
		t.Errorf("query = %q, want restaurant", got)
	}
}

func TestSearchPlaces_Normalizes(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, okBody)
	c := newClient(srv.URL, false)
	droppedBefore := testutil.ToFloat64(metrics.PlacesResultsDroppedTotal)

	got, err := c.SearchPlaces(context.Background(), "40.71,-74.0", 1000, "")
	if err != nil {
		t.Fatalf("SearchPlaces: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 restaurants (malformed dropped), got %d", len(got))
	}
	if dropped := testutil.ToFloat64(metrics.PlacesResultsDroppedTotal) - droppedBefore; dropped != 2 {
		t.Errorf("dropped = %v, want 2", dropped)
	}

	first := got[0]
	if first.PlaceID() != "p1" || first.Name() != "Trattoria Uno" || first.Address() != "1 Main St" {
		t.Errorf("unexpected identity: %q %q %q", first.PlaceID(), first.Name(), first.Address())
	}
	if lat := first.Latitude(); lat == nil || *lat != 40.71 {
		t.Errorf("latitude = %v, want 40.71", lat)
	}
	if lng := first.Longitude(); lng == nil || *lng != -74.0 {
		t.Errorf("longitude = %v, want -74.0", lng)
	}
	if first.Rating() != 4.5 || first.RatingCount() != 120 {
		t.Errorf("rating = %v/%d, want 4.5/120", first.Rating(), first.RatingCount())
	}
	if p := first.PriceLevel(); p == nil || *p != 2 {
		t.Errorf("price level = %v, want 2", p)
	}
	if cats := first.Categories(); len(cats) != 2 || cats[0] != "restaurant" {
		t.Errorf("categories = %v", cats)
	}

	second := got[1]
	if second.PlaceID() != "p2" {
		t.Errorf("second place = %q, want p2", second.PlaceID())
	}
	if second.Latitude() != nil || second.Longitude() != nil {
		t.Error("missing geometry should yield nil coordinates")
	}
	if second.Address() != "" || second.Rating() != 0 || second.RatingCount() != 0 {
		t.Error("missing optional fields should take zero defaults")
	}
	if second.PriceLevel() != nil {
		t.Error("missing price level should be nil")
	}
	if cats := second.Categories(); cats == nil || len(cats) != 0 {
		t.Errorf("categories = %v, want empty", cats)
	}
	third := got[2]
	if third.PlaceID() != "" || third.Name() != "Missing ID" {
		t.Errorf("record without place_id should be kept, got %q %q", third.PlaceID(), third.Name())
	}
}

func TestSearchPlaces_HugeRadiusClamped(t *testing.T) {
	srv, rec := newServer(t, http.StatusOK, `{"status":"ZERO_RESULTS","results":[]}`)
	c := newClient(srv.URL, false)

	q, err := query.New("Rome", "", 1e20, 1)
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	if _, err := c.SearchPlaces(context.Background(), q.Location(), q.RadiusMeters(), q.Category()); err != nil {
		t.Fatalf("SearchPlaces: %v", err)
	}

	_, params := rec.last()
	if got := params.Get("radius"); got != "50000" {
		t.Errorf("radius = %q, want 50000", got)
	}
}

func TestTextSearch_DurationObservedOnFailure(t *testing.T) {
	srv, _ := newServer(t, http.StatusInternalServerError, `oops`)
	c := newClient(srv.URL, true)
	before := histogramCount(t)

	if _, err := c.TextSearch(context.Background(), TextSearchRequest{Query: "restaurant"}); err == nil {
		t.Fatal("expected error")
	}
	if got := histogramCount(t) - before; got != 1 {
		t.Errorf("duration observations = %d, want 1", got)
	}
}

func histogramCount(t *testing.T) uint64 {
	t.Helper()
	m := &dto.Metric{}
	if err := metrics.PlacesRequestDuration.Write(m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

func TestSearchPlaces_SwallowsFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http 500", http.StatusInternalServerError, `oops`},
		{"request denied", http.StatusOK, `{"status":"REQUEST_DENIED","error_message":"bad key"}`},
		{"invalid json", http.StatusOK, `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, tt.status, tt.body)
			c := newClient(srv.URL, false)

			got, err := c.SearchPlaces(context.Background(), "Rome", 1000, "")
			if err != nil {
				t.Fatalf("expected error to be swallowed, got %v", err)
			}
			if got == nil || len(got) != 0 {
				t.Errorf("expected empty non-nil slice, got %v", got)
			}
		})
	}
}

func TestSearchPlaces_SurfaceErrors(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"status":"OVER_QUERY_LIMIT","error_message":"quota"}`)
	c := newClient(srv.URL, true)

	_, err := c.SearchPlaces(context.Background(), "Rome", 1000, "")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestSearchPlaces_Unreachable(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{}`)
	srv.Close()

	c := newClient(srv.URL, true)
	_, err := c.SearchPlaces(context.Background(), "Rome", 1000, "")
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestSearchPlaces_ContextCanceled(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, okBody)
	c := newClient(srv.URL, true)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.SearchPlaces(ctx, "Rome", 1000, ""); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestBuildQuery(t *testing.T) {
	tests := map[string]string{
		"":         "restaurant",
		"  ":       "restaurant",
		"Italian":  "Italian restaurant",
		" sushi  ": "sushi restaurant",
	}
	for in, want := range tests {
		if got := BuildQuery(in); got != want {
			t.Errorf("BuildQuery(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestClampRadius(t *testing.T) {
	tests := []struct{ in, want int }{
		{0, 0},
		{5000, 5000},
		{50000, 50000},
		{50001, 50000},
		{1000000, 50000},
		{-1, 50000},
		{math.MinInt, 50000},
	}
	for _, tt := range tests {
		if got := ClampRadius(tt.in); got != tt.want {
			t.Errorf("ClampRadius(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient(&Config{APIKey: "k"})
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	if c.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.httpClient.Timeout, DefaultTimeout)
	}
	if c.logger == nil {
		t.Error("logger should default to nop")
	}
}
