package places

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/foodtravel/foodmcp/internal/domain"
	"github.com/foodtravel/foodmcp/internal/domain/restaurant"
	"github.com/foodtravel/foodmcp/internal/metrics"
)

// MaxRadiusMeters is the largest radius the provider accepts.
const MaxRadiusMeters = 50000

const (
	// DefaultBaseURL is the Places API root.
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"
	// DefaultTimeout bounds a single provider request.
	DefaultTimeout = 10 * time.Second

	placeType      = "restaurant"
	textSearchPath = "/textsearch/json"
	maxErrorBody   = 512
)

// Provider statuses treated as success.
const (
	StatusOK          = "OK"
	StatusZeroResults = "ZERO_RESULTS"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client is a Google Places Text Search client.
type Client struct {
	apiKey        string
	baseURL       string
	surfaceErrors bool
	httpClient    *http.Client
	logger        *zap.Logger
}

// Config holds the places provider settings.
type Config struct {
	APIKey        string
	BaseURL       string
	Timeout       time.Duration
	SurfaceErrors bool
	HTTPClient    *http.Client
	Logger        *zap.Logger
}

// NewClient creates a places client. Zero values take the package defaults.
func NewClient(cfg *Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey:        cfg.APIKey,
		baseURL:       baseURL,
		surfaceErrors: cfg.SurfaceErrors,
		httpClient:    httpClient,
		logger:        logger,
	}
}

// TextSearchRequest is one Text Search call.
type TextSearchRequest struct {
	Query    string
	Location string
	Radius   int // meters; 0 omits the parameter
	Type     string
}

// TextSearchResponse carries the raw result records of a successful call.
type TextSearchResponse struct {
	Status  string
	Results []any
}

type textSearchBody struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []any  `json:"results"`
}

// TextSearch issues a single Text Search request.
// Every failure wraps domain.ErrProviderUnavailable.
func (c *Client) TextSearch(ctx context.Context, req TextSearchRequest) (TextSearchResponse, error) {
	endpoint := c.baseURL + textSearchPath + "?" + c.encodeParams(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return TextSearchResponse{}, fmt.Errorf("build places request: %w: %w", err, domain.ErrProviderUnavailable)
	}
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	defer func() { metrics.PlacesRequestDuration.Observe(time.Since(start).Seconds()) }()

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.recordFailure("transport")
		return TextSearchResponse{}, fmt.Errorf("places request failed: %w: %w", err, domain.ErrProviderUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.recordFailure("http_status")
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return TextSearchResponse{}, fmt.Errorf("places API error %d: %s: %w",
			resp.StatusCode, strings.TrimSpace(string(body)), domain.ErrProviderUnavailable)
	}

	var body textSearchBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.recordFailure("decode")
		return TextSearchResponse{}, fmt.Errorf("decode places response: %w: %w", err, domain.ErrProviderUnavailable)
	}

	switch body.Status {
	case StatusOK, StatusZeroResults:
	default:
		c.recordFailure("provider_status")
		if body.ErrorMessage != "" {
			return TextSearchResponse{}, fmt.Errorf("places API status %s: %s: %w",
				body.Status, body.ErrorMessage, domain.ErrProviderUnavailable)
		}
		return TextSearchResponse{}, fmt.Errorf("places API status %s: %w", body.Status, domain.ErrProviderUnavailable)
	}

	metrics.PlacesRequestsTotal.WithLabelValues("success").Inc()

	return TextSearchResponse{Status: body.Status, Results: body.Results}, nil
}

// SearchPlaces finds restaurants near location. radiusMeters is clamped to
// MaxRadiusMeters and category, when set, narrows the query.
//
// Provider failures yield an empty, non-nil slice unless the client was built
// with SurfaceErrors, in which case the error is returned.
func (c *Client) SearchPlaces(
	ctx context.Context, location string, radiusMeters int, category string,
) ([]restaurant.Restaurant, error) {
	req := TextSearchRequest{
		Query:    BuildQuery(category),
		Location: location,
		Radius:   ClampRadius(radiusMeters),
		Type:     placeType,
	}

	resp, err := c.TextSearch(ctx, req)
	if err != nil {
		c.logger.Warn("places search failed",
			zap.String("location", location),
			zap.String("query", req.Query),
			zap.Error(err),
		)
		if c.surfaceErrors {
			return nil, err
		}
		return []restaurant.Restaurant{}, nil
	}

	out := make([]restaurant.Restaurant, 0, len(resp.Results))
	for i, raw := range resp.Results {
		r, err := normalizePlace(raw)
		if err != nil {
			metrics.PlacesResultsDroppedTotal.Inc()
			c.logger.Debug("dropping places record", zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, r)
	}

	c.logger.Info("places search completed",
		zap.String("location", location),
		zap.String("status", resp.Status),
		zap.Int("results", len(out)),
	)
	return out, nil
}

// BuildQuery returns "<category> restaurant", or just "restaurant" for an empty category.
func BuildQuery(category string) string {
	if c := strings.TrimSpace(category); c != "" {
		return c + " " + placeType
	}
	return placeType
}

// ClampRadius caps a radius at MaxRadiusMeters. Negative values come from an
// overflowed conversion and are treated as unbounded, so they clamp too.
func ClampRadius(radiusMeters int) int {
	if radiusMeters < 0 || radiusMeters > MaxRadiusMeters {
		return MaxRadiusMeters
	}
	return radiusMeters
}

func (c *Client) encodeParams(req TextSearchRequest) string {
	params := url.Values{}
	params.Set("query", req.Query)
	if req.Location != "" {
		params.Set("location", req.Location)
	}
	if req.Radius > 0 {
		params.Set("radius", strconv.Itoa(req.Radius))
	}
	if req.Type != "" {
		params.Set("type", req.Type)
	}
	params.Set("key", c.apiKey)
	return params.Encode()
}

func (c *Client) recordFailure(kind string) {
	metrics.PlacesRequestsTotal.WithLabelValues("error").Inc()
	metrics.PlacesErrorsTotal.WithLabelValues(kind).Inc()
}
