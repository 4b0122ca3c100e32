package foodmcp

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	apiKey        string
	baseURL       string
	timeout       time.Duration
	surfaceErrors bool
	httpClient    *http.Client

	defaultRadiusKm   float64
	defaultMaxResults int

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

// WithAPIKey sets the Google Places API key. Required.
func WithAPIKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = key
	})
}

// WithBaseURL points the client at a different Places endpoint (tests, proxies).
func WithBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = url
	})
}

// WithTimeout bounds each provider request. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.timeout = d
	})
}

// WithSurfaceErrors reports provider failures as ErrProviderUnavailable
// instead of an empty result.
func WithSurfaceErrors() Option {
	return optionFunc(func(c *clientConfig) {
		c.surfaceErrors = true
	})
}

// WithHTTPClient replaces the HTTP client used for provider calls.
// WithTimeout is ignored when set.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithDefaults sets the radius (km) and result limit used when a request leaves them unset.
// Defaults: 10 km, 10 results.
func WithDefaults(radiusKm float64, maxResults int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultRadiusKm = radiusKm
		c.defaultMaxResults = maxResults
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
