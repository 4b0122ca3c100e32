package foodmcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/foodtravel/foodmcp/internal/domain/search/query"
	logpkg "github.com/foodtravel/foodmcp/internal/logger"
	"github.com/foodtravel/foodmcp/internal/tool"
	"github.com/foodtravel/foodmcp/internal/transport/places"
	searchuc "github.com/foodtravel/foodmcp/internal/usecase/search"
)

// Client is the foodmcp SDK entry point.
type Client struct {
	searchSvc *searchuc.Service
	registry  *tool.Registry
	obs       *observer

	defaultRadiusKm   float64
	defaultMaxResults int
}

// New creates a Client. WithAPIKey is required.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		defaultRadiusKm:   query.DefaultRadiusKm,
		defaultMaxResults: query.DefaultMaxResults,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if strings.TrimSpace(cfg.apiKey) == "" {
		return nil, errors.New("foodmcp: api key required (use WithAPIKey)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	provider := places.NewClient(&places.Config{
		APIKey:        cfg.apiKey,
		BaseURL:       cfg.baseURL,
		Timeout:       cfg.timeout,
		SurfaceErrors: cfg.surfaceErrors,
		HTTPClient:    cfg.httpClient,
		Logger:        obs.logger,
	})
	searchSvc := searchuc.New(provider)

	registry := tool.NewRegistry()
	if err := registry.Register(tool.NewSearchRestaurants(searchSvc,
		tool.WithDefaults(cfg.defaultRadiusKm, cfg.defaultMaxResults),
	).ServerTool()); err != nil {
		return nil, fmt.Errorf("foodmcp: register tools: %w", err)
	}

	return &Client{
		searchSvc:         searchSvc,
		registry:          registry,
		obs:               obs,
		defaultRadiusKm:   cfg.defaultRadiusKm,
		defaultMaxResults: cfg.defaultMaxResults,
	}, nil
}

// Search returns up to req.MaxResults restaurants in provider order.
// Unless WithSurfaceErrors is set, provider failures yield an empty result.
func (c *Client) Search(ctx context.Context, req SearchRequest) (_ []Restaurant, err error) {
	defer func(start time.Time) { c.obs.observe("search", start, err) }(time.Now())

	q, err := query.NewWithDefaults(
		req.Location, req.CuisineType, req.RadiusKm, req.MaxResults,
		c.defaultRadiusKm, c.defaultMaxResults,
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	found, err := c.searchSvc.Search(logpkg.ContextWithLogger(ctx, c.obs.logger), q)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out := make([]Restaurant, len(found))
	for i := range found {
		out[i] = fromDomain(&found[i])
	}
	return out, nil
}

// CallTool runs a registered tool and returns its JSON envelope.
// A tool-level failure is still an envelope ({"success": false, ...}) with a nil error;
// the error is non-nil only for unknown tools or an empty result.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (_ string, err error) {
	defer func(start time.Time) { c.obs.observe("call_tool", start, err) }(time.Now())

	res, err := c.registry.Call(logpkg.ContextWithLogger(ctx, c.obs.logger), name, args)
	if err != nil {
		return "", fmt.Errorf("call %s: %w", name, err)
	}
	if res == nil || len(res.Content) == 0 {
		return "", fmt.Errorf("call %s: empty result", name)
	}
	text, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		return "", fmt.Errorf("call %s: unexpected content %T", name, res.Content[0])
	}
	return text.Text, nil
}

// Tools lists the registered tool names in registration order.
func (c *Client) Tools() []string {
	tools := c.registry.Tools()
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Tool.Name)
	}
	return names
}
