package tool

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/foodtravel/foodmcp/internal/domain"
	"github.com/foodtravel/foodmcp/internal/domain/search/query"
	"github.com/foodtravel/foodmcp/internal/logger"
)

// SearchRestaurantsName is the MCP name of the restaurant search tool.
const SearchRestaurantsName = "search_restaurants"

// SearchRestaurants serves the search_restaurants tool.
type SearchRestaurants struct {
	searcher          Searcher
	defaultRadiusKm   float64
	defaultMaxResults int
}

// SearchRestaurantsOption configures SearchRestaurants.
type SearchRestaurantsOption func(*SearchRestaurants)

// WithDefaults overrides the radius and result limit used when a call omits them.
func WithDefaults(radiusKm float64, maxResults int) SearchRestaurantsOption {
	return func(s *SearchRestaurants) {
		if radiusKm > 0 {
			s.defaultRadiusKm = radiusKm
		}
		if maxResults > 0 {
			s.defaultMaxResults = maxResults
		}
	}
}

// NewSearchRestaurants creates the tool handler.
func NewSearchRestaurants(searcher Searcher, opts ...SearchRestaurantsOption) *SearchRestaurants {
	s := &SearchRestaurants{
		searcher:          searcher,
		defaultRadiusKm:   query.DefaultRadiusKm,
		defaultMaxResults: query.DefaultMaxResults,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Definition describes the tool's input schema.
func (s *SearchRestaurants) Definition() mcp.Tool {
	return mcp.NewTool(SearchRestaurantsName,
		mcp.WithDescription("Search for restaurants near a location, optionally filtered by cuisine."),
		mcp.WithString("location",
			mcp.Required(),
			mcp.Description(`Location to search around: a place name ("New York, NY") or "lat,lng".`),
		),
		mcp.WithString("cuisine_type",
			mcp.Description("Cuisine filter, e.g. Italian or sushi."),
		),
		mcp.WithNumber("radius_km",
			mcp.Description("Search radius in kilometers. The provider caps it at 50 km."),
			mcp.DefaultNumber(s.defaultRadiusKm),
			mcp.Min(0),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of restaurants to return."),
			mcp.DefaultNumber(float64(s.defaultMaxResults)),
			mcp.Min(0),
		),
	)
}

// ServerTool pairs the definition with Handle for registration.
func (s *SearchRestaurants) ServerTool() server.ServerTool {
	return server.ServerTool{Tool: s.Definition(), Handler: s.Handle}
}

type searchArgs struct {
	Location    string  `mapstructure:"location"`
	CuisineType string  `mapstructure:"cuisine_type"`
	RadiusKm    float64 `mapstructure:"radius_km"`
	MaxResults  int     `mapstructure:"max_results"`
}

// Handle runs one search_restaurants call. Failures are reported in the
// result envelope with IsError set; the returned error is always nil.
func (s *SearchRestaurants) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	log := logger.FromContext(ctx)

	var args searchArgs
	if err := decodeArgs(req.GetArguments(), &args); err != nil {
		log.Error("invalid search_restaurants arguments", zap.Error(err))
		return errorResult(args.Location, err), nil
	}

	log = log.With(zap.String("location", args.Location), zap.String("cuisine", args.CuisineType))
	log.Info("Restaurant search requested",
		zap.Float64("radius_km", args.RadiusKm),
		zap.Int("max_results", args.MaxResults),
	)

	q, err := query.NewWithDefaults(
		args.Location, args.CuisineType, args.RadiusKm, args.MaxResults,
		s.defaultRadiusKm, s.defaultMaxResults,
	)
	if err != nil {
		log.Error("invalid search query", zap.Error(err))
		return errorResult(args.Location, err), nil
	}

	results, err := s.searcher.Search(ctx, q)
	if err != nil {
		log.Error("restaurant search failed", zap.Error(err))
		return errorResult(args.Location, err), nil
	}

	text, err := marshalEnvelope(newSuccessEnvelope(args.Location, results))
	if err != nil {
		log.Error("encode search result", zap.Error(err))
		return errorResult(args.Location, fmt.Errorf("encode result: %w", err)), nil
	}

	log.Info("Restaurant search completed", zap.Int("total_results", len(results)))
	return mcp.NewToolResultText(text), nil
}

func decodeArgs(input map[string]any, out *searchArgs) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "mapstructure",
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(input); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidArgument, err)
	}
	return nil
}

func errorResult(location string, cause error) *mcp.CallToolResult {
	text, err := marshalEnvelope(errorEnvelope{Success: false, Error: cause.Error(), Location: location})
	if err != nil {
		text = cause.Error()
	}
	return mcp.NewToolResultError(text)
}
