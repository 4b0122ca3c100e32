// Package foodmcp is an in-process client for the food travel restaurant search.
//
// It runs the same pipeline the MCP server exposes (Google Places Text Search,
// radius conversion, result capping) without a protocol hop:
//
//	client, _ := foodmcp.New(foodmcp.WithAPIKey(os.Getenv("GOOGLE_PLACES_API_KEY")))
//	res, _ := client.Search(ctx, foodmcp.SearchRequest{
//	    Location:    "New York, NY",
//	    CuisineType: "Italian",
//	    RadiusKm:    5,
//	    MaxResults:  3,
//	})
//
// CallTool runs a registered tool by name and returns its JSON envelope,
// exactly as an MCP client would receive it.
package foodmcp
