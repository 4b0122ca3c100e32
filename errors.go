package foodmcp

import "github.com/foodtravel/foodmcp/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidArgument     = domain.ErrInvalidArgument
	ErrProviderUnavailable = domain.ErrProviderUnavailable
	ErrUnknownTool         = domain.ErrUnknownTool
)
