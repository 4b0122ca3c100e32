package domain

import (
	"errors"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument signals a rejected tool or search argument.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrProviderUnavailable signals a places provider failure (network, auth, provider status).
	ErrProviderUnavailable = errors.New("places provider unavailable")
	// ErrMalformedResult signals a provider record that cannot be normalized.
	ErrMalformedResult = errors.New("malformed provider result")
	// ErrUnknownTool signals a call to a tool that is not registered.
	ErrUnknownTool = errors.New("unknown tool")
	// ErrToolExists signals a duplicate tool registration.
	ErrToolExists = errors.New("tool already registered")
)
