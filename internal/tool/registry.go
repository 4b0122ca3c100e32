package tool

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/foodtravel/foodmcp/internal/domain"
)

// Registry maps tool names to their definitions and handlers.
// Populate it at startup; it is safe for concurrent reads afterwards.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]server.ServerTool
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]server.ServerTool)}
}

// Register adds a tool. Names must be unique.
func (r *Registry) Register(t server.ServerTool) error {
	name := t.Tool.Name
	if name == "" {
		return fmt.Errorf("%w: tool name is empty", domain.ErrInvalidArgument)
	}
	if t.Handler == nil {
		return fmt.Errorf("%w: tool %q has no handler", domain.ErrInvalidArgument, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tools[name]; ok {
		return fmt.Errorf("%w: %s", domain.ErrToolExists, name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(t server.ServerTool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Lookup returns the tool registered under name.
func (r *Registry) Lookup(name string) (server.ServerTool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Call dispatches a tool call by name.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, error) {
	t, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTool, name)
	}

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return t.Handler(ctx, req)
}

// Tools returns every registered tool in registration order.
func (r *Registry) Tools() []server.ServerTool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]server.ServerTool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}
