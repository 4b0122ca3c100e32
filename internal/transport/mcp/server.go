package mcp

import (
	"context"
	"errors"
	"io"
	"net/http"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/foodtravel/foodmcp/internal/tool"
)

// Server exposes registered tools over the MCP protocol.
type Server struct {
	mcp    *mcpserver.MCPServer
	logger *zap.Logger
}

// NewServer builds an MCP server advertising every tool in reg.
func NewServer(name, version string, reg *tool.Registry, logger *zap.Logger) *Server {
	s := mcpserver.NewMCPServer(name, version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithToolHandlerMiddleware(callMiddleware(logger)),
		mcpserver.WithRecovery(),
	)
	s.AddTools(reg.Tools()...)

	return &Server{mcp: s, logger: logger}
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *mcpserver.MCPServer {
	return s.mcp
}

// ServeStdio serves newline-delimited JSON-RPC on in/out until ctx is done or in is exhausted.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := mcpserver.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(zap.NewStdLog(s.logger))

	s.logger.Info("serving MCP over stdio")
	err := stdio.Listen(ctx, in, out)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// HTTPHandler returns a streamable HTTP handler for mounting under a router.
func (s *Server) HTTPHandler() http.Handler {
	return mcpserver.NewStreamableHTTPServer(s.mcp)
}
