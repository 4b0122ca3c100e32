package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/foodtravel/foodmcp/internal/logger"
	"github.com/foodtravel/foodmcp/internal/metrics"
)

// callMiddleware tags every tool call with a call_id logger and records call metrics.
func callMiddleware(base *zap.Logger) mcpserver.ToolHandlerMiddleware {
	return func(next mcpserver.ToolHandlerFunc) mcpserver.ToolHandlerFunc {
		return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
			name := req.Params.Name
			log := logger.FromContextOr(ctx, base).With(
				zap.String("call_id", uuid.NewString()),
				zap.String("tool", name),
			)
			ctx = logger.ContextWithLogger(ctx, log)

			start := time.Now()
			res, err := next(ctx, req)
			duration := time.Since(start)

			outcome := "success"
			if err != nil || (res != nil && res.IsError) {
				outcome = "error"
			}
			metrics.ToolCallsTotal.WithLabelValues(name, outcome).Inc()
			metrics.ToolCallDuration.WithLabelValues(name).Observe(duration.Seconds())

			if err != nil {
				log.Error("tool call failed", zap.Duration("duration", duration), zap.Error(err))
			} else {
				log.Debug("tool call finished", zap.Duration("duration", duration), zap.String("outcome", outcome))
			}
			return res, err
		}
	}
}
