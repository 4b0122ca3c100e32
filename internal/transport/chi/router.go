package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/foodtravel/foodmcp/internal/metrics"
	healthuc "github.com/foodtravel/foodmcp/internal/usecase/health"
)

// MCPPath is where the streamable MCP endpoint is mounted.
const MCPPath = "/mcp"

// RouterConfig wires the HTTP surface.
type RouterConfig struct {
	MCP     http.Handler
	Health  *healthuc.Service
	APIKeys []string
	Logger  *zap.Logger
}

// NewRouter builds the HTTP router: /mcp, /health and /metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(BearerAuthMiddleware(cfg.APIKeys))
	r.Use(metrics.Middleware())

	r.Get("/health", healthHandler(cfg.Health))
	r.Handle("/metrics", promhttp.Handler())
	if cfg.MCP != nil {
		r.Mount(MCPPath, cfg.MCP)
	}

	return r
}

// healthHandler handles GET /health.
func healthHandler(svc *healthuc.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeJSON(w, http.StatusOK, healthuc.Report{Status: healthuc.Healthy, Checks: map[string]healthuc.CheckResult{}})
			return
		}

		report := svc.Check(r.Context())
		status := http.StatusOK
		if report.Status != healthuc.Healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, report)
	}
}
