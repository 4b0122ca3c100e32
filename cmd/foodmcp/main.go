package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/foodtravel/foodmcp/internal/config"
	dbRedis "github.com/foodtravel/foodmcp/internal/db/redis"
	dbSQLite "github.com/foodtravel/foodmcp/internal/db/sqlite"
	logpkg "github.com/foodtravel/foodmcp/internal/logger"
	"github.com/foodtravel/foodmcp/internal/metrics"
	"github.com/foodtravel/foodmcp/internal/repository/restaurantcache"
	"github.com/foodtravel/foodmcp/internal/tool"
	chiTransport "github.com/foodtravel/foodmcp/internal/transport/chi"
	mcpTransport "github.com/foodtravel/foodmcp/internal/transport/mcp"
	"github.com/foodtravel/foodmcp/internal/transport/places"
	healthuc "github.com/foodtravel/foodmcp/internal/usecase/health"
	searchuc "github.com/foodtravel/foodmcp/internal/usecase/search"
	"github.com/foodtravel/foodmcp/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting food travel MCP server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.String("transport", cfg.Server.Transport),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Register metrics explicitly (no init())
	metrics.Register()

	// Restaurant cache store. Tool calls never touch it; health and schema do.
	pinger, closeStore, err := openStore(ctx, &cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer closeStore()

	// Composition root: provider -> search use case -> tool -> MCP server
	provider := places.NewClient(&places.Config{
		APIKey:        cfg.Places.APIKey,
		BaseURL:       cfg.Places.BaseURL,
		Timeout:       time.Duration(cfg.Places.TimeoutSec) * time.Second,
		SurfaceErrors: cfg.Places.SurfaceErrors,
		Logger:        logger,
	})
	searchSvc := searchuc.New(provider)

	registry := tool.NewRegistry()
	registry.MustRegister(tool.NewSearchRestaurants(searchSvc,
		tool.WithDefaults(cfg.Search.DefaultRadiusKm, cfg.Search.DefaultMaxResults),
	).ServerTool())

	server := mcpTransport.NewServer(cfg.Server.Name, version.Version, registry, logger)

	switch cfg.Server.Transport {
	case config.TransportHTTP:
		healthSvc := healthuc.New(pinger, version.Version)
		serveHTTP(ctx, &cfg, server, healthSvc, logger)
	default:
		if err := server.ServeStdio(ctx, os.Stdin, os.Stdout); err != nil {
			logger.Error("stdio server error", zap.Error(err))
		}
	}

	logger.Info("Server stopped gracefully")
}

// openStore connects the configured cache backend and waits until it answers pings.
// The SQLite schema is created on the way.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (healthuc.DBPinger, func(), error) {
	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second

	switch cfg.Database.Driver {
	case config.DriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create redis store: %w", err)
		}
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("redis not ready: %w", err)
		}
		logger.Info("Connected to database", zap.Strings("addrs", cfg.Database.Addrs))
		return store, store.Close, nil

	case config.DriverSQLite:
		store, err := dbSQLite.Open(cfg.Database.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := store.WaitForReady(ctx, timeout); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("sqlite not ready: %w", err)
		}
		if err := restaurantcache.NewSQLRepository(store.DB()).EnsureSchema(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("ensure schema: %w", err)
		}
		logger.Info("Connected to database", zap.String("url", cfg.Database.URL))
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func serveHTTP(
	ctx context.Context,
	cfg *config.Config,
	server *mcpTransport.Server,
	healthSvc *healthuc.Service,
	logger *zap.Logger,
) {
	router := chiTransport.NewRouter(chiTransport.RouterConfig{
		MCP:     server.HTTPHandler(),
		Health:  healthSvc,
		APIKeys: cfg.Auth.APIKeys,
		Logger:  logger,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
}
