// Command initdb creates the restaurant_cache schema in the configured store.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/foodtravel/foodmcp/internal/config"
	dbRedis "github.com/foodtravel/foodmcp/internal/db/redis"
	dbSQLite "github.com/foodtravel/foodmcp/internal/db/sqlite"
	logpkg "github.com/foodtravel/foodmcp/internal/logger"
	"github.com/foodtravel/foodmcp/internal/repository/restaurantcache"
)

func main() {
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	timeout := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	logger.Info("Creating database tables...", zap.String("driver", cfg.Database.Driver))

	switch cfg.Database.Driver {
	case config.DriverSQLite:
		store, err := dbSQLite.Open(cfg.Database.URL)
		if err != nil {
			logger.Fatal("Failed to open database", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, timeout); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		if err := restaurantcache.NewSQLRepository(store.DB()).EnsureSchema(ctx); err != nil {
			logger.Fatal("Failed to create tables", zap.Error(err))
		}

	case config.DriverRedis:
		// Hashes need no schema; only check reachability.
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer store.Close()

		if err := store.WaitForReady(ctx, timeout); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
	}

	logger.Info("Database tables created successfully!", zap.String("table", restaurantcache.TableName))
}
