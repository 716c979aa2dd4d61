package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"replate-backend/internal/cache"
	"replate-backend/internal/config"
	"replate-backend/internal/database"
	"replate-backend/internal/logging"
	"replate-backend/internal/server"
	"replate-backend/internal/store"
	"replate-backend/internal/workers"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	for _, w := range cfg.Warnings {
		logger.Warn("config", zap.String("warning", w))
	}

	db, err := database.Open(cfg.DatabaseDSN, logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	st := store.New(db)

	var dashCache cache.Cache = cache.Nop{}
	if cfg.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rc, err := cache.NewRedis(ctx, cfg.RedisURL)
		cancel()
		if err != nil {
			// dashboards still work uncached
			logger.Warn("redis unavailable, dashboard cache disabled", zap.Error(err))
		} else {
			defer rc.Close()
			dashCache = rc
			logger.Info("dashboard cache enabled", zap.Duration("ttl", cfg.CacheTTL))
		}
	}

	sweeper := workers.NewExpirySweeper(st, logger, cfg.ExpirySweepInterval)
	sweeper.Start()
	defer sweeper.Stop()

	rollup := workers.NewAnalyticsRollup(st, logger, cfg.AnalyticsRollupInterval)
	rollup.Start()
	defer rollup.Stop()

	app := server.New(cfg, st, dashCache, logger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("server listening", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		logger.Error("listen", zap.Error(err))
	}
}
