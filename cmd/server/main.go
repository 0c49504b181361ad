package main

import (
	"context"
	"ecotrack/internal/cache"
	"ecotrack/internal/config"
	"ecotrack/internal/database"
	"ecotrack/internal/middleware"
	"ecotrack/internal/router"
	"ecotrack/internal/services"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// Minimal logger until the configuration is loaded
	bootLogger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	cfg, err := config.Load()
	if err != nil {
		bootLogger.Fatal("Failed to load configuration", zap.Error(err))
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		bootLogger.Fatal("Failed to initialize logger", zap.Error(err))
	}
	bootLogger.Sync()
	defer logger.Sync()
	logger.Info("Starting EcoTrack server",
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_format", cfg.Logging.Format),
	)

	// Database
	db, err := database.NewManager(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	waitCtx, cancelWait := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.WaitUntilHealthy(waitCtx); err != nil {
		cancelWait()
		logger.Fatal("Database never became healthy", zap.Error(err))
	}
	cancelWait()

	if err := db.Migrate("migrations"); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Cache
	cacheClient, err := cache.NewCache(&cache.Config{
		Provider:        cfg.Cache.Provider,
		TTL:             cfg.Cache.DefaultTTL,
		MaxKeys:         10000,
		CleanupInterval: 5 * time.Minute,
		RedisURL:        cfg.Cache.RedisURL,
		RedisDB:         cfg.Cache.RedisDB,
		RedisPassword:   cfg.Cache.RedisPassword,
		PoolSize:        cfg.Cache.PoolSize,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache", zap.Error(err))
	}
	defer cacheClient.Close()

	// Services
	collection, err := services.NewServiceCollection(db, cacheClient, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := collection.Start(ctx); err != nil {
		logger.Fatal("Failed to start services", zap.Error(err))
	}

	// Guarantee the protected admin account before accepting traffic
	if _, err := collection.Auth.EnsureBootstrapAdmin(ctx); err != nil {
		logger.Fatal("Failed to ensure bootstrap admin", zap.Error(err))
	}

	if cfg.Features.ReconcileOnStartup {
		go func() {
			awarded, err := collection.Badges.ReconcileAll(ctx)
			if err != nil {
				logger.Error("Startup badge reconciliation failed", zap.Error(err))
				return
			}
			logger.Info("Startup badge reconciliation complete", zap.Int("awarded", awarded))
		}()
	}

	go sweepSessions(ctx, collection, cfg.Auth.SessionSweepEvery, logger)

	limiter := middleware.NewCacheRateLimiter(cacheClient, cfg.Features.RateLimitPerMinute, time.Minute)

	handler := router.New(router.Deps{
		Services: collection,
		DB:       db,
		Config:   cfg,
		Limiter:  limiter,
		Logger:   logger,
	})

	server := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	go func() {
		logger.Info("HTTP server listening",
			zap.String("addr", server.Addr),
			zap.String("environment", cfg.Server.Environment),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if err := collection.Stop(shutdownCtx); err != nil {
		logger.Error("Service shutdown failed", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}

// sweepSessions periodically removes expired sessions
func sweepSessions(ctx context.Context, collection *services.ServiceCollection, every time.Duration, logger *zap.Logger) {
	if every <= 0 {
		every = time.Hour
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := collection.Auth.CleanupExpiredSessions(ctx)
			if err != nil {
				logger.Error("Session sweep failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				logger.Info("Expired sessions removed", zap.Int("count", removed))
			}
		}
	}
}

// initLogger builds the application logger from the logging configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	// A sample rate below 1.0 keeps roughly that fraction of repeated
	// entries after the initial burst
	if cfg.SampleRate > 0 && cfg.SampleRate < 1 {
		zapCfg.Sampling = &zap.SamplingConfig{
			Initial:    100,
			Thereafter: int(1 / cfg.SampleRate),
		}
	} else {
		zapCfg.Sampling = nil
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
