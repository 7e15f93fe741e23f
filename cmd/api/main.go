package main

import (
	"context"
	"log"
	"time"

	"gift-tracker/internal/core/cache"
	"gift-tracker/internal/core/config"
	"gift-tracker/internal/core/logger"
	"gift-tracker/internal/core/server"
	orderadapter "gift-tracker/internal/features/orders/adapters"
	trackingadapter "gift-tracker/internal/features/tracking/adapters"
	trackinghandler "gift-tracker/internal/features/tracking/handler"
	trackingservice "gift-tracker/internal/features/tracking/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// startupTimeout bounds the database and cache pings at boot.
const startupTimeout = 10 * time.Second

// @title Gift Tracker API
// @version 1.0
// @description This API resolves a customer CPF or e-mail to the shipment timeline of their gift-redemption order, integrating with the TPL carrier.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// Initialize the order repository and verify connectivity
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		l.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	orderRepo := orderadapter.NewPostgresRepository(pool)
	if err := orderRepo.Ping(ctx); err != nil {
		l.Fatal("Database health check failed", zap.Error(err))
	}
	l.Info("Database connection verified")

	// The response cache is optional; without REDIS_URL every lookup
	// goes straight to the carrier.
	var responseCache cache.Cache
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
		if err != nil {
			l.Fatal("Failed to create Redis adapter", zap.Error(err))
		}
		if err := redisCache.Ping(ctx); err != nil {
			l.Fatal("Redis health check failed", zap.Error(err))
		}
		defer redisCache.Close()
		responseCache = redisCache
		l.Info("Redis connection verified")
	}

	// Initialize the TPL carrier gateway
	tplClient := trackingadapter.NewTPLClient(cfg.TPL)

	// Initialize Tracking Service & Handler
	cacheTTL := time.Duration(cfg.Redis.TrackingTTLSeconds) * time.Second
	trackingSvc := trackingservice.NewTrackingService(orderRepo, tplClient, responseCache, cacheTTL)
	trackingHdl := trackinghandler.NewTrackingHandler(trackingSvc)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Get("/tracking/:identifier", trackingHdl.GetTracking)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
