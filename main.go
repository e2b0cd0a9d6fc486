package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auctionhouse/internal/auctionsweep"
	"auctionhouse/internal/config"
	"auctionhouse/internal/database/db_client"
	"auctionhouse/internal/database/migrations"
	"auctionhouse/internal/database/postgres"
	"auctionhouse/internal/events"
	"auctionhouse/internal/http/http_server"
	"auctionhouse/internal/redis/auctioncache"
	"auctionhouse/internal/redis/auctionlock"
	"auctionhouse/internal/redis/eventstream"
	"auctionhouse/internal/redis/redis_client"
	"auctionhouse/internal/redis/redis_functions"
	"auctionhouse/internal/services/auctionsvc"
	"auctionhouse/internal/services/notification"

	"go.uber.org/zap"
)

var (
	Log, _ = zap.NewDevelopment()
)

func newLogger(mode string) *zap.Logger {
	if mode != "production" {
		return Log
	}
	l, err := zap.NewProduction()
	if err != nil {
		Log.Fatal("Failed to build production logger", zap.Error(err))
	}
	return l
}

func main() {
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log = newLogger(cfg.LogMode)
	zap.ReplaceGlobals(Log)
	defer Log.Sync()
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. Postgres db client and schema
	pgDb, err := db_client.Open(cfg)
	if err != nil {
		Log.Fatal("pg-open", zap.Error(err))
	}
	defer pgDb.Close()

	if err := migrations.Up(pgDb); err != nil {
		Log.Fatal("pg-migrate", zap.Error(err))
	}

	// 4. Redis
	redisClient, err := redis_client.NewRedisClient(ctx, cfg)
	if err != nil {
		Log.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer redisClient.Close()

	// Load the Redis Functions lua
	if err := redis_functions.LoadAll(ctx, redisClient); err != nil {
		Log.Fatal("load-redis-funcs", zap.Error(err))
	}

	// 5. Event consumers, run after each commit in subscription order
	store := postgres.NewStore(pgDb)
	cache := auctioncache.New(redisClient, cfg.AuctionCacheTTL)

	registry := events.NewRegistry()
	notification.NewGenerator(store, store.Repo()).Register(registry)
	registry.SubscribeAll(cache.Invalidator())
	registry.SubscribeAll(eventstream.New(redisClient, cfg.EventStream, cfg.EventStreamMaxLen))

	// 6. Services
	auctionService := auctionsvc.NewAuctionService(store, events.NewDispatcher(registry),
		auctionsvc.WithCache(cache),
	)
	notificationService := notification.NewNotificationService(store)

	// 7. Background: end auctions whose time is up
	sweeper := auctionsweep.New(auctionService,
		auctionlock.New(redisClient, cfg.SweepLockTTL),
		cfg.SystemUserID,
		cfg.SweepInterval,
	)
	sweeper.Start(ctx)

	// 8. HTTP server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, auctionService, notificationService)
	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Start() }()

	select {
	case <-ctx.Done():
		Log.Info("shutdown_requested")
	case err := <-errCh:
		if err != nil {
			Log.Error("Failed to start HTTP server", zap.Error(err))
		}
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sweeper.Stop(stopCtx)
	if err := httpServer.Dispose(); err != nil {
		Log.Error("http_dispose", zap.Error(err))
	}
}
