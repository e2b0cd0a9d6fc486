package redis_client

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"auctionhouse/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to the auctions Redis and checks it answers.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	maxPool := runtime.NumCPU() * 8
	if maxPool > 512 {
		maxPool = 512
	}

	rc := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.RedisAuctionsHost, cfg.RedisAuctionsPort),
		PoolSize: maxPool,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		_ = rc.Close()
		zap.L().Error("redis_connect", zap.Error(err))
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return rc, nil
}
