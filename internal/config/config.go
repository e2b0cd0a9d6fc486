package config

import (
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	LogMode string `env:"LOG_MODE" envDefault:"development" validate:"oneof=development production"`

	RedisAuctionsHost string `env:"REDIS_AUCTIONS_HOST" envDefault:"localhost"`
	RedisAuctionsPort uint16 `env:"REDIS_AUCTIONS_PORT" envDefault:"6379"   validate:"min=1000,max=65535"`

	PostgresHost     string `env:"POSTGRES_HOST"      envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT"      envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER"      envDefault:"auction_user"`
	PostgresPassword string `env:"POSTGRES_PASSWORD"  envDefault:"auction_password"`
	PostgresDb       string `env:"POSTGRES_DB"        envDefault:"auction_db"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE"   envDefault:"disable" validate:"oneof=disable allow prefer require verify-ca verify-full"`
	PostgresMaxConns int    `env:"POSTGRES_MAX_CONNS" envDefault:"50"      validate:"min=1"`

	HttpServerPort uint16 `env:"HTTP_SERVER_PORT" envDefault:"8085" validate:"min=1000,max=65535"`

	// SweepInterval is the fixed tick of the auction ending sweep.
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"  validate:"min=1s"`
	SweepLockTTL  time.Duration `env:"SWEEP_LOCK_TTL" envDefault:"30s" validate:"min=1s"`
	SystemUserID  uuid.UUID     `env:"SYSTEM_USER_ID" envDefault:"00000000-0000-0000-0000-000000000001"`

	AuctionCacheTTL   time.Duration `env:"AUCTION_CACHE_TTL"   envDefault:"30s"`
	EventStream       string        `env:"EVENT_STREAM"        envDefault:"auction_events" validate:"required"`
	EventStreamMaxLen int64         `env:"EVENT_STREAM_MAXLEN" envDefault:"100000"         validate:"min=0"`
}

func LoadConfig() (*Config, error) {
	// Load environment variables from .env file
	err := godotenv.Load(".env")
	if err != nil {
		zap.L().Debug(".env file not found", zap.Error(err))
	}

	cfg := &Config{}
	if err = env.Parse(cfg); err != nil {
		zap.L().Error("config_load_failed", zap.Error(err))
		return nil, err
	}

	validate := validator.New()
	if err = validate.Struct(cfg); err != nil {
		zap.L().Error("config_validation_failed", zap.Error(err))
		return nil, err
	}
	return cfg, nil
}
