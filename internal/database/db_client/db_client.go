package db_client

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"auctionhouse/internal/config"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// DSN builds the pgx connection URL for the configured database.
func DSN(cfg *config.Config) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.PostgresUser, cfg.PostgresPassword),
		Host:     fmt.Sprintf("%s:%s", cfg.PostgresHost, cfg.PostgresPort),
		Path:     cfg.PostgresDb,
		RawQuery: url.Values{"sslmode": []string{cfg.PostgresSSLMode}}.Encode(),
	}
	return u.String()
}

// Open returns a pooled handle that has answered a ping.
func Open(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", DSN(cfg))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.PostgresMaxConns)
	db.SetConnMaxIdleTime(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		zap.L().Error("pg_connect", zap.String("host", cfg.PostgresHost), zap.Error(err))
		return nil, fmt.Errorf("postgres connection failed: %w", err)
	}
	return db, nil
}
