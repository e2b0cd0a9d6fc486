package db_client

import (
	"testing"

	"auctionhouse/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestDSN_EscapesCredentials(t *testing.T) {
	cfg := &config.Config{
		PostgresHost:     "db",
		PostgresPort:     "5432",
		PostgresUser:     "auction_user",
		PostgresPassword: "p@ss/word",
		PostgresDb:       "auction_db",
		PostgresSSLMode:  "disable",
	}

	assert.Equal(t, "postgres://auction_user:p%40ss%2Fword@db:5432/auction_db?sslmode=disable", DSN(cfg))
}
