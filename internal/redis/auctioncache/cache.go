// Package auctioncache keeps a short-lived Redis copy of auction read models.
package auctioncache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"auctionhouse/internal/events"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix = "auc_view:"

	// invalidated marks a key whose auction changed. Store never overwrites
	// it, so a read that loaded the row before the commit cannot put the old
	// copy back. The marker expires after InvalidationHold.
	invalidated = "-"

	InvalidationHold = 5 * time.Second
)

type Cache struct {
	rdc redis.Cmdable
	ttl time.Duration
}

func New(rdc redis.Cmdable, ttl time.Duration) *Cache {
	return &Cache{rdc: rdc, ttl: ttl}
}

func Key(id uuid.UUID) string { return keyPrefix + id.String() }

// Load decodes the cached value into dst. A miss is (false, nil).
func (c *Cache) Load(ctx context.Context, id uuid.UUID, dst any) (bool, error) {
	raw, err := c.rdc.Get(ctx, Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if string(raw) == invalidated {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, err
	}
	return true, nil
}

// Store caches v unless the key already holds a copy or an invalidation marker.
func (c *Cache) Store(ctx context.Context, id uuid.UUID, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdc.SetNX(ctx, Key(id), raw, c.ttl).Err()
}

func (c *Cache) Invalidate(ctx context.Context, id uuid.UUID) error {
	return c.rdc.Set(ctx, Key(id), invalidated, InvalidationHold).Err()
}

// Invalidator drops the cached view of the auction each event belongs to.
func (c *Cache) Invalidator() events.Handler {
	return events.HandlerFunc(func(ctx context.Context, ev events.Event) error {
		if err := c.Invalidate(ctx, ev.AggregateID()); err != nil {
			zap.L().Warn("auction_cache_invalidate", zap.Stringer("auction_id", ev.AggregateID()), zap.Error(err))
			return err
		}
		return nil
	})
}
