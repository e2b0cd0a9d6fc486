// Package auctionlock serialises auction finalisation across service replicas.
package auctionlock

import (
	"context"
	"time"

	"auctionhouse/internal/redis/redis_functions"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "auc_lock:"

// Locker needs the redis_functions library loaded on the server.
type Locker struct {
	rdc   redis.Cmdable
	ttl   time.Duration
	token func() string
}

func New(rdc redis.Cmdable, ttl time.Duration) *Locker {
	return &Locker{rdc: rdc, ttl: ttl, token: uuid.NewString}
}

func Key(auctionID uuid.UUID) string { return keyPrefix + auctionID.String() }

// Acquire takes the lock for one auction. ok is false when another replica
// already holds it; release is then nil. release leaves the key alone once
// the TTL has handed it to someone else.
func (l *Locker) Acquire(ctx context.Context, auctionID uuid.UUID) (release func(), ok bool, err error) {
	key, token := Key(auctionID), l.token()
	ok, err = l.rdc.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}
	return func() {
		n, err := l.rdc.FCall(context.WithoutCancel(ctx), redis_functions.Unlock, []string{key}, token).Int()
		if err != nil {
			zap.L().Warn("auction_lock_release", zap.String("key", key), zap.Error(err))
			return
		}
		if n == 0 {
			zap.L().Warn("auction_lock_expired", zap.String("key", key), zap.Duration("ttl", l.ttl))
		}
	}, true, nil
}
