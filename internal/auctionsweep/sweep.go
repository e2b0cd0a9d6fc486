// Package auctionsweep ends active auctions whose end time has passed.
package auctionsweep

import (
	"context"
	"time"

	"auctionhouse/internal/auction"
	"auctionhouse/internal/services/auctionsvc"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Service is the part of the auction service the sweep drives.
type Service interface {
	FindEndedAuctions(ctx context.Context, before time.Time) ([]uuid.UUID, error)
	EndAuction(ctx context.Context, cmd auctionsvc.EndAuctionCommand) (*auctionsvc.AuctionDTO, error)
}

// Locker keeps two replicas from finalising the same auction at once.
type Locker interface {
	Acquire(ctx context.Context, auctionID uuid.UUID) (release func(), ok bool, err error)
}

type Sweeper struct {
	svc      Service
	locker   Locker
	systemID uuid.UUID
	interval time.Duration
	cron     *cron.Cron
	now      func() time.Time
}

func New(svc Service, locker Locker, systemID uuid.UUID, interval time.Duration) *Sweeper {
	logger := cronLogger{log: zap.L().Named("sweep")}
	return &Sweeper{
		svc:      svc,
		locker:   locker,
		systemID: systemID,
		interval: interval,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		now: time.Now,
	}
}

// Start schedules SweepOnce every interval. ctx bounds every run.
func (s *Sweeper) Start(ctx context.Context) {
	s.cron.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		s.SweepOnce(ctx)
	}))
	s.cron.Start()
	zap.L().Info("sweep_started", zap.Duration("interval", s.interval))
}

// Stop prevents new runs and waits for a running one, at most until ctx is done.
func (s *Sweeper) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
		zap.L().Info("sweep_stopped")
	case <-ctx.Done():
		zap.L().Warn("sweep_stop_timeout", zap.Error(ctx.Err()))
	}
}

// SweepOnce ends every due auction as the system user and reports how many
// it ended. A failure on one auction is logged and the rest still run.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	ids, err := s.svc.FindEndedAuctions(ctx, s.now())
	if err != nil {
		zap.L().Error("sweep_find_failed", zap.Error(err))
		return 0
	}

	ended := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		if s.endOne(ctx, id) {
			ended++
		}
	}
	if len(ids) > 0 {
		zap.L().Info("sweep_done", zap.Int("due", len(ids)), zap.Int("ended", ended))
	}
	return ended
}

func (s *Sweeper) endOne(ctx context.Context, id uuid.UUID) bool {
	if s.locker != nil {
		release, ok, err := s.locker.Acquire(ctx, id)
		if err != nil {
			zap.L().Error("sweep_lock_failed", zap.Stringer("auction_id", id), zap.Error(err))
			return false
		}
		if !ok {
			zap.L().Debug("sweep_lock_held", zap.Stringer("auction_id", id))
			return false
		}
		defer release()
	}

	// Shutdown stops the loop between auctions, never inside a finalisation.
	_, err := s.svc.EndAuction(context.WithoutCancel(ctx), auctionsvc.EndAuctionCommand{AuctionID: id, CallerID: s.systemID})
	if err != nil {
		if auction.KindOf(err) == auction.KindRule {
			zap.L().Info("sweep_end_skipped", zap.Stringer("auction_id", id), zap.Error(err))
		} else {
			zap.L().Error("sweep_end_failed", zap.Stringer("auction_id", id), zap.Error(err))
		}
		return false
	}
	return true
}

// cronLogger routes cron's own logging to zap.
type cronLogger struct {
	log *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
