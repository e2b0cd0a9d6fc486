// Package auctionsvc runs the auction lifecycle commands: each one opens a
// unit of work, applies the auction state machine under the auction row lock,
// commits, and only then hands the recorded events to the dispatcher.
package auctionsvc

import (
	"context"
	"errors"
	"time"

	"auctionhouse/internal/auction"
	"auctionhouse/internal/events"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type IAuctionService interface {
	CreateAuction(ctx context.Context, cmd CreateAuctionCommand) (*AuctionDTO, error)
	PlaceBid(ctx context.Context, cmd PlaceBidCommand) (*BidDTO, error)
	EndAuction(ctx context.Context, cmd EndAuctionCommand) (*AuctionDTO, error)
	CancelAuction(ctx context.Context, cmd CancelAuctionCommand) (*AuctionDTO, error)
	UpdateAuction(ctx context.Context, cmd UpdateAuctionCommand) (*AuctionDTO, error)
	DeleteAuction(ctx context.Context, cmd DeleteAuctionCommand) error

	GetAuction(ctx context.Context, id uuid.UUID) (*AuctionDTO, error)
	ListAuctions(ctx context.Context, q ListAuctionsQuery) ([]AuctionDTO, error)
	ListAuctionBids(ctx context.Context, auctionID uuid.UUID) ([]BidDTO, error)
	ListUserBids(ctx context.Context, bidderID uuid.UUID, limit, offset int) ([]BidDTO, error)
	FindEndedAuctions(ctx context.Context, before time.Time) ([]uuid.UUID, error)
}

// Dispatcher receives the events of a committed unit of work.
type Dispatcher interface {
	Dispatch(ctx context.Context, evs ...events.Event)
}

// Cache is the optional read-through store for GetAuction.
type Cache interface {
	Load(ctx context.Context, id uuid.UUID, dst any) (bool, error)
	Store(ctx context.Context, id uuid.UUID, v any) error
}

type auctionService struct {
	uow        auction.UnitOfWork
	dispatcher Dispatcher
	cache      Cache
	validate   *validator.Validate
	now        func() time.Time
}

var _ IAuctionService = (*auctionService)(nil)

type Option func(*auctionService)

func WithCache(c Cache) Option {
	return func(s *auctionService) { s.cache = c }
}

func WithClock(now func() time.Time) Option {
	return func(s *auctionService) { s.now = now }
}

func NewAuctionService(uow auction.UnitOfWork, dispatcher Dispatcher, opts ...Option) IAuctionService {
	svc := &auctionService{
		uow:        uow,
		dispatcher: dispatcher,
		validate:   validator.New(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// check runs the declarative field rules of a command.
func (svc *auctionService) check(cmd any) error {
	if err := svc.validate.Struct(cmd); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return auction.Invalid(verrs[0].Error())
		}
		return auction.Invalid(err.Error())
	}
	return nil
}

// publish hands committed events to consumers. Consumers outlive a client
// that disconnects after the commit.
func (svc *auctionService) publish(ctx context.Context, evs []events.Event) {
	svc.dispatcher.Dispatch(context.WithoutCancel(ctx), evs...)
}

// fail logs err at a level matching its kind and returns it unchanged.
func fail(op string, auctionID uuid.UUID, err error) error {
	fields := []zap.Field{zap.String("op", op), zap.Stringer("auction_id", auctionID), zap.Error(err)}
	switch auction.KindOf(err) {
	case auction.KindNotFound:
		zap.L().Error("aggregate_not_found", fields...)
	case auction.KindInternal:
		zap.L().Error("command_failed", fields...)
	default:
		zap.L().Debug("command_rejected", fields...)
	}
	return err
}

// details reloads the aggregate with its related rows after a commit.
func (svc *auctionService) details(ctx context.Context, op string, id uuid.UUID) (*AuctionDTO, error) {
	d, err := svc.uow.Repo().AuctionDetails(ctx, id)
	if err != nil {
		return nil, fail(op+"_reload", id, err)
	}
	dto := toAuctionDTO(d)
	return &dto, nil
}
