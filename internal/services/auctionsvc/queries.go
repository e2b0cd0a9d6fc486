package auctionsvc

import (
	"context"
	"time"

	"auctionhouse/internal/auction"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetAuction serves the details view, from the cache when it holds a copy.
// The cache only stores a copy when no entry or invalidation marker exists,
// so a read racing a commit cannot overwrite the invalidation.
func (svc *auctionService) GetAuction(ctx context.Context, id uuid.UUID) (*AuctionDTO, error) {
	if svc.cache != nil {
		var dto AuctionDTO
		hit, err := svc.cache.Load(ctx, id, &dto)
		if err != nil {
			zap.L().Warn("auction_cache_load", zap.Stringer("auction_id", id), zap.Error(err))
		}
		if hit {
			return &dto, nil
		}
	}

	dto, err := svc.details(ctx, "get_auction", id)
	if err != nil {
		return nil, err
	}
	if svc.cache != nil {
		if err := svc.cache.Store(ctx, id, dto); err != nil {
			zap.L().Warn("auction_cache_store", zap.Stringer("auction_id", id), zap.Error(err))
		}
	}
	return dto, nil
}

func (svc *auctionService) ListAuctions(ctx context.Context, q ListAuctionsQuery) ([]AuctionDTO, error) {
	if q.Status != "" && !q.Status.Valid() {
		return nil, auction.ErrInvalidStatus
	}
	list, err := svc.uow.Repo().ListAuctions(ctx, auction.ListFilter{
		Status:   q.Status,
		SellerID: q.SellerID,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		return nil, err
	}
	out := make([]AuctionDTO, 0, len(list))
	for _, a := range list {
		out = append(out, fromAuction(a))
	}
	return out, nil
}

func (svc *auctionService) ListAuctionBids(ctx context.Context, auctionID uuid.UUID) ([]BidDTO, error) {
	repo := svc.uow.Repo()
	if _, err := repo.Auction(ctx, auctionID); err != nil {
		return nil, fail("list_bids", auctionID, err)
	}
	bids, err := repo.AuctionBids(ctx, auctionID)
	if err != nil {
		return nil, err
	}
	return toBidDTOs(bids), nil
}

func (svc *auctionService) ListUserBids(ctx context.Context, bidderID uuid.UUID, limit, offset int) ([]BidDTO, error) {
	bids, err := svc.uow.Repo().UserBids(ctx, bidderID, limit, offset)
	if err != nil {
		return nil, err
	}
	return toBidDTOs(bids), nil
}

// FindEndedAuctions lists active auctions whose end time is not after before
// and that received at least one bid.
func (svc *auctionService) FindEndedAuctions(ctx context.Context, before time.Time) ([]uuid.UUID, error) {
	return svc.uow.Repo().FindActiveAuctionsEndingBefore(ctx, before)
}
