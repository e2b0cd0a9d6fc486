package auctionsvc

import (
	"context"

	"auctionhouse/internal/auction"

	"github.com/google/uuid"
)

func (svc *auctionService) CreateAuction(ctx context.Context, cmd CreateAuctionCommand) (*AuctionDTO, error) {
	if err := svc.check(cmd); err != nil {
		return nil, err
	}
	repo := svc.uow.Repo()
	if _, err := repo.User(ctx, cmd.SellerID); err != nil {
		return nil, fail("create_auction", uuid.Nil, err)
	}
	ok, err := repo.CategoryExists(ctx, cmd.CategoryID)
	if err != nil {
		return nil, fail("create_auction", uuid.Nil, err)
	}
	if !ok {
		return nil, auction.ErrInvalidCategory
	}

	created, err := auction.New(auction.Draft{
		SellerID:        cmd.SellerID,
		CategoryID:      cmd.CategoryID,
		Title:           cmd.Title,
		Description:     cmd.Description,
		StartingPrice:   cmd.StartingPrice,
		MinBidIncrement: cmd.MinBidIncrement,
		EndTime:         cmd.EndTime,
		Currency:        cmd.Currency,
		MediaURLs:       cmd.MediaURLs,
	}, svc.now())
	if err != nil {
		return nil, err
	}

	err = svc.uow.WithinTx(ctx, func(ctx context.Context, repo auction.Repository) error {
		if err := repo.InsertAuction(ctx, created.Auction); err != nil {
			return err
		}
		return repo.InsertMedia(ctx, created.Media)
	})
	if err != nil {
		return nil, fail("create_auction", created.Auction.ID, err)
	}

	svc.publish(ctx, created.Events)
	return svc.details(ctx, "create_auction", created.Auction.ID)
}

// PlaceBid reads the winning bid and writes the new one while holding the
// auction row lock, so concurrent bids on one auction are serialised.
func (svc *auctionService) PlaceBid(ctx context.Context, cmd PlaceBidCommand) (*BidDTO, error) {
	if err := svc.check(cmd); err != nil {
		return nil, err
	}
	if _, err := svc.uow.Repo().User(ctx, cmd.BidderID); err != nil {
		return nil, fail("place_bid", cmd.AuctionID, err)
	}

	var placed auction.Placed
	err := svc.uow.WithinTx(ctx, func(ctx context.Context, repo auction.Repository) error {
		a, err := repo.AuctionForUpdate(ctx, cmd.AuctionID)
		if err != nil {
			return err
		}
		winning, err := repo.WinningBid(ctx, a.ID)
		if err != nil {
			return err
		}
		placed, err = auction.PlaceBid(a, winning, cmd.BidderID, cmd.Amount, svc.now())
		if err != nil {
			return err
		}

		// the partial unique index allows one winner, so demote before insert
		if placed.Outbid != nil {
			if err := repo.SetBidWinning(ctx, placed.Outbid.ID, false); err != nil {
				return err
			}
		}
		if err := repo.InsertBid(ctx, placed.Bid); err != nil {
			return err
		}
		return repo.UpdateAuction(ctx, placed.Auction)
	})
	if err != nil {
		return nil, fail("place_bid", cmd.AuctionID, err)
	}

	svc.publish(ctx, placed.Events)
	dto := toBidDTO(placed.Bid)
	return &dto, nil
}

func (svc *auctionService) EndAuction(ctx context.Context, cmd EndAuctionCommand) (*AuctionDTO, error) {
	if err := svc.check(cmd); err != nil {
		return nil, err
	}
	caller, err := svc.uow.Repo().User(ctx, cmd.CallerID)
	if err != nil {
		return nil, fail("end_auction", cmd.AuctionID, err)
	}

	var ended auction.Ended
	err = svc.uow.WithinTx(ctx, func(ctx context.Context, repo auction.Repository) error {
		a, err := repo.AuctionForUpdate(ctx, cmd.AuctionID)
		if err != nil {
			return err
		}
		winning, err := repo.WinningBid(ctx, a.ID)
		if err != nil {
			return err
		}
		count, err := repo.CountBids(ctx, a.ID)
		if err != nil {
			return err
		}
		ended, err = auction.End(a, caller, winning, count, svc.now())
		if err != nil {
			return err
		}

		if err := repo.UpdateAuction(ctx, ended.Auction); err != nil {
			return err
		}
		return repo.InsertTransaction(ctx, ended.Transaction)
	})
	if err != nil {
		return nil, fail("end_auction", cmd.AuctionID, err)
	}

	svc.publish(ctx, ended.Events)
	return svc.details(ctx, "end_auction", cmd.AuctionID)
}

func (svc *auctionService) CancelAuction(ctx context.Context, cmd CancelAuctionCommand) (*AuctionDTO, error) {
	if err := svc.check(cmd); err != nil {
		return nil, err
	}
	caller, err := svc.uow.Repo().User(ctx, cmd.CallerID)
	if err != nil {
		return nil, fail("cancel_auction", cmd.AuctionID, err)
	}

	var cancelled auction.Cancelled
	err = svc.uow.WithinTx(ctx, func(ctx context.Context, repo auction.Repository) error {
		a, err := repo.AuctionForUpdate(ctx, cmd.AuctionID)
		if err != nil {
			return err
		}
		bids, err := repo.AuctionBids(ctx, a.ID)
		if err != nil {
			return err
		}
		cancelled, err = auction.Cancel(a, caller, bids, svc.now())
		if err != nil {
			return err
		}

		if err := repo.UpdateAuction(ctx, cancelled.Auction); err != nil {
			return err
		}
		return repo.ClearWinningBids(ctx, a.ID)
	})
	if err != nil {
		return nil, fail("cancel_auction", cmd.AuctionID, err)
	}

	svc.publish(ctx, cancelled.Events)
	return svc.details(ctx, "cancel_auction", cmd.AuctionID)
}

func (svc *auctionService) UpdateAuction(ctx context.Context, cmd UpdateAuctionCommand) (*AuctionDTO, error) {
	if err := svc.check(cmd); err != nil {
		return nil, err
	}
	repo := svc.uow.Repo()
	caller, err := repo.User(ctx, cmd.CallerID)
	if err != nil {
		return nil, fail("update_auction", cmd.AuctionID, err)
	}
	if cmd.CategoryID != nil {
		ok, err := repo.CategoryExists(ctx, *cmd.CategoryID)
		if err != nil {
			return nil, fail("update_auction", cmd.AuctionID, err)
		}
		if !ok {
			return nil, auction.ErrInvalidCategory
		}
	}

	changes := auction.Changes{
		Title:           cmd.Title,
		Description:     cmd.Description,
		MinBidIncrement: cmd.MinBidIncrement,
		EndTime:         cmd.EndTime,
		CategoryID:      cmd.CategoryID,
		Status:          cmd.Status,
		ReplaceMedia:    cmd.ReplaceMedia,
		MediaURLs:       cmd.MediaURLs,
	}

	var updated auction.Updated
	err = svc.uow.WithinTx(ctx, func(ctx context.Context, repo auction.Repository) error {
		a, err := repo.AuctionForUpdate(ctx, cmd.AuctionID)
		if err != nil {
			return err
		}
		updated, err = auction.Update(a, caller, changes, svc.now())
		if err != nil {
			return err
		}

		if err := repo.UpdateAuction(ctx, updated.Auction); err != nil {
			return err
		}
		if updated.MediaReplaced {
			if err := repo.ReplaceMedia(ctx, a.ID, updated.Media); err != nil {
				return err
			}
		}
		if updated.ClearWinning {
			return repo.ClearWinningBids(ctx, a.ID)
		}
		return nil
	})
	if err != nil {
		return nil, fail("update_auction", cmd.AuctionID, err)
	}

	svc.publish(ctx, updated.Events)
	return svc.details(ctx, "update_auction", cmd.AuctionID)
}

func (svc *auctionService) DeleteAuction(ctx context.Context, cmd DeleteAuctionCommand) error {
	if err := svc.check(cmd); err != nil {
		return err
	}
	caller, err := svc.uow.Repo().User(ctx, cmd.CallerID)
	if err != nil {
		return fail("delete_auction", cmd.AuctionID, err)
	}

	var deleted auction.Deleted
	err = svc.uow.WithinTx(ctx, func(ctx context.Context, repo auction.Repository) error {
		a, err := repo.AuctionForUpdate(ctx, cmd.AuctionID)
		if err != nil {
			return err
		}
		count, err := repo.CountBids(ctx, a.ID)
		if err != nil {
			return err
		}
		deleted, err = auction.Delete(a, caller, count, svc.now())
		if err != nil {
			return err
		}
		return repo.DeleteAuction(ctx, a.ID)
	})
	if err != nil {
		return fail("delete_auction", cmd.AuctionID, err)
	}

	svc.publish(ctx, deleted.Events)
	return nil
}
