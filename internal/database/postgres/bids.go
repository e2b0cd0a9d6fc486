package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"auctionhouse/internal/auction"

	"github.com/google/uuid"
)

const bidSelect = `SELECT id, auction_id, bidder_id, amount, is_winning, created_at FROM bids`

func scanBid(row scanner) (auction.Bid, error) {
	var b auction.Bid
	err := row.Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.Amount, &b.IsWinning, &b.CreatedAt)
	return b, err
}

func (q *Queries) WinningBid(ctx context.Context, auctionID uuid.UUID) (*auction.Bid, error) {
	b, err := scanBid(q.db.QueryRowContext(ctx,
		bidSelect+` WHERE auction_id = $1 AND is_winning LIMIT 1`, auctionID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (q *Queries) AuctionBids(ctx context.Context, auctionID uuid.UUID) ([]auction.Bid, error) {
	return q.listBids(ctx, bidSelect+` WHERE auction_id = $1 ORDER BY created_at, id`, auctionID)
}

func (q *Queries) UserBids(ctx context.Context, bidderID uuid.UUID, limit, offset int) ([]auction.Bid, error) {
	if limit == 0 {
		limit = 10
	}
	return q.listBids(ctx,
		bidSelect+` WHERE bidder_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		bidderID, limit, offset)
}

func (q *Queries) listBids(ctx context.Context, query string, args ...any) ([]auction.Bid, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := []auction.Bid{}
	for rows.Next() {
		b, err := scanBid(rows)
		if err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	return bids, rows.Err()
}

func (q *Queries) CountBids(ctx context.Context, auctionID uuid.UUID) (int, error) {
	var n int
	err := q.db.QueryRowContext(ctx, `SELECT count(*) FROM bids WHERE auction_id = $1`, auctionID).Scan(&n)
	return n, err
}

func (q *Queries) InsertBid(ctx context.Context, b auction.Bid) error {
	const ins = `
	  INSERT INTO bids (id, auction_id, bidder_id, amount, is_winning, created_at)
	       VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := q.db.ExecContext(ctx, ins,
		b.ID, b.AuctionID, b.BidderID, b.Amount, b.IsWinning, b.CreatedAt); err != nil {
		return fmt.Errorf("insert bid: %w", err)
	}
	return nil
}

func (q *Queries) SetBidWinning(ctx context.Context, bidID uuid.UUID, winning bool) error {
	res, err := q.db.ExecContext(ctx, `UPDATE bids SET is_winning = $2 WHERE id = $1`, bidID, winning)
	if err != nil {
		return fmt.Errorf("flip winning bid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return auction.ErrBidNotFound
	}
	return nil
}

func (q *Queries) ClearWinningBids(ctx context.Context, auctionID uuid.UUID) error {
	if _, err := q.db.ExecContext(ctx,
		`UPDATE bids SET is_winning = false WHERE auction_id = $1 AND is_winning`, auctionID); err != nil {
		return fmt.Errorf("clear winning bids: %w", err)
	}
	return nil
}
