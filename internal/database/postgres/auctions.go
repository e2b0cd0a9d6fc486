package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"auctionhouse/internal/auction"

	"github.com/google/uuid"
)

const auctionSelect = `
	SELECT a.id, a.seller_id, a.category_id, a.title, a.description,
	       a.starting_price, a.min_bid_increment, a.current_price, a.currency,
	       a.end_time, a.status, a.created_at, a.updated_at
	  FROM auctions a`

func scanAuction(row scanner, extra ...any) (auction.Auction, error) {
	var a auction.Auction
	dest := []any{
		&a.ID, &a.SellerID, &a.CategoryID, &a.Title, &a.Description,
		&a.StartingPrice, &a.MinBidIncrement, &a.CurrentPrice, &a.Currency,
		&a.EndTime, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return a, auction.ErrAuctionNotFound
		}
		return a, err
	}
	return a, nil
}

func (q *Queries) Auction(ctx context.Context, id uuid.UUID) (auction.Auction, error) {
	return scanAuction(q.db.QueryRowContext(ctx, auctionSelect+` WHERE a.id = $1`, id))
}

func (q *Queries) AuctionForUpdate(ctx context.Context, id uuid.UUID) (auction.Auction, error) {
	return scanAuction(q.db.QueryRowContext(ctx, auctionSelect+` WHERE a.id = $1 FOR UPDATE`, id))
}

func (q *Queries) AuctionDetails(ctx context.Context, id uuid.UUID) (auction.Details, error) {
	const detailsQ = `
	  SELECT a.id, a.seller_id, a.category_id, a.title, a.description,
	         a.starting_price, a.min_bid_increment, a.current_price, a.currency,
	         a.end_time, a.status, a.created_at, a.updated_at,
	         u.username, c.name,
	         (SELECT count(*) FROM bids b WHERE b.auction_id = a.id)
	    FROM auctions a
	    JOIN users u      ON u.id = a.seller_id
	    JOIN categories c ON c.id = a.category_id
	   WHERE a.id = $1`

	var d auction.Details
	a, err := scanAuction(q.db.QueryRowContext(ctx, detailsQ, id), &d.SellerName, &d.CategoryName, &d.BidCount)
	if err != nil {
		return d, err
	}
	d.Auction = a

	rows, err := q.db.QueryContext(ctx,
		`SELECT url FROM media WHERE auction_id = $1 ORDER BY created_at, id`, id)
	if err != nil {
		return d, fmt.Errorf("auction media: %w", err)
	}
	defer rows.Close()

	d.MediaURLs = []string{}
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return d, err
		}
		d.MediaURLs = append(d.MediaURLs, url)
	}
	return d, rows.Err()
}

func (q *Queries) ListAuctions(ctx context.Context, f auction.ListFilter) ([]auction.Auction, error) {
	if f.Limit == 0 {
		f.Limit = 10
	}

	var (
		where []string
		args  []any
	)
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("a.status = $%d", len(args)))
	}
	if f.SellerID != uuid.Nil {
		args = append(args, f.SellerID)
		where = append(where, fmt.Sprintf("a.seller_id = $%d", len(args)))
	}

	query := auctionSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY a.end_time DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]auction.Auction, 0, f.Limit)
	for rows.Next() {
		a, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// FindActiveAuctionsEndingBefore lists active auctions past t that have at
// least one bid, oldest end time first.
func (q *Queries) FindActiveAuctionsEndingBefore(ctx context.Context, t time.Time) ([]uuid.UUID, error) {
	const q1 = `
	  SELECT a.id
	    FROM auctions a
	   WHERE a.status = $1
	     AND a.end_time <= $2
	     AND EXISTS (SELECT 1 FROM bids b WHERE b.auction_id = a.id)
	   ORDER BY a.end_time`

	rows, err := q.db.QueryContext(ctx, q1, auction.StatusActive, t)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (q *Queries) InsertAuction(ctx context.Context, a auction.Auction) error {
	const ins = `
	  INSERT INTO auctions (id, seller_id, category_id, title, description,
	                        starting_price, min_bid_increment, current_price, currency,
	                        end_time, status, created_at, updated_at)
	       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := q.db.ExecContext(ctx, ins,
		a.ID, a.SellerID, a.CategoryID, a.Title, a.Description,
		a.StartingPrice, a.MinBidIncrement, a.CurrentPrice, a.Currency,
		a.EndTime, a.Status, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert auction: %w", err)
	}
	return nil
}

func (q *Queries) UpdateAuction(ctx context.Context, a auction.Auction) error {
	const upd = `
	  UPDATE auctions
	     SET category_id = $2, title = $3, description = $4,
	         min_bid_increment = $5, current_price = $6, end_time = $7,
	         status = $8, updated_at = $9
	   WHERE id = $1`

	res, err := q.db.ExecContext(ctx, upd,
		a.ID, a.CategoryID, a.Title, a.Description,
		a.MinBidIncrement, a.CurrentPrice, a.EndTime,
		a.Status, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update auction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return auction.ErrAuctionNotFound
	}
	return nil
}

// DeleteAuction removes the media rows first, then the auction.
func (q *Queries) DeleteAuction(ctx context.Context, id uuid.UUID) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM media WHERE auction_id = $1`, id); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	res, err := q.db.ExecContext(ctx, `DELETE FROM auctions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete auction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return auction.ErrAuctionNotFound
	}
	return nil
}
