package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"auctionhouse/internal/auction"

	"github.com/google/uuid"
)

func (q *Queries) User(ctx context.Context, id uuid.UUID) (auction.User, error) {
	var u auction.User
	err := q.db.QueryRowContext(ctx,
		`SELECT id, username, role FROM users WHERE id = $1`, id).Scan(&u.ID, &u.Username, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return u, auction.ErrUserNotFound
	}
	return u, err
}

func (q *Queries) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := q.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

func (q *Queries) InsertMedia(ctx context.Context, media []auction.Media) error {
	const ins = `
	  INSERT INTO media (id, auction_id, url, type, created_at)
	       VALUES ($1, $2, $3, $4, $5)`
	for _, m := range media {
		if _, err := q.db.ExecContext(ctx, ins, m.ID, m.AuctionID, m.URL, m.Type, m.CreatedAt); err != nil {
			return fmt.Errorf("insert media: %w", err)
		}
	}
	return nil
}

// ReplaceMedia deletes every media row of the auction before inserting media.
func (q *Queries) ReplaceMedia(ctx context.Context, auctionID uuid.UUID, media []auction.Media) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM media WHERE auction_id = $1`, auctionID); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	return q.InsertMedia(ctx, media)
}

func (q *Queries) InsertTransaction(ctx context.Context, t auction.Transaction) error {
	const ins = `
	  INSERT INTO transactions (id, auction_id, buyer_id, seller_id, amount, currency, status, created_at)
	       VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := q.db.ExecContext(ctx, ins,
		t.ID, t.AuctionID, t.BuyerID, t.SellerID, t.Amount, t.Currency, t.Status, t.CreatedAt); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}
