package postgres

import (
	"context"
	"fmt"
	"time"

	"auctionhouse/internal/auction"

	"github.com/google/uuid"
)

// InsertNotifications writes all rows in one transaction.
func (s *Store) InsertNotifications(ctx context.Context, ns []auction.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	const ins = `
	  INSERT INTO notifications (id, user_id, title, message, type, is_read, created_at)
	       VALUES ($1, $2, $3, $4, $5, false, $6)`
	for _, n := range ns {
		if _, err := tx.ExecContext(ctx, ins, n.ID, n.UserID, n.Title, n.Message, n.Type, n.CreatedAt); err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}
	}
	return tx.Commit()
}

func (s *Store) ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]auction.Notification, error) {
	if limit == 0 {
		limit = 20
	}
	query := `
	  SELECT id, user_id, title, message, type, is_read, read_at, created_at
	    FROM notifications
	   WHERE user_id = $1`
	if unreadOnly {
		query += ` AND NOT is_read`
	}
	query += ` ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]auction.Notification, 0, limit)
	for rows.Next() {
		var n auction.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type,
			&n.IsRead, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

func (s *Store) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID).Scan(&n)
	return n, err
}

func (s *Store) MarkNotificationRead(ctx context.Context, userID, id uuid.UUID, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
	  UPDATE notifications
	     SET is_read = true, read_at = COALESCE(read_at, $3)
	   WHERE id = $1 AND user_id = $2`, id, userID, at)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return auction.ErrNotificationNotFound
	}
	return nil
}

func (s *Store) MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
	  UPDATE notifications
	     SET is_read = true, read_at = $2
	   WHERE user_id = $1 AND NOT is_read`, userID, at)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) DeleteNotification(ctx context.Context, userID, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return auction.ErrNotificationNotFound
	}
	return nil
}

func (s *Store) DeleteAllNotifications(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
