// Package postgres implements the auction repository and unit of work on
// database/sql with the pgx driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"auctionhouse/internal/auction"

	"go.uber.org/zap"
)

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries runs the repository statements against either the pool or an open
// transaction.
type Queries struct {
	db dbtx
}

type Store struct {
	db *sql.DB
	q  *Queries
}

var (
	_ auction.UnitOfWork        = (*Store)(nil)
	_ auction.NotificationStore = (*Store)(nil)
	_ auction.Repository        = (*Queries)(nil)
)

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, q: &Queries{db: db}}
}

// Repo returns queries bound to the pool, outside of any transaction.
func (s *Store) Repo() auction.Repository { return s.q }

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, repo auction.Repository) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(ctx, &Queries{db: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			zap.L().Error("tx_rollback", zap.Error(rbErr))
		}
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}
