package auction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

// Repository is the persistence boundary the lifecycle commands work against.
// Lookups of a single row return the matching Err*NotFound value when absent.
type Repository interface {
	User(ctx context.Context, id uuid.UUID) (User, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)

	Auction(ctx context.Context, id uuid.UUID) (Auction, error)
	// AuctionForUpdate locks the auction row until the surrounding transaction ends.
	AuctionForUpdate(ctx context.Context, id uuid.UUID) (Auction, error)
	AuctionDetails(ctx context.Context, id uuid.UUID) (Details, error)
	ListAuctions(ctx context.Context, f ListFilter) ([]Auction, error)
	FindActiveAuctionsEndingBefore(ctx context.Context, t time.Time) ([]uuid.UUID, error)
	InsertAuction(ctx context.Context, a Auction) error
	UpdateAuction(ctx context.Context, a Auction) error
	// DeleteAuction removes the auction and its media.
	DeleteAuction(ctx context.Context, id uuid.UUID) error

	// WinningBid returns nil when the auction has no bids.
	WinningBid(ctx context.Context, auctionID uuid.UUID) (*Bid, error)
	AuctionBids(ctx context.Context, auctionID uuid.UUID) ([]Bid, error)
	UserBids(ctx context.Context, bidderID uuid.UUID, limit, offset int) ([]Bid, error)
	CountBids(ctx context.Context, auctionID uuid.UUID) (int, error)
	InsertBid(ctx context.Context, b Bid) error
	SetBidWinning(ctx context.Context, bidID uuid.UUID, winning bool) error
	ClearWinningBids(ctx context.Context, auctionID uuid.UUID) error

	InsertMedia(ctx context.Context, media []Media) error
	ReplaceMedia(ctx context.Context, auctionID uuid.UUID, media []Media) error

	InsertTransaction(ctx context.Context, t Transaction) error
}

// UnitOfWork runs fn inside one database transaction. It commits when fn
// returns nil and rolls back otherwise, returning fn's error unchanged.
type UnitOfWork interface {
	Repo() Repository
	WithinTx(ctx context.Context, fn func(ctx context.Context, repo Repository) error) error
}

// NotificationStore persists the notification read model.
type NotificationStore interface {
	InsertNotifications(ctx context.Context, ns []Notification) error
	ListNotifications(ctx context.Context, userID uuid.UUID, unreadOnly bool, limit, offset int) ([]Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkNotificationRead(ctx context.Context, userID, id uuid.UUID, at time.Time) error
	MarkAllNotificationsRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	DeleteNotification(ctx context.Context, userID, id uuid.UUID) error
	DeleteAllNotifications(ctx context.Context, userID uuid.UUID) (int64, error)
}
