package auction

import (
	"time"

	"auctionhouse/internal/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventAuctionCreated     events.Type = "auction.created"
	EventAuctionUpdated     events.Type = "auction.updated"
	EventAuctionEnded       events.Type = "auction.ended"
	EventAuctionCancelled   events.Type = "auction.cancelled"
	EventBidPlaced          events.Type = "bid.placed"
	EventBidCancelled       events.Type = "bid.cancelled"
	EventTransactionCreated events.Type = "transaction.created"
	EventAuctionDeleted     events.Type = "auction.deleted"
)

type AuctionCreated struct {
	events.BaseEvent
	SellerID        uuid.UUID       `json:"seller_id"`
	CategoryID      uuid.UUID       `json:"category_id"`
	Title           string          `json:"title"`
	StartingPrice   decimal.Decimal `json:"starting_price"`
	MinBidIncrement decimal.Decimal `json:"min_bid_increment"`
	Currency        Currency        `json:"currency"`
	EndTime         time.Time       `json:"end_time"`
	MediaURLs       []string        `json:"media_urls"`
}

// BidPlaced drives the seller, bidder and outbid notifications.
// PreviousWinnerID is nil for the first bid on an auction.
type BidPlaced struct {
	events.BaseEvent
	BidID            uuid.UUID       `json:"bid_id"`
	BidderID         uuid.UUID       `json:"bidder_id"`
	Amount           decimal.Decimal `json:"amount"`
	IsHighest        bool            `json:"is_highest"`
	PreviousWinnerID *uuid.UUID      `json:"previous_winner_id,omitempty"`
}

type AuctionEnded struct {
	events.BaseEvent
	SellerID   uuid.UUID       `json:"seller_id"`
	Title      string          `json:"title"`
	WinnerID   uuid.UUID       `json:"winner_id"`
	FinalPrice decimal.Decimal `json:"final_price"`
	Currency   Currency        `json:"currency"`
}

type TransactionCreated struct {
	events.BaseEvent
	TransactionID uuid.UUID       `json:"transaction_id"`
	BuyerID       uuid.UUID       `json:"buyer_id"`
	SellerID      uuid.UUID       `json:"seller_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      Currency        `json:"currency"`
}

type AuctionCancelled struct {
	events.BaseEvent
	SellerID  uuid.UUID   `json:"seller_id"`
	Title     string      `json:"title"`
	BidderIDs []uuid.UUID `json:"bidder_ids"`
}

type BidCancelled struct {
	events.BaseEvent
	BidID    uuid.UUID       `json:"bid_id"`
	BidderID uuid.UUID       `json:"bidder_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type AuctionUpdated struct {
	events.BaseEvent
	SellerID uuid.UUID `json:"seller_id"`
	Title    string    `json:"title"`
	Status   Status    `json:"status"`
}

// AuctionDeleted is recorded before the auction row is removed; consumers
// can no longer load the auction.
type AuctionDeleted struct {
	events.BaseEvent
	SellerID uuid.UUID `json:"seller_id"`
	Title    string    `json:"title"`
}
