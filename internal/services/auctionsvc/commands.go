package auctionsvc

import (
	"time"

	"auctionhouse/internal/auction"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateAuctionCommand struct {
	SellerID        uuid.UUID        `validate:"required"`
	Title           string           `validate:"required,min=3,max=100"`
	Description     string           `validate:"required,min=10,max=2000"`
	StartingPrice   decimal.Decimal
	MinBidIncrement decimal.Decimal
	EndTime         time.Time        `validate:"required"`
	CategoryID      uuid.UUID        `validate:"required"`
	Currency        auction.Currency `validate:"omitempty,oneof=ILS USD EUR"`
	MediaURLs       []string         `validate:"required,min=1,max=10,dive,url"`
}

type PlaceBidCommand struct {
	AuctionID uuid.UUID `validate:"required"`
	BidderID  uuid.UUID `validate:"required"`
	Amount    decimal.Decimal
}

type EndAuctionCommand struct {
	AuctionID uuid.UUID `validate:"required"`
	CallerID  uuid.UUID `validate:"required"`
}

type CancelAuctionCommand struct {
	AuctionID uuid.UUID `validate:"required"`
	CallerID  uuid.UUID `validate:"required"`
}

type DeleteAuctionCommand struct {
	AuctionID uuid.UUID `validate:"required"`
	CallerID  uuid.UUID `validate:"required"`
}

// UpdateAuctionCommand carries a partial update; nil fields stay unchanged.
// MediaURLs replaces all media only when ReplaceMedia is set.
type UpdateAuctionCommand struct {
	AuctionID       uuid.UUID `validate:"required"`
	CallerID        uuid.UUID `validate:"required"`
	Title           *string   `validate:"omitempty,min=3,max=100"`
	Description     *string   `validate:"omitempty,min=10,max=2000"`
	MinBidIncrement *decimal.Decimal
	EndTime         *time.Time
	CategoryID      *uuid.UUID
	Status          *auction.Status `validate:"omitempty,oneof=Active Sold Cancelled"`
	ReplaceMedia    bool
	MediaURLs       []string `validate:"omitempty,max=10,dive,url"`
}

type ListAuctionsQuery struct {
	Status   auction.Status
	SellerID uuid.UUID
	Limit    int
	Offset   int
}
