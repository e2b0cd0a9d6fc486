package auctionsvc

import (
	"time"

	"auctionhouse/internal/auction"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AuctionDTO struct {
	ID              uuid.UUID        `json:"id"`
	SellerID        uuid.UUID        `json:"seller_id"`
	SellerName      string           `json:"seller_name,omitempty"`
	CategoryID      uuid.UUID        `json:"category_id"`
	CategoryName    string           `json:"category_name,omitempty"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	StartingPrice   decimal.Decimal  `json:"starting_price"    swaggertype:"string" example:"100"`
	MinBidIncrement decimal.Decimal  `json:"min_bid_increment" swaggertype:"string" example:"10"`
	CurrentPrice    *decimal.Decimal `json:"current_price,omitempty" swaggertype:"string" example:"110"`
	Currency        auction.Currency `json:"currency"  example:"ILS"`
	EndTime         time.Time        `json:"end_time"  example:"2025-07-27T16:05:05Z"`
	Status          auction.Status   `json:"status"    example:"Active"`
	BidCount        int              `json:"bid_count"`
	MediaURLs       []string         `json:"media_urls,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
} // @name Auction

type BidDTO struct {
	ID        uuid.UUID       `json:"id"`
	AuctionID uuid.UUID       `json:"auction_id"`
	BidderID  uuid.UUID       `json:"bidder_id"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string" example:"110"`
	IsWinning bool            `json:"is_winning"`
	CreatedAt time.Time       `json:"created_at"`
} // @name Bid

func toAuctionDTO(d auction.Details) AuctionDTO {
	dto := fromAuction(d.Auction)
	dto.SellerName = d.SellerName
	dto.CategoryName = d.CategoryName
	dto.BidCount = d.BidCount
	dto.MediaURLs = d.MediaURLs
	return dto
}

func fromAuction(a auction.Auction) AuctionDTO {
	dto := AuctionDTO{
		ID:              a.ID,
		SellerID:        a.SellerID,
		CategoryID:      a.CategoryID,
		Title:           a.Title,
		Description:     a.Description,
		StartingPrice:   a.StartingPrice,
		MinBidIncrement: a.MinBidIncrement,
		Currency:        a.Currency,
		EndTime:         a.EndTime,
		Status:          a.Status,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.CurrentPrice.Valid {
		p := a.CurrentPrice.Decimal
		dto.CurrentPrice = &p
	}
	return dto
}

func toBidDTO(b auction.Bid) BidDTO {
	return BidDTO{
		ID:        b.ID,
		AuctionID: b.AuctionID,
		BidderID:  b.BidderID,
		Amount:    b.Amount,
		IsWinning: b.IsWinning,
		CreatedAt: b.CreatedAt,
	}
}

func toBidDTOs(bids []auction.Bid) []BidDTO {
	out := make([]BidDTO, 0, len(bids))
	for _, b := range bids {
		out = append(out, toBidDTO(b))
	}
	return out
}
