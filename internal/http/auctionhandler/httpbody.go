package auctionhandler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateAuctionBody struct {
	Title           string          `json:"title"             binding:"required"           example:"Vintage camera"`
	Description     string          `json:"description"       binding:"required"           example:"A working camera from the sixties"`
	StartingPrice   decimal.Decimal `json:"starting_price"    swaggertype:"string"         example:"100"`
	MinBidIncrement decimal.Decimal `json:"min_bid_increment" swaggertype:"string"         example:"10"`
	EndTime         time.Time       `json:"end_time"          binding:"required"           example:"2025-07-27T16:05:05Z"`
	CategoryID      uuid.UUID       `json:"category_id"       swaggertype:"string"         example:"6f1c2a9e-6a4e-4c57-9a3b-2f1f0f6d1a10"`
	Currency        string          `json:"currency"          binding:"omitempty"          example:"ILS"`
	MediaURLs       []string        `json:"media_urls"        binding:"required,min=1"`
} // @name CreateAuctionRequest

// UpdateAuctionBody is a partial update. media_urls, when present, replaces
// every media row of the auction.
type UpdateAuctionBody struct {
	Title           *string          `json:"title,omitempty"`
	Description     *string          `json:"description,omitempty"`
	MinBidIncrement *decimal.Decimal `json:"min_bid_increment,omitempty" swaggertype:"string" example:"15"`
	EndTime         *time.Time       `json:"end_time,omitempty"`
	CategoryID      *uuid.UUID       `json:"category_id,omitempty"       swaggertype:"string"`
	Status          *string          `json:"status,omitempty"            example:"Cancelled"`
	MediaURLs       *[]string        `json:"media_urls,omitempty"`
} // @name UpdateAuctionRequest

type PlaceBidBody struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"110"`
} // @name PlaceBidRequest

type ListAuctionsQuery struct {
	Status   string `form:"status"            binding:"omitempty,oneof=Active Sold Cancelled"`
	SellerID string `form:"seller_id"         binding:"omitempty,uuid"`
	Limit    int    `form:"limit,default=10"  binding:"gte=0,lte=100"`
	Offset   int    `form:"offset,default=0"  binding:"gte=0"`
} // @name ListAuctionsQuery

type PageQuery struct {
	Limit  int `form:"limit,default=20" binding:"gte=0,lte=100"`
	Offset int `form:"offset,default=0" binding:"gte=0"`
}
