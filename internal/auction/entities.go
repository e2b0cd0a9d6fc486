package auction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive    Status = "Active"
	StatusSold      Status = "Sold"
	StatusCancelled Status = "Cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSold, StatusCancelled:
		return true
	}
	return false
}

type Currency string

const (
	CurrencyILS Currency = "ILS"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

func (c Currency) Valid() bool {
	switch c {
	case CurrencyILS, CurrencyUSD, CurrencyEUR:
		return true
	}
	return false
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type User struct {
	ID       uuid.UUID
	Username string
	Role     Role
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

type Category struct {
	ID       uuid.UUID
	Name     string
	ParentID *uuid.UUID
}

// Auction is the aggregate root. CurrentPrice stays invalid until the first
// accepted bid and then always equals the winning bid amount.
type Auction struct {
	ID              uuid.UUID
	SellerID        uuid.UUID
	CategoryID      uuid.UUID
	Title           string
	Description     string
	StartingPrice   decimal.Decimal
	MinBidIncrement decimal.Decimal
	CurrentPrice    decimal.NullDecimal
	Currency        Currency
	EndTime         time.Time
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Bid struct {
	ID        uuid.UUID
	AuctionID uuid.UUID
	BidderID  uuid.UUID
	Amount    decimal.Decimal
	IsWinning bool
	CreatedAt time.Time
}

type MediaType string

const MediaImage MediaType = "image"

type Media struct {
	ID        uuid.UUID
	AuctionID uuid.UUID
	URL       string
	Type      MediaType
	CreatedAt time.Time
}

type TransactionStatus string

const (
	TransactionPending    TransactionStatus = "Pending"
	TransactionProcessing TransactionStatus = "Processing"
	TransactionCompleted  TransactionStatus = "Completed"
	TransactionFailed     TransactionStatus = "Failed"
	TransactionRefunded   TransactionStatus = "Refunded"
	TransactionCancelled  TransactionStatus = "Cancelled"
)

// Transaction settles a sold auction between the winning bidder and the seller.
type Transaction struct {
	ID        uuid.UUID
	AuctionID uuid.UUID
	BuyerID   uuid.UUID
	SellerID  uuid.UUID
	Amount    decimal.Decimal
	Currency  Currency
	Status    TransactionStatus
	CreatedAt time.Time
}

type NotificationType string

const (
	NotifyAuctionCreated     NotificationType = "AuctionCreated"
	NotifyAuctionUpdated     NotificationType = "AuctionUpdated"
	NotifyAuctionEnded       NotificationType = "AuctionEnded"
	NotifyAuctionWon         NotificationType = "AuctionWon"
	NotifyAuctionCancelled   NotificationType = "AuctionCancelled"
	NotifyBidPlaced          NotificationType = "BidPlaced"
	NotifyBidReceived        NotificationType = "BidReceived"
	NotifyBidCancelled       NotificationType = "BidCancelled"
	NotifyOutbid             NotificationType = "Outbid"
	NotifyTransactionCreated NotificationType = "TransactionCreated"
	NotifyPaymentRequired    NotificationType = "PaymentRequired"
	NotifyAuctionDeleted     NotificationType = "AuctionDeleted"
)

// Notification rows are written only by event consumers.
type Notification struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Title     string
	Message   string
	Type      NotificationType
	IsRead    bool
	ReadAt    *time.Time
	CreatedAt time.Time
}

// Details is the auction with the related rows a response needs.
type Details struct {
	Auction
	SellerName   string
	CategoryName string
	BidCount     int
	MediaURLs    []string
}

type ListFilter struct {
	Status   Status
	SellerID uuid.UUID
	Limit    int
	Offset   int
}
