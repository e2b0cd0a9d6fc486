package auction

import (
	"time"

	"auctionhouse/internal/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// EndWindow is how early before its end time an auction may be ended.
	EndWindow = 5 * time.Minute

	MinDuration = time.Hour
	MaxDuration = 30 * 24 * time.Hour
	MaxMedia    = 10

	// MoneyScale is the number of decimal places stored for every amount.
	MoneyScale = 2
)

// Draft is the input for a new auction.
type Draft struct {
	SellerID        uuid.UUID
	CategoryID      uuid.UUID
	Title           string
	Description     string
	StartingPrice   decimal.Decimal
	MinBidIncrement decimal.Decimal
	EndTime         time.Time
	Currency        Currency
	MediaURLs       []string
}

type Created struct {
	Auction Auction
	Media   []Media
	Events  []events.Event
}

// New opens an auction in Active status with one Media row per URL.
func New(d Draft, now time.Time) (Created, error) {
	if !d.StartingPrice.IsPositive() {
		return Created{}, ErrInvalidAmount
	}
	if err := checkScale(d.StartingPrice); err != nil {
		return Created{}, err
	}
	if err := checkIncrement(d.MinBidIncrement, d.StartingPrice); err != nil {
		return Created{}, err
	}
	if err := checkEndTime(d.EndTime, now); err != nil {
		return Created{}, err
	}
	if d.Currency == "" {
		d.Currency = CurrencyILS
	}
	if !d.Currency.Valid() {
		return Created{}, ErrInvalidCurrency
	}
	if len(d.MediaURLs) == 0 {
		return Created{}, ErrMissingMedia
	}
	if len(d.MediaURLs) > MaxMedia {
		return Created{}, ErrTooManyMedia
	}

	now = now.UTC()
	a := Auction{
		ID:              uuid.New(),
		SellerID:        d.SellerID,
		CategoryID:      d.CategoryID,
		Title:           d.Title,
		Description:     d.Description,
		StartingPrice:   d.StartingPrice,
		MinBidIncrement: d.MinBidIncrement,
		Currency:        d.Currency,
		EndTime:         d.EndTime.UTC(),
		Status:          StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	media := newMedia(a.ID, d.MediaURLs, now)

	ev := AuctionCreated{
		BaseEvent:       events.NewBaseEvent(EventAuctionCreated, a.ID, now),
		SellerID:        a.SellerID,
		CategoryID:      a.CategoryID,
		Title:           a.Title,
		StartingPrice:   a.StartingPrice,
		MinBidIncrement: a.MinBidIncrement,
		Currency:        a.Currency,
		EndTime:         a.EndTime,
		MediaURLs:       append([]string(nil), d.MediaURLs...),
	}
	return Created{Auction: a, Media: media, Events: []events.Event{ev}}, nil
}

type Placed struct {
	Auction Auction
	Bid     Bid
	// Outbid is the previous winning bid with IsWinning cleared, nil on the first bid.
	Outbid *Bid
	Events []events.Event
}

// MinimumBid is the lowest amount PlaceBid accepts given the current winner.
func MinimumBid(a Auction, winning *Bid) decimal.Decimal {
	if winning == nil {
		return a.StartingPrice
	}
	return winning.Amount.Add(a.MinBidIncrement)
}

// PlaceBid decides a proposed bid. winning must be the auction's current
// winning bid read under the auction row lock.
func PlaceBid(a Auction, winning *Bid, bidderID uuid.UUID, amount decimal.Decimal, now time.Time) (Placed, error) {
	if !amount.IsPositive() {
		return Placed{}, ErrInvalidAmount
	}
	if err := checkScale(amount); err != nil {
		return Placed{}, err
	}
	if a.Status != StatusActive {
		return Placed{}, ErrAuctionNotActive
	}
	if !now.Before(a.EndTime) {
		return Placed{}, ErrAuctionClosed
	}
	if bidderID == a.SellerID {
		return Placed{}, ErrSellerCannotBid
	}
	if amount.LessThan(MinimumBid(a, winning)) {
		return Placed{}, ErrBidTooLow
	}

	now = now.UTC()
	out := Placed{}
	var previous *uuid.UUID
	if winning != nil {
		outbid := *winning
		outbid.IsWinning = false
		out.Outbid = &outbid
		previous = &outbid.BidderID
	}

	out.Bid = Bid{
		ID:        uuid.New(),
		AuctionID: a.ID,
		BidderID:  bidderID,
		Amount:    amount,
		IsWinning: true,
		CreatedAt: now,
	}

	a.CurrentPrice = decimal.NewNullDecimal(amount)
	a.UpdatedAt = now
	out.Auction = a

	out.Events = []events.Event{BidPlaced{
		BaseEvent:        events.NewBaseEvent(EventBidPlaced, a.ID, now),
		BidID:            out.Bid.ID,
		BidderID:         bidderID,
		Amount:           amount,
		IsHighest:        true,
		PreviousWinnerID: previous,
	}}
	return out, nil
}

type Ended struct {
	Auction     Auction
	Transaction Transaction
	Events      []events.Event
}

// End sells the auction to its winning bid.
func End(a Auction, caller User, winning *Bid, bidCount int, now time.Time) (Ended, error) {
	if caller.ID != a.SellerID && !caller.IsAdmin() {
		return Ended{}, ErrNotSellerOrAdmin
	}
	if a.Status != StatusActive {
		return Ended{}, ErrAuctionNotActive
	}
	if bidCount == 0 {
		return Ended{}, ErrNoBids
	}
	if a.EndTime.After(now.Add(EndWindow)) {
		return Ended{}, ErrNotEnding
	}
	if winning == nil {
		return Ended{}, ErrNoWinningBid
	}

	now = now.UTC()
	a.Status = StatusSold
	a.CurrentPrice = decimal.NewNullDecimal(winning.Amount)
	a.UpdatedAt = now

	tx := Transaction{
		ID:        uuid.New(),
		AuctionID: a.ID,
		BuyerID:   winning.BidderID,
		SellerID:  a.SellerID,
		Amount:    winning.Amount,
		Currency:  a.Currency,
		Status:    TransactionPending,
		CreatedAt: now,
	}

	return Ended{
		Auction:     a,
		Transaction: tx,
		Events: []events.Event{
			AuctionEnded{
				BaseEvent:  events.NewBaseEvent(EventAuctionEnded, a.ID, now),
				SellerID:   a.SellerID,
				Title:      a.Title,
				WinnerID:   winning.BidderID,
				FinalPrice: winning.Amount,
				Currency:   a.Currency,
			},
			TransactionCreated{
				BaseEvent:     events.NewBaseEvent(EventTransactionCreated, a.ID, now),
				TransactionID: tx.ID,
				BuyerID:       tx.BuyerID,
				SellerID:      tx.SellerID,
				Amount:        tx.Amount,
				Currency:      tx.Currency,
			},
		},
	}, nil
}

type Cancelled struct {
	Auction Auction
	// Bids are all bids of the auction with IsWinning cleared.
	Bids   []Bid
	Events []events.Event
}

// Cancel closes an active auction without a sale. The AuctionCancelled event
// comes first, followed by one BidCancelled per bid in the order given.
func Cancel(a Auction, caller User, bids []Bid, now time.Time) (Cancelled, error) {
	if caller.ID != a.SellerID {
		return Cancelled{}, ErrNotSeller
	}
	if a.Status != StatusActive {
		return Cancelled{}, ErrAuctionNotActive
	}

	now = now.UTC()
	a.Status = StatusCancelled
	a.UpdatedAt = now

	cleared := make([]Bid, len(bids))
	bidders := make([]uuid.UUID, 0, len(bids))
	seen := make(map[uuid.UUID]struct{}, len(bids))
	for i, b := range bids {
		b.IsWinning = false
		cleared[i] = b
		if _, ok := seen[b.BidderID]; !ok {
			seen[b.BidderID] = struct{}{}
			bidders = append(bidders, b.BidderID)
		}
	}

	evs := make([]events.Event, 0, len(bids)+1)
	evs = append(evs, AuctionCancelled{
		BaseEvent: events.NewBaseEvent(EventAuctionCancelled, a.ID, now),
		SellerID:  a.SellerID,
		Title:     a.Title,
		BidderIDs: bidders,
	})
	for _, b := range cleared {
		evs = append(evs, BidCancelled{
			BaseEvent: events.NewBaseEvent(EventBidCancelled, a.ID, now),
			BidID:     b.ID,
			BidderID:  b.BidderID,
			Amount:    b.Amount,
		})
	}

	return Cancelled{Auction: a, Bids: cleared, Events: evs}, nil
}

// Changes lists the fields UpdateAuction may touch. Nil pointers are left
// unchanged. When ReplaceMedia is set MediaURLs replaces every existing media row.
type Changes struct {
	Title           *string
	Description     *string
	MinBidIncrement *decimal.Decimal
	EndTime         *time.Time
	CategoryID      *uuid.UUID
	Status          *Status
	ReplaceMedia    bool
	MediaURLs       []string
}

type Updated struct {
	Auction Auction
	// Media is the new media set, only meaningful when MediaReplaced.
	Media         []Media
	MediaReplaced bool
	// ClearWinning is set when the update cancels the auction.
	ClearWinning bool
	Events       []events.Event
}

// Update applies a partial change set. Category existence is the caller's
// concern since it needs the store.
func Update(a Auction, caller User, ch Changes, now time.Time) (Updated, error) {
	if caller.ID != a.SellerID {
		return Updated{}, ErrNotSeller
	}
	if a.Status == StatusSold {
		return Updated{}, ErrAuctionSold
	}

	out := Updated{}
	if ch.Status != nil {
		target := *ch.Status
		if !target.Valid() {
			return Updated{}, ErrInvalidStatus
		}
		if target == StatusSold || (a.Status == StatusCancelled && target == StatusActive) {
			return Updated{}, ErrIllegalTransition
		}
		if a.Status == StatusActive && target == StatusCancelled {
			out.ClearWinning = true
		}
		a.Status = target
	}
	if ch.MinBidIncrement != nil {
		if err := checkIncrement(*ch.MinBidIncrement, a.StartingPrice); err != nil {
			return Updated{}, err
		}
		a.MinBidIncrement = *ch.MinBidIncrement
	}
	if ch.EndTime != nil {
		if err := checkEndTime(*ch.EndTime, now); err != nil {
			return Updated{}, err
		}
		a.EndTime = ch.EndTime.UTC()
	}
	if ch.Title != nil {
		a.Title = *ch.Title
	}
	if ch.Description != nil {
		a.Description = *ch.Description
	}
	if ch.CategoryID != nil {
		a.CategoryID = *ch.CategoryID
	}

	now = now.UTC()
	if ch.ReplaceMedia {
		if len(ch.MediaURLs) > MaxMedia {
			return Updated{}, ErrTooManyMedia
		}
		out.Media = newMedia(a.ID, ch.MediaURLs, now)
		out.MediaReplaced = true
	}

	a.UpdatedAt = now
	out.Auction = a
	out.Events = []events.Event{AuctionUpdated{
		BaseEvent: events.NewBaseEvent(EventAuctionUpdated, a.ID, now),
		SellerID:  a.SellerID,
		Title:     a.Title,
		Status:    a.Status,
	}}
	return out, nil
}

type Deleted struct {
	AuctionID uuid.UUID
	Events    []events.Event
}

// Delete removes an auction nobody has bid on. Sold auctions are kept for
// their transaction.
func Delete(a Auction, caller User, bidCount int, now time.Time) (Deleted, error) {
	if caller.ID != a.SellerID {
		return Deleted{}, ErrNotSeller
	}
	if a.Status == StatusSold {
		return Deleted{}, ErrAuctionSold
	}
	if bidCount > 0 {
		return Deleted{}, ErrAuctionHasBids
	}

	return Deleted{
		AuctionID: a.ID,
		Events: []events.Event{AuctionDeleted{
			BaseEvent: events.NewBaseEvent(EventAuctionDeleted, a.ID, now),
			SellerID:  a.SellerID,
			Title:     a.Title,
		}},
	}, nil
}

func checkIncrement(inc, starting decimal.Decimal) error {
	if !inc.IsPositive() || !inc.LessThan(starting) {
		return ErrInvalidIncrement
	}
	return checkScale(inc)
}

// checkScale rejects amounts the NUMERIC(18,2) columns would round.
func checkScale(x decimal.Decimal) error {
	if !x.Equal(x.Round(MoneyScale)) {
		return ErrAmountScale
	}
	return nil
}

func checkEndTime(end, now time.Time) error {
	if !end.After(now.Add(MinDuration)) || !end.Before(now.Add(MaxDuration)) {
		return ErrInvalidEndTime
	}
	return nil
}

func newMedia(auctionID uuid.UUID, urls []string, now time.Time) []Media {
	media := make([]Media, 0, len(urls))
	for _, u := range urls {
		media = append(media, Media{
			ID:        uuid.New(),
			AuctionID: auctionID,
			URL:       u,
			Type:      MediaImage,
			CreatedAt: now,
		})
	}
	return media
}
