package notification

import (
	"context"
	"fmt"
	"time"

	"auctionhouse/internal/auction"
	"auctionhouse/internal/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionReader resolves the auction an event refers to.
type AuctionReader interface {
	Auction(ctx context.Context, id uuid.UUID) (auction.Auction, error)
}

// Generator turns auction events into per-user notifications. Each handler
// writes its rows in one call to the store.
type Generator struct {
	store    auction.NotificationStore
	auctions AuctionReader
	now      func() time.Time
}

func NewGenerator(store auction.NotificationStore, auctions AuctionReader) *Generator {
	return &Generator{store: store, auctions: auctions, now: time.Now}
}

// Register subscribes the generator to every event it has a notification for.
func (g *Generator) Register(reg *events.Registry) {
	reg.Subscribe(auction.EventAuctionCreated, events.HandlerFunc(g.auctionCreated))
	reg.Subscribe(auction.EventAuctionUpdated, events.HandlerFunc(g.auctionUpdated))
	reg.Subscribe(auction.EventAuctionEnded, events.HandlerFunc(g.auctionEnded))
	reg.Subscribe(auction.EventAuctionCancelled, events.HandlerFunc(g.auctionCancelled))
	reg.Subscribe(auction.EventAuctionDeleted, events.HandlerFunc(g.auctionDeleted))
	reg.Subscribe(auction.EventBidPlaced, events.HandlerFunc(g.bidPlaced))
	reg.Subscribe(auction.EventBidCancelled, events.HandlerFunc(g.bidCancelled))
	reg.Subscribe(auction.EventTransactionCreated, events.HandlerFunc(g.transactionCreated))
}

func (g *Generator) note(userID uuid.UUID, kind auction.NotificationType, title, msg string) auction.Notification {
	return auction.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Message:   msg,
		Type:      kind,
		CreatedAt: g.now().UTC(),
	}
}

func money(amount decimal.Decimal, cur auction.Currency) string {
	return amount.StringFixed(2) + " " + string(cur)
}

func (g *Generator) auctionCreated(ctx context.Context, ev events.Event) error {
	e, ok := ev.(auction.AuctionCreated)
	if !ok {
		return fmt.Errorf("unexpected event %T", ev)
	}
	return g.store.InsertNotifications(ctx, []auction.Notification{
		g.note(e.SellerID, auction.NotifyAuctionCreated, "Auction Created Successfully",
			fmt.Sprintf("Your auction '%s' has been created with a starting price of %s. The auction will end on %s",
				e.Title, money(e.StartingPrice, e.Currency), e.EndTime.UTC().Format(time.RFC1123))),
	})
}

func (g *Generator) auctionUpdated(ctx context.Context, ev events.Event) error {
	e, ok := ev.(auction.AuctionUpdated)
	if !ok {
		return fmt.Errorf("unexpected event %T", ev)
	}
	return g.store.InsertNotifications(ctx, []auction.Notification{
		g.note(e.SellerID, auction.NotifyAuctionUpdated, "Auction Updated",
			fmt.Sprintf("Your auction '%s' has been updated. Current status: %s", e.Title, e.Status)),
	})
}

func (g *Generator) auctionEnded(ctx context.Context, ev events.Event) error {
	e, ok := ev.(auction.AuctionEnded)
	if !ok {
		return fmt.Errorf("unexpected event %T", ev)
	}
	price := money(e.FinalPrice, e.Currency)
	return g.store.InsertNotifications(ctx, []auction.Notification{
		g.note(e.SellerID, auction.NotifyAuctionEnded, "Auction Ended",
			fmt.Sprintf("Your auction '%s' has ended with a winning bid of %s", e.Title, price)),
		g.note(e.WinnerID, auction.NotifyAuctionWon, "Auction Won!",
			fmt.Sprintf("Congratulations! You won the auction '%s' with your bid of %s", e.Title, price)),
	})
}

func (g *Generator) auctionCancelled(ctx context.Context, ev events.Event) error {
	e, ok := ev.(auction.AuctionCancelled)
	if !ok {
		return fmt.Errorf("unexpected event %T", ev)
	}
	ns := make([]auction.Notification, 0, len(e.BidderIDs)+1)
	for _, bidder := range e.BidderIDs {
		ns = append(ns, g.note(bidder, auction.NotifyAuctionCancelled, "Auction Cancelled",
			fmt.Sprintf("The auction '%s' has been cancelled by the seller. Any pending bids will be refunded.", e.Title)))
	}
	ns = append(ns, g.note(e.SellerID, auction.NotifyAuctionCancelled, "Auction Cancelled Successfully",
		fmt.Sprintf("Your auction '%s' has been cancelled successfully. All bidders have been notified.", e.Title)))
	return g.store.InsertNotifications(ctx, ns)
}

// auctionDeleted uses only the event; the row is gone by the time it runs.
func (g *Generator) auctionDeleted(ctx context.Context, ev events.Event) error {
	e, ok := ev.(auction.AuctionDeleted)
	if !ok {
		return fmt.Errorf("unexpected event %T", ev)
	}
	return g.store.InsertNotifications(ctx, []auction.Notification{
		g.note(e.SellerID, auction.NotifyAuctionDeleted, "Auction Deleted",
			fmt.Sprintf("Your auction '%s' has been deleted", e.Title)),
	})
}

func (g *Generator) bidPlaced(ctx context.Context, ev events.Event) error {
	e, ok := ev.(auction.BidPlaced)
	if !ok {
		return fmt.Errorf("unexpected event %T", ev)
	}
	a, err := g.auctions.Auction(ctx, e.AuctionID)
	if err != nil {
		return err
	}
	amount := money(e.Amount, a.Currency)

	ns := []auction.Notification{
		g.note(a.SellerID, auction.NotifyBidReceived, "New Bid Received",
			fmt.Sprintf("A new bid of %s has been placed on your auction '%s'", amount, a.Title)),
	}
	if e.PreviousWinnerID != nil && *e.PreviousWinnerID != e.BidderID {
		ns = append(ns, g.note(*e.PreviousWinnerID, auction.NotifyOutbid, "You've Been Outbid",
			fmt.Sprintf("Someone has placed a higher bid of %s on '%s'", amount, a.Title)))
	}
	if e.IsHighest {
		ns = append(ns, g.note(e.BidderID, auction.NotifyBidPlaced, "Highest Bid Placed!",
			fmt.Sprintf("Your bid of %s is currently the highest bid on '%s'", amount, a.Title)))
	} else {
		ns = append(ns, g.note(e.BidderID, auction.NotifyBidPlaced, "Bid Placed Successfully",
			fmt.Sprintf("Your bid of %s has been placed on '%s', but it's not the highest bid", amount, a.Title)))
	}
	return g.store.InsertNotifications(ctx, ns)
}

func (g *Generator) bidCancelled(ctx context.Context, ev events.Event) error {
	e, ok := ev.(auction.BidCancelled)
	if !ok {
		return fmt.Errorf("unexpected event %T", ev)
	}
	a, err := g.auctions.Auction(ctx, e.AuctionID)
	if err != nil {
		return err
	}
	return g.store.InsertNotifications(ctx, []auction.Notification{
		g.note(e.BidderID, auction.NotifyBidCancelled, "Bid Cancelled",
			fmt.Sprintf("Your bid of %s on '%s' has been cancelled. Any pending amount will be refunded.",
				money(e.Amount, a.Currency), a.Title)),
	})
}

func (g *Generator) transactionCreated(ctx context.Context, ev events.Event) error {
	e, ok := ev.(auction.TransactionCreated)
	if !ok {
		return fmt.Errorf("unexpected event %T", ev)
	}
	a, err := g.auctions.Auction(ctx, e.AuctionID)
	if err != nil {
		return err
	}
	amount := money(e.Amount, e.Currency)
	return g.store.InsertNotifications(ctx, []auction.Notification{
		g.note(e.BuyerID, auction.NotifyPaymentRequired, "Payment Required",
			fmt.Sprintf("Please complete the payment of %s for winning the auction '%s'. The seller will be notified once the payment is processed.",
				amount, a.Title)),
		g.note(e.SellerID, auction.NotifyTransactionCreated, "Transaction Created",
			fmt.Sprintf("A transaction for %s has been created for your auction '%s'. You will be notified once the buyer completes the payment.",
				amount, a.Title)),
	})
}
