package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"auctionhouse/internal/auction"
	"auctionhouse/internal/auction/mocks"
	"auctionhouse/internal/events"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*mocks.MockNotificationStore, *mocks.MockRepository, *events.Dispatcher) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockNotificationStore(ctrl)
	repo := mocks.NewMockRepository(ctrl)

	gen := NewGenerator(store, repo)
	gen.now = func() time.Time { return at }
	reg := events.NewRegistry()
	gen.Register(reg)
	return store, repo, events.NewDispatcher(reg)
}

func recipients(ns []auction.Notification) map[uuid.UUID]auction.NotificationType {
	out := make(map[uuid.UUID]auction.NotificationType, len(ns))
	for _, n := range ns {
		out[n.UserID] = n.Type
	}
	return out
}

func TestBidPlaced_NotifiesSellerOutbidAndBidder(t *testing.T) {
	store, repo, d := setup(t)
	seller, prev, bidder := uuid.New(), uuid.New(), uuid.New()
	a := auction.Auction{ID: uuid.New(), SellerID: seller, Title: "Oak desk", Currency: auction.CurrencyUSD}

	var got []auction.Notification
	repo.EXPECT().Auction(gomock.Any(), a.ID).Return(a, nil)
	store.EXPECT().InsertNotifications(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, ns []auction.Notification) { got = ns }).Return(nil)

	d.Dispatch(context.Background(), auction.BidPlaced{
		BaseEvent:        events.NewBaseEvent(auction.EventBidPlaced, a.ID, at),
		BidID:            uuid.New(),
		BidderID:         bidder,
		Amount:           decimal.NewFromInt(150),
		IsHighest:        true,
		PreviousWinnerID: &prev,
	})

	require.Len(t, got, 3)
	assert.Equal(t, map[uuid.UUID]auction.NotificationType{
		seller: auction.NotifyBidReceived,
		prev:   auction.NotifyOutbid,
		bidder: auction.NotifyBidPlaced,
	}, recipients(got))
	assert.Equal(t, "A new bid of 150.00 USD has been placed on your auction 'Oak desk'", got[0].Message)
	for _, n := range got {
		assert.False(t, n.IsRead)
		assert.Equal(t, at, n.CreatedAt)
	}
}

func TestBidPlaced_NoOutbidForSameBidder(t *testing.T) {
	store, repo, d := setup(t)
	seller, bidder := uuid.New(), uuid.New()
	a := auction.Auction{ID: uuid.New(), SellerID: seller, Title: "Oak desk", Currency: auction.CurrencyILS}

	var got []auction.Notification
	repo.EXPECT().Auction(gomock.Any(), a.ID).Return(a, nil)
	store.EXPECT().InsertNotifications(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, ns []auction.Notification) { got = ns }).Return(nil)

	d.Dispatch(context.Background(), auction.BidPlaced{
		BaseEvent:        events.NewBaseEvent(auction.EventBidPlaced, a.ID, at),
		BidderID:         bidder,
		Amount:           decimal.NewFromInt(120),
		IsHighest:        true,
		PreviousWinnerID: &bidder,
	})

	require.Len(t, got, 2)
}

func TestAuctionCancelled_NotifiesBiddersThenSeller(t *testing.T) {
	store, _, d := setup(t)
	seller, b1, b2 := uuid.New(), uuid.New(), uuid.New()

	var got []auction.Notification
	store.EXPECT().InsertNotifications(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, ns []auction.Notification) { got = ns }).Return(nil)

	d.Dispatch(context.Background(), auction.AuctionCancelled{
		BaseEvent: events.NewBaseEvent(auction.EventAuctionCancelled, uuid.New(), at),
		SellerID:  seller,
		Title:     "Oak desk",
		BidderIDs: []uuid.UUID{b1, b2},
	})

	require.Len(t, got, 3)
	assert.Equal(t, b1, got[0].UserID)
	assert.Equal(t, b2, got[1].UserID)
	assert.Equal(t, seller, got[2].UserID)
	assert.Equal(t, "Auction Cancelled Successfully", got[2].Title)
}

// The repository mock has no expectations: the deleted row is never looked up.
func TestAuctionDeleted_NotifiesSellerFromEvent(t *testing.T) {
	store, _, d := setup(t)
	seller := uuid.New()

	var got []auction.Notification
	store.EXPECT().InsertNotifications(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, ns []auction.Notification) { got = ns }).Return(nil)

	d.Dispatch(context.Background(), auction.AuctionDeleted{
		BaseEvent: events.NewBaseEvent(auction.EventAuctionDeleted, uuid.New(), at),
		SellerID:  seller,
		Title:     "Oak desk",
	})

	require.Len(t, got, 1)
	assert.Equal(t, seller, got[0].UserID)
	assert.Equal(t, auction.NotifyAuctionDeleted, got[0].Type)
	assert.Equal(t, "Auction Deleted", got[0].Title)
	assert.Equal(t, "Your auction 'Oak desk' has been deleted", got[0].Message)
}

func TestAuctionEnded_NotifiesSellerAndWinner(t *testing.T) {
	store, _, d := setup(t)
	seller, winner := uuid.New(), uuid.New()

	var got []auction.Notification
	store.EXPECT().InsertNotifications(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, ns []auction.Notification) { got = ns }).Return(nil)

	d.Dispatch(context.Background(), auction.AuctionEnded{
		BaseEvent:  events.NewBaseEvent(auction.EventAuctionEnded, uuid.New(), at),
		SellerID:   seller,
		Title:      "Oak desk",
		WinnerID:   winner,
		FinalPrice: decimal.NewFromInt(200),
		Currency:   auction.CurrencyILS,
	})

	assert.Equal(t, map[uuid.UUID]auction.NotificationType{
		seller: auction.NotifyAuctionEnded,
		winner: auction.NotifyAuctionWon,
	}, recipients(got))
}

func TestTransactionCreated_AuctionLookupFailureIsContained(t *testing.T) {
	store, repo, d := setup(t)
	id := uuid.New()

	repo.EXPECT().Auction(gomock.Any(), id).Return(auction.Auction{}, errors.New("db down"))
	store.EXPECT().InsertNotifications(gomock.Any(), gomock.Any()).Times(0)

	assert.NotPanics(t, func() {
		d.Dispatch(context.Background(), auction.TransactionCreated{
			BaseEvent: events.NewBaseEvent(auction.EventTransactionCreated, id, at),
			BuyerID:   uuid.New(),
			SellerID:  uuid.New(),
			Amount:    decimal.NewFromInt(200),
			Currency:  auction.CurrencyILS,
		})
	})
}

func TestTransactionCreated_PaymentRequiredForBuyer(t *testing.T) {
	store, repo, d := setup(t)
	buyer, seller := uuid.New(), uuid.New()
	a := auction.Auction{ID: uuid.New(), SellerID: seller, Title: "Oak desk", Currency: auction.CurrencyEUR}

	var got []auction.Notification
	repo.EXPECT().Auction(gomock.Any(), a.ID).Return(a, nil)
	store.EXPECT().InsertNotifications(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, ns []auction.Notification) { got = ns }).Return(nil)

	d.Dispatch(context.Background(), auction.TransactionCreated{
		BaseEvent: events.NewBaseEvent(auction.EventTransactionCreated, a.ID, at),
		BuyerID:   buyer,
		SellerID:  seller,
		Amount:    decimal.RequireFromString("200.5"),
		Currency:  auction.CurrencyEUR,
	})

	require.Len(t, got, 2)
	assert.Equal(t, auction.NotifyPaymentRequired, got[0].Type)
	assert.Contains(t, got[0].Message, "200.50 EUR")
	assert.Equal(t, auction.NotifyTransactionCreated, got[1].Type)
}

func TestService_ListClampsLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockNotificationStore(ctrl)
	svc := NewNotificationService(store)
	user := uuid.New()

	store.EXPECT().ListNotifications(gomock.Any(), user, true, maxLimit, 0).
		Return([]auction.Notification{{ID: uuid.New(), UserID: user, Title: "Outbid", Type: auction.NotifyOutbid}}, nil)

	got, err := svc.List(context.Background(), user, ListQuery{UnreadOnly: true, Limit: 500, Offset: -3})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, auction.NotifyOutbid, got[0].Type)
}

func TestService_MarkReadForeignNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockNotificationStore(ctrl)
	svc := NewNotificationService(store)
	user, id := uuid.New(), uuid.New()

	store.EXPECT().MarkNotificationRead(gomock.Any(), user, id, gomock.Any()).Return(auction.ErrNotificationNotFound)

	err := svc.MarkRead(context.Background(), user, id)
	require.ErrorIs(t, err, auction.ErrNotificationNotFound)
	assert.Equal(t, auction.KindNotFound, auction.KindOf(err))
}

func TestService_DeleteAllReturnsCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockNotificationStore(ctrl)
	svc := NewNotificationService(store)
	user := uuid.New()

	store.EXPECT().DeleteAllNotifications(gomock.Any(), user).Return(int64(4), nil)

	n, err := svc.DeleteAll(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
