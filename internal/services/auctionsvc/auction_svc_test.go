package auctionsvc

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

var testNow = time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC)

type recordingDispatcher struct {
	got []events.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, evs ...events.Event) {
	d.got = append(d.got, evs...)
}

func (d *recordingDispatcher) types() []events.Type {
	out := make([]events.Type, 0, len(d.got))
	for _, e := range d.got {
		out = append(out, e.EventType())
	}
	return out
}

type memCache struct {
	items map[uuid.UUID]AuctionDTO
	loads int
}

func (c *memCache) Load(_ context.Context, id uuid.UUID, dst any) (bool, error) {
	c.loads++
	v, ok := c.items[id]
	if !ok {
		return false, nil
	}
	*dst.(*AuctionDTO) = v
	return true, nil
}

func (c *memCache) Store(_ context.Context, id uuid.UUID, v any) error {
	c.items[id] = *v.(*AuctionDTO)
	return nil
}

type fixture struct {
	repo *mocks.MockRepository
	uow  *mocks.MockUnitOfWork
	disp *recordingDispatcher
	svc  IAuctionService
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	ctrl := gomock.NewController(t)
	f := &fixture{
		repo: mocks.NewMockRepository(ctrl),
		uow:  mocks.NewMockUnitOfWork(ctrl),
		disp: &recordingDispatcher{},
	}
	f.uow.EXPECT().Repo().Return(f.repo).AnyTimes()
	opts = append([]Option{WithClock(func() time.Time { return testNow })}, opts...)
	f.svc = NewAuctionService(f.uow, f.disp, opts...)
	return f
}

// expectTx runs the unit of work body against the mock repository.
func (f *fixture) expectTx() *gomock.Call {
	return f.uow.EXPECT().WithinTx(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, fn func(context.Context, auction.Repository) error) error {
			return fn(ctx, f.repo)
		})
}

func activeAuction(seller uuid.UUID) auction.Auction {
	return auction.Auction{
		ID:              uuid.New(),
		SellerID:        seller,
		CategoryID:      uuid.New(),
		Title:           "Vintage camera",
		Description:     "A working camera from the sixties",
		StartingPrice:   decimal.NewFromInt(100),
		MinBidIncrement: decimal.NewFromInt(10),
		Currency:        auction.CurrencyILS,
		EndTime:         testNow.Add(2 * time.Hour),
		Status:          auction.StatusActive,
		CreatedAt:       testNow.Add(-time.Hour),
		UpdatedAt:       testNow.Add(-time.Hour),
	}
}

func TestPlaceBid_FirstBidAtStartingPrice(t *testing.T) {
	f := newFixture(t)
	seller, bidder := uuid.New(), uuid.New()
	a := activeAuction(seller)

	var inserted auction.Bid
	var saved auction.Auction
	f.repo.EXPECT().User(gomock.Any(), bidder).Return(auction.User{ID: bidder, Role: auction.RoleUser}, nil)
	f.expectTx()
	f.repo.EXPECT().AuctionForUpdate(gomock.Any(), a.ID).Return(a, nil)
	f.repo.EXPECT().WinningBid(gomock.Any(), a.ID).Return(nil, nil)
	f.repo.EXPECT().InsertBid(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, b auction.Bid) { inserted = b }).Return(nil)
	f.repo.EXPECT().UpdateAuction(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, a auction.Auction) { saved = a }).Return(nil)

	got, err := f.svc.PlaceBid(context.Background(), PlaceBidCommand{
		AuctionID: a.ID, BidderID: bidder, Amount: decimal.NewFromInt(100),
	})
	require.NoError(t, err)

	assert.True(t, got.IsWinning)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, inserted.ID, got.ID)
	assert.True(t, saved.CurrentPrice.Valid)
	assert.True(t, saved.CurrentPrice.Decimal.Equal(decimal.NewFromInt(100)))

	require.Len(t, f.disp.got, 1)
	placed := f.disp.got[0].(auction.BidPlaced)
	assert.Equal(t, bidder, placed.BidderID)
	assert.Nil(t, placed.PreviousWinnerID)
}

func TestPlaceBid_OutbidsPreviousWinner(t *testing.T) {
	f := newFixture(t)
	seller, first, second := uuid.New(), uuid.New(), uuid.New()
	a := activeAuction(seller)
	a.CurrentPrice = decimal.NewNullDecimal(decimal.NewFromInt(100))
	prev := &auction.Bid{ID: uuid.New(), AuctionID: a.ID, BidderID: first, Amount: decimal.NewFromInt(100), IsWinning: true}

	f.repo.EXPECT().User(gomock.Any(), second).Return(auction.User{ID: second}, nil)
	f.expectTx()
	f.repo.EXPECT().AuctionForUpdate(gomock.Any(), a.ID).Return(a, nil)
	f.repo.EXPECT().WinningBid(gomock.Any(), a.ID).Return(prev, nil)
	gomock.InOrder(
		f.repo.EXPECT().SetBidWinning(gomock.Any(), prev.ID, false).Return(nil),
		f.repo.EXPECT().InsertBid(gomock.Any(), gomock.Any()).Return(nil),
		f.repo.EXPECT().UpdateAuction(gomock.Any(), gomock.Any()).Return(nil),
	)

	_, err := f.svc.PlaceBid(context.Background(), PlaceBidCommand{
		AuctionID: a.ID, BidderID: second, Amount: decimal.NewFromInt(110),
	})
	require.NoError(t, err)

	require.Len(t, f.disp.got, 1)
	placed := f.disp.got[0].(auction.BidPlaced)
	require.NotNil(t, placed.PreviousWinnerID)
	assert.Equal(t, first, *placed.PreviousWinnerID)
}

func TestPlaceBid_BelowIncrementPublishesNothing(t *testing.T) {
	f := newFixture(t)
	seller, first, second := uuid.New(), uuid.New(), uuid.New()
	a := activeAuction(seller)
	prev := &auction.Bid{ID: uuid.New(), AuctionID: a.ID, BidderID: first, Amount: decimal.NewFromInt(100), IsWinning: true}

	f.repo.EXPECT().User(gomock.Any(), second).Return(auction.User{ID: second}, nil)
	f.expectTx()
	f.repo.EXPECT().AuctionForUpdate(gomock.Any(), a.ID).Return(a, nil)
	f.repo.EXPECT().WinningBid(gomock.Any(), a.ID).Return(prev, nil)

	_, err := f.svc.PlaceBid(context.Background(), PlaceBidCommand{
		AuctionID: a.ID, BidderID: second, Amount: decimal.NewFromInt(105),
	})
	require.ErrorIs(t, err, auction.ErrBidTooLow)
	assert.Equal(t, auction.KindRule, auction.KindOf(err))
	assert.Empty(t, f.disp.got)
}

func TestPlaceBid_UnknownBidder(t *testing.T) {
	f := newFixture(t)
	bidder := uuid.New()
	f.repo.EXPECT().User(gomock.Any(), bidder).Return(auction.User{}, auction.ErrUserNotFound)

	_, err := f.svc.PlaceBid(context.Background(), PlaceBidCommand{
		AuctionID: uuid.New(), BidderID: bidder, Amount: decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, auction.ErrUserNotFound)
	assert.Empty(t, f.disp.got)
}

func TestPlaceBid_MissingAuctionID(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.PlaceBid(context.Background(), PlaceBidCommand{
		BidderID: uuid.New(), Amount: decimal.NewFromInt(100),
	})
	require.Error(t, err)
	assert.Equal(t, auction.KindInvalid, auction.KindOf(err))
}

func TestEndAuction_CreatesPendingTransaction(t *testing.T) {
	f := newFixture(t)
	seller, buyer := uuid.New(), uuid.New()
	a := activeAuction(seller)
	a.EndTime = testNow.Add(-time.Minute)
	win := &auction.Bid{ID: uuid.New(), AuctionID: a.ID, BidderID: buyer, Amount: decimal.NewFromInt(200), IsWinning: true}

	var tx auction.Transaction
	var saved auction.Auction
	f.repo.EXPECT().User(gomock.Any(), seller).Return(auction.User{ID: seller}, nil)
	f.expectTx()
	f.repo.EXPECT().AuctionForUpdate(gomock.Any(), a.ID).Return(a, nil)
	f.repo.EXPECT().WinningBid(gomock.Any(), a.ID).Return(win, nil)
	f.repo.EXPECT().CountBids(gomock.Any(), a.ID).Return(3, nil)
	f.repo.EXPECT().UpdateAuction(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, a auction.Auction) { saved = a }).Return(nil)
	f.repo.EXPECT().InsertTransaction(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, t auction.Transaction) { tx = t }).Return(nil)
	sold := a
	sold.Status = auction.StatusSold
	f.repo.EXPECT().AuctionDetails(gomock.Any(), a.ID).Return(auction.Details{Auction: sold, BidCount: 3}, nil)

	got, err := f.svc.EndAuction(context.Background(), EndAuctionCommand{AuctionID: a.ID, CallerID: seller})
	require.NoError(t, err)

	assert.Equal(t, auction.StatusSold, got.Status)
	assert.Equal(t, auction.StatusSold, saved.Status)
	assert.Equal(t, buyer, tx.BuyerID)
	assert.Equal(t, seller, tx.SellerID)
	assert.Equal(t, auction.TransactionPending, tx.Status)
	assert.True(t, tx.Amount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, []events.Type{auction.EventAuctionEnded, auction.EventTransactionCreated}, f.disp.types())
}

func TestEndAuction_StrangerForbidden(t *testing.T) {
	f := newFixture(t)
	seller, stranger := uuid.New(), uuid.New()
	a := activeAuction(seller)
	a.EndTime = testNow.Add(-time.Minute)

	f.repo.EXPECT().User(gomock.Any(), stranger).Return(auction.User{ID: stranger, Role: auction.RoleUser}, nil)
	f.expectTx()
	f.repo.EXPECT().AuctionForUpdate(gomock.Any(), a.ID).Return(a, nil)
	f.repo.EXPECT().WinningBid(gomock.Any(), a.ID).Return(nil, nil)
	f.repo.EXPECT().CountBids(gomock.Any(), a.ID).Return(0, nil)

	_, err := f.svc.EndAuction(context.Background(), EndAuctionCommand{AuctionID: a.ID, CallerID: stranger})
	require.ErrorIs(t, err, auction.ErrNotSellerOrAdmin)
	assert.Equal(t, auction.KindForbidden, auction.KindOf(err))
	assert.Empty(t, f.disp.got)
}

func TestCancelAuction_EventsInOrder(t *testing.T) {
	f := newFixture(t)
	seller := uuid.New()
	a := activeAuction(seller)
	b1, b2 := uuid.New(), uuid.New()
	bids := []auction.Bid{
		{ID: uuid.New(), AuctionID: a.ID, BidderID: b1, Amount: decimal.NewFromInt(100)},
		{ID: uuid.New(), AuctionID: a.ID, BidderID: b2, Amount: decimal.NewFromInt(110)},
		{ID: uuid.New(), AuctionID: a.ID, BidderID: b1, Amount: decimal.NewFromInt(120), IsWinning: true},
	}

	f.repo.EXPECT().User(gomock.Any(), seller).Return(auction.User{ID: seller}, nil)
	f.expectTx()
	f.repo.EXPECT().AuctionForUpdate(gomock.Any(), a.ID).Return(a, nil)
	f.repo.EXPECT().AuctionBids(gomock.Any(), a.ID).Return(bids, nil)
	f.repo.EXPECT().UpdateAuction(gomock.Any(), gomock.Any()).Return(nil)
	f.repo.EXPECT().ClearWinningBids(gomock.Any(), a.ID).Return(nil)
	cancelled := a
	cancelled.Status = auction.StatusCancelled
	f.repo.EXPECT().AuctionDetails(gomock.Any(), a.ID).Return(auction.Details{Auction: cancelled}, nil)

	got, err := f.svc.CancelAuction(context.Background(), CancelAuctionCommand{AuctionID: a.ID, CallerID: seller})
	require.NoError(t, err)
	assert.Equal(t, auction.StatusCancelled, got.Status)

	assert.Equal(t, []events.Type{
		auction.EventAuctionCancelled,
		auction.EventBidCancelled,
		auction.EventBidCancelled,
		auction.EventBidCancelled,
	}, f.disp.types())
	head := f.disp.got[0].(auction.AuctionCancelled)
	assert.Equal(t, []uuid.UUID{b1, b2}, head.BidderIDs)
	for i, e := range f.disp.got[1:] {
		assert.Equal(t, bids[i].ID, e.(auction.BidCancelled).BidID)
	}
}

func TestCancelAuction_TxFailurePublishesNothing(t *testing.T) {
	f := newFixture(t)
	seller := uuid.New()
	a := activeAuction(seller)
	boom := errors.New("connection reset")

	f.repo.EXPECT().User(gomock.Any(), seller).Return(auction.User{ID: seller}, nil)
	f.expectTx()
	f.repo.EXPECT().AuctionForUpdate(gomock.Any(), a.ID).Return(a, nil)
	f.repo.EXPECT().AuctionBids(gomock.Any(), a.ID).Return(nil, nil)
	f.repo.EXPECT().UpdateAuction(gomock.Any(), gomock.Any()).Return(boom)

	_, err := f.svc.CancelAuction(context.Background(), CancelAuctionCommand{AuctionID: a.ID, CallerID: seller})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, auction.KindInternal, auction.KindOf(err))
	assert.Empty(t, f.disp.got)
}

func TestUpdateAuction_CancelClearsWinners(t *testing.T) {
	f := newFixture(t)
	seller := uuid.New()
	a := activeAuction(seller)
	status := auction.StatusCancelled

	f.repo.EXPECT().User(gomock.Any(), seller).Return(auction.User{ID: seller}, nil)
	f.expectTx()
	f.repo.EXPECT().AuctionForUpdate(gomock.Any(), a.ID).Return(a, nil)
	f.repo.EXPECT().UpdateAuction(gomock.Any(), gomock.Any()).Return(nil)
	f.repo.EXPECT().ClearWinningBids(gomock.Any(), a.ID).Return(nil)
	f.repo.EXPECT().AuctionDetails(gomock.Any(), a.ID).Return(auction.Details{Auction: a}, nil)

	_, err := f.svc.UpdateAuction(context.Background(), UpdateAuctionCommand{
		AuctionID: a.ID, CallerID: seller, Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, []events.Type{auction.EventAuctionUpdated}, f.disp.types())
}

func TestUpdateAuction_UnknownCategory(t *testing.T) {
	f := newFixture(t)
	seller, cat := uuid.New(), uuid.New()

	f.repo.EXPECT().User(gomock.Any(), seller).Return(auction.User{ID: seller}, nil)
	f.repo.EXPECT().CategoryExists(gomock.Any(), cat).Return(false, nil)

	_, err := f.svc.UpdateAuction(context.Background(), UpdateAuctionCommand{
		AuctionID: uuid.New(), CallerID: seller, CategoryID: &cat,
	})
	require.ErrorIs(t, err, auction.ErrInvalidCategory)
}

func TestCreateAuction_ThenFetchThroughCache(t *testing.T) {
	cache := &memCache{items: map[uuid.UUID]AuctionDTO{}}
	f := newFixture(t, WithCache(cache))
	seller, cat := uuid.New(), uuid.New()

	var inserted auction.Auction
	var media []auction.Media
	f.repo.EXPECT().User(gomock.Any(), seller).Return(auction.User{ID: seller, Username: "dana"}, nil)
	f.repo.EXPECT().CategoryExists(gomock.Any(), cat).Return(true, nil)
	f.expectTx()
	f.repo.EXPECT().InsertAuction(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, a auction.Auction) { inserted = a }).Return(nil)
	f.repo.EXPECT().InsertMedia(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, m []auction.Media) { media = m }).Return(nil)
	f.repo.EXPECT().AuctionDetails(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, id uuid.UUID) (auction.Details, error) {
			return auction.Details{
				Auction:      inserted,
				SellerName:   "dana",
				CategoryName: "Cameras",
				MediaURLs:    []string{media[0].URL},
			}, nil
		}).Times(2)

	created, err := f.svc.CreateAuction(context.Background(), CreateAuctionCommand{
		SellerID:        seller,
		Title:           "Vintage camera",
		Description:     "A working camera from the sixties",
		StartingPrice:   decimal.NewFromInt(100),
		MinBidIncrement: decimal.NewFromInt(10),
		EndTime:         testNow.Add(48 * time.Hour),
		CategoryID:      cat,
		MediaURLs:       []string{"https://img.example.com/camera.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, auction.StatusActive, created.Status)
	assert.Equal(t, auction.CurrencyILS, created.Currency)
	assert.Nil(t, created.CurrentPrice)
	assert.Equal(t, []events.Type{auction.EventAuctionCreated}, f.disp.types())

	first, err := f.svc.GetAuction(context.Background(), created.ID)
	require.NoError(t, err)
	second, err := f.svc.GetAuction(context.Background(), created.ID)
	require.NoError(t, err)

	assert.Equal(t, created.ID, first.ID)
	assert.Equal(t, "Cameras", first.CategoryName)
	assert.Equal(t, *first, *second)
	assert.Equal(t, 2, cache.loads)
}

func TestCreateAuction_RejectsBadCommand(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateAuction(context.Background(), CreateAuctionCommand{
		SellerID:   uuid.New(),
		Title:      "ab",
		EndTime:    testNow.Add(48 * time.Hour),
		CategoryID: uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, auction.KindInvalid, auction.KindOf(err))
	assert.Empty(t, f.disp.got)
}

func TestDeleteAuction_SellerWithoutBids(t *testing.T) {
	f := newFixture(t)
	seller := uuid.New()
	a := activeAuction(seller)

	f.repo.EXPECT().User(gomock.Any(), seller).Return(auction.User{ID: seller, Role: auction.RoleUser}, nil)
	f.expectTx()
	f.repo.EXPECT().AuctionForUpdate(gomock.Any(), a.ID).Return(a, nil)
	f.repo.EXPECT().CountBids(gomock.Any(), a.ID).Return(0, nil)
	f.repo.EXPECT().DeleteAuction(gomock.Any(), a.ID).Return(nil)

	err := f.svc.DeleteAuction(context.Background(), DeleteAuctionCommand{AuctionID: a.ID, CallerID: seller})
	require.NoError(t, err)

	assert.Equal(t, []events.Type{auction.EventAuctionDeleted}, f.disp.types())
	deleted := f.disp.got[0].(auction.AuctionDeleted)
	assert.Equal(t, a.ID, deleted.AggregateID())
	assert.Equal(t, seller, deleted.SellerID)
	assert.Equal(t, a.Title, deleted.Title)
}

func TestDeleteAuction_Rejections(t *testing.T) {
	seller := uuid.New()
	tests := []struct {
		name     string
		caller   auction.User
		status   auction.Status
		bids     int
		wantErr  error
		wantKind auction.Kind
	}{
		{"has bids", auction.User{ID: seller, Role: auction.RoleUser}, auction.StatusActive, 2, auction.ErrAuctionHasBids, auction.KindRule},
		{"sold", auction.User{ID: seller, Role: auction.RoleUser}, auction.StatusSold, 0, auction.ErrAuctionSold, auction.KindRule},
		{"admin is not the seller", auction.User{ID: uuid.New(), Role: auction.RoleAdmin}, auction.StatusActive, 0, auction.ErrNotSeller, auction.KindForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			a := activeAuction(seller)
			a.Status = tt.status

			f.repo.EXPECT().User(gomock.Any(), tt.caller.ID).Return(tt.caller, nil)
			f.expectTx()
			f.repo.EXPECT().AuctionForUpdate(gomock.Any(), a.ID).Return(a, nil)
			f.repo.EXPECT().CountBids(gomock.Any(), a.ID).Return(tt.bids, nil)

			err := f.svc.DeleteAuction(context.Background(), DeleteAuctionCommand{AuctionID: a.ID, CallerID: tt.caller.ID})
			require.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantKind, auction.KindOf(err))
			assert.Empty(t, f.disp.got)
		})
	}
}

func TestListAuctions_RejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ListAuctions(context.Background(), ListAuctionsQuery{Status: "Closed"})
	require.ErrorIs(t, err, auction.ErrInvalidStatus)
}

func TestListAuctionBids_UnknownAuction(t *testing.T) {
	f := newFixture(t)
	id := uuid.New()
	f.repo.EXPECT().Auction(gomock.Any(), id).Return(auction.Auction{}, auction.ErrAuctionNotFound)

	_, err := f.svc.ListAuctionBids(context.Background(), id)
	require.ErrorIs(t, err, auction.ErrAuctionNotFound)
}
