package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"autobid/internal/db"
	apperrors "autobid/internal/errors"
	"autobid/internal/model"
)

func seedListing(t *testing.T, gdb *gorm.DB, status model.AuctionStatus, end time.Time) (*model.Vehicle, *model.Auction) {
	t.Helper()
	ctx := context.Background()
	repo := NewAuctionRepository(gdb)

	desc := "Clean title, garage kept."
	vehicle := &model.Vehicle{ID: uuid.New(), SellerID: uuid.New(), Make: "Audi", Model: "A4", Year: 2019, Mileage: 50000, Description: &desc}
	images := []model.VehicleImage{
		{VehicleID: vehicle.ID, URL: "https://img.example.com/side.jpg"},
		{VehicleID: vehicle.ID, URL: "https://img.example.com/front.jpg", IsPrimary: true},
	}
	auction := &model.Auction{
		ID:              uuid.New(),
		VehicleID:       vehicle.ID,
		StartPrice:      decimal.NewFromInt(10000),
		MinBidIncrement: decimal.NewFromInt(100),
		StartDate:       end.Add(-72 * time.Hour),
		EndDate:         end,
		Status:          status,
	}
	require.NoError(t, repo.CreateListing(ctx, vehicle, images, auction))
	return vehicle, auction
}

func TestAuctionRepository_CreateListingAndDetail(t *testing.T) {
	gdb := db.NewTestDB(t)
	ctx := context.Background()
	repo := NewAuctionRepository(gdb)
	profiles := NewProfileRepository(gdb)

	vehicle, auction := seedListing(t, gdb, model.AuctionStatusActive, time.Now().UTC().Add(time.Hour))

	bidder := uuid.New()
	_, err := profiles.Ensure(ctx, bidder)
	require.NoError(t, err)
	require.NoError(t, repo.CreateBid(ctx, &model.Bid{AuctionID: auction.ID, BidderID: bidder, Amount: decimal.NewFromInt(10000)}))
	require.NoError(t, repo.CreateBid(ctx, &model.Bid{AuctionID: auction.ID, BidderID: bidder, Amount: decimal.NewFromInt(10500)}))

	detail, err := repo.FindDetail(ctx, auction.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.Vehicle)
	assert.Equal(t, vehicle.ID, detail.Vehicle.ID)
	assert.Len(t, detail.Vehicle.Images, 2)
	assert.Equal(t, "https://img.example.com/front.jpg", detail.Vehicle.PrimaryImage())
	require.Len(t, detail.Bids, 2)
	assert.True(t, detail.Bids[0].Amount.Equal(decimal.NewFromInt(10500)))
	require.NotNil(t, detail.Bids[0].Bidder)
	assert.Equal(t, bidder, detail.Bids[0].Bidder.ID)

	count, err := repo.CountBids(ctx, auction.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	byVehicle, err := repo.FindByVehicleID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, auction.ID, byVehicle.ID)
}

func TestAuctionRepository_CreateListingWithoutImagesInTransaction(t *testing.T) {
	gdb := db.NewTestDB(t)
	ctx := context.Background()
	repo := NewAuctionRepository(gdb)

	var ids []uuid.UUID
	for i := 0; i < 2; i++ {
		vehicle := &model.Vehicle{ID: uuid.New(), SellerID: uuid.New(), Make: "Volvo", Model: "240", Year: 1991, Mileage: 210000}
		auction := &model.Auction{
			VehicleID:       vehicle.ID,
			StartPrice:      decimal.NewFromInt(4000),
			MinBidIncrement: decimal.NewFromInt(50),
			StartDate:       time.Now().UTC(),
			EndDate:         time.Now().UTC().Add(24 * time.Hour),
			Status:          model.AuctionStatusActive,
		}
		err := repo.WithTransaction(ctx, func(ctx context.Context, tx AuctionRepository) error {
			return tx.CreateListing(ctx, vehicle, nil, auction)
		})
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, auction.ID)
		ids = append(ids, auction.ID)
	}

	for _, id := range ids {
		detail, err := repo.FindDetail(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, detail.Vehicle)
		assert.Equal(t, "Volvo", detail.Vehicle.Make)
		assert.Empty(t, detail.Vehicle.Images)
	}
}

func TestAuctionRepository_OneAuctionPerVehicle(t *testing.T) {
	gdb := db.NewTestDB(t)
	vehicle, _ := seedListing(t, gdb, model.AuctionStatusActive, time.Now().UTC().Add(time.Hour))

	dup := &model.Auction{
		VehicleID:       vehicle.ID,
		StartPrice:      decimal.NewFromInt(1),
		MinBidIncrement: decimal.NewFromInt(1),
		StartDate:       time.Now().UTC(),
		EndDate:         time.Now().UTC().Add(time.Hour),
		Status:          model.AuctionStatusActive,
	}
	assert.Error(t, gdb.Create(dup).Error)
}

func TestAuctionRepository_NotFound(t *testing.T) {
	repo := NewAuctionRepository(db.NewTestDB(t))

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, apperrors.ErrAuctionNotFound))
	_, err = repo.FindDetail(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestAuctionRepository_UpdateStateAndTransaction(t *testing.T) {
	gdb := db.NewTestDB(t)
	ctx := context.Background()
	repo := NewAuctionRepository(gdb)
	_, auction := seedListing(t, gdb, model.AuctionStatusActive, time.Now().UTC())

	winner := uuid.New()
	price := decimal.NewFromInt(12000)
	auction.Status = model.AuctionStatusEnded
	auction.WinnerID = &winner
	auction.FinalPrice = &price

	err := repo.WithTransaction(ctx, func(ctx context.Context, tx AuctionRepository) error {
		locked, err := tx.FindByIDForUpdate(ctx, auction.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, model.AuctionStatusActive, locked.Status)
		return tx.UpdateState(ctx, auction)
	})
	require.NoError(t, err)

	got, err := repo.FindByID(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AuctionStatusEnded, got.Status)
	require.NotNil(t, got.WinnerID)
	assert.Equal(t, winner, *got.WinnerID)
	assert.True(t, got.FinalPrice.Equal(price))

	sale := &model.Transaction{AuctionID: auction.ID, BuyerID: winner, SellerID: uuid.New(), Amount: price, Status: model.TransactionStatusPending}
	require.NoError(t, repo.CreateTransaction(ctx, sale))
	again := &model.Transaction{AuctionID: auction.ID, BuyerID: uuid.New(), SellerID: uuid.New(), Amount: price, Status: model.TransactionStatusPending}
	require.NoError(t, repo.CreateTransaction(ctx, again))

	stored, err := repo.FindTransaction(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, winner, stored.BuyerID)

	won, err := repo.ListWonBy(ctx, winner)
	require.NoError(t, err)
	require.Len(t, won, 1)
	assert.NotNil(t, won[0].Vehicle)
}

func TestAuctionRepository_WithTransactionRollsBack(t *testing.T) {
	gdb := db.NewTestDB(t)
	ctx := context.Background()
	repo := NewAuctionRepository(gdb)
	_, auction := seedListing(t, gdb, model.AuctionStatusActive, time.Now().UTC().Add(time.Hour))

	boom := errors.New("boom")
	err := repo.WithTransaction(ctx, func(ctx context.Context, tx AuctionRepository) error {
		if err := tx.CreateBid(ctx, &model.Bid{AuctionID: auction.ID, BidderID: uuid.New(), Amount: decimal.NewFromInt(10000)}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := repo.CountBids(ctx, auction.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAuctionRepository_ListDueIDs(t *testing.T) {
	gdb := db.NewTestDB(t)
	ctx := context.Background()
	repo := NewAuctionRepository(gdb)
	now := time.Now().UTC()

	_, overdue := seedListing(t, gdb, model.AuctionStatusActive, now.Add(-time.Minute))
	_, running := seedListing(t, gdb, model.AuctionStatusActive, now.Add(time.Hour))
	_, finished := seedListing(t, gdb, model.AuctionStatusEnded, now.Add(-time.Hour))

	// Starts in the past, not yet opened.
	_, opening := seedListing(t, gdb, model.AuctionStatusPending, now.Add(time.Hour))
	// Starts in the future.
	_, future := seedListing(t, gdb, model.AuctionStatusPending, now.Add(100*time.Hour))

	ids, err := repo.ListDueIDs(ctx, now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{overdue.ID, opening.ID}, ids)
	assert.NotContains(t, ids, running.ID)
	assert.NotContains(t, ids, finished.ID)
	assert.NotContains(t, ids, future.ID)
}

func TestCatalogRepository_ListAuctions(t *testing.T) {
	gdb := db.NewTestDB(t)
	ctx := context.Background()
	repo := NewAuctionRepository(gdb)
	now := time.Now().UTC()

	_, later := seedListing(t, gdb, model.AuctionStatusActive, now.Add(48*time.Hour))
	_, sooner := seedListing(t, gdb, model.AuctionStatusActive, now.Add(2*time.Hour))
	seedListing(t, gdb, model.AuctionStatusEnded, now.Add(-time.Hour))

	require.NoError(t, repo.CreateBid(ctx, &model.Bid{AuctionID: sooner.ID, BidderID: uuid.New(), Amount: decimal.NewFromInt(10000)}))
	require.NoError(t, repo.CreateBid(ctx, &model.Bid{AuctionID: sooner.ID, BidderID: uuid.New(), Amount: decimal.NewFromInt(10200)}))

	catalog, err := NewCatalogRepository(gdb)
	require.NoError(t, err)

	list, err := catalog.ListAuctions(ctx, model.AuctionStatusActive, 20, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, sooner.ID, list[0].ID)
	assert.EqualValues(t, 2, list[0].BidCount)
	assert.True(t, list[0].HighestBid.Valid)
	assert.True(t, list[0].HighestBid.Decimal.Equal(decimal.NewFromInt(10200)))
	assert.Equal(t, "https://img.example.com/front.jpg", list[0].PrimaryImage)
	assert.Equal(t, "Audi", list[0].Make)

	assert.Equal(t, later.ID, list[1].ID)
	assert.Zero(t, list[1].BidCount)
	assert.False(t, list[1].HighestBid.Valid)
}

func TestProfileRepository(t *testing.T) {
	gdb := db.NewTestDB(t)
	ctx := context.Background()
	repo := NewProfileRepository(gdb)
	id := uuid.New()

	_, err := repo.FindByID(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrProfileNotFound)

	p, err := repo.Ensure(ctx, id)
	require.NoError(t, err)
	assert.False(t, p.WorldIDVerified)

	name := "jdoe"
	p.Username = &name
	p.IsSeller = true // ignored by Update
	require.NoError(t, repo.Update(ctx, p))

	require.NoError(t, repo.MarkWorldIDVerified(ctx, id))
	require.NoError(t, repo.MarkWorldIDVerified(ctx, id))

	// Ensure never resets an existing profile.
	p, err = repo.Ensure(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p.Username)
	assert.Equal(t, "jdoe", *p.Username)
	assert.True(t, p.WorldIDVerified)
	assert.False(t, p.IsSeller)

	require.NoError(t, repo.MarkSeller(ctx, id))
	p, err = repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, p.IsSeller)

	assert.ErrorIs(t, repo.MarkWorldIDVerified(ctx, uuid.New()), apperrors.ErrProfileNotFound)
}

func TestVerificationRepository_CreateIfAbsent(t *testing.T) {
	gdb := db.NewTestDB(t)
	ctx := context.Background()
	repo := NewVerificationRepository(gdb)
	user := uuid.New()

	inserted, err := repo.CreateIfAbsent(ctx, &model.WorldIDVerification{UserID: user, NullifierHash: "0xabc", VerificationLevel: "orb", VerifiedAt: time.Now().UTC()})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.CreateIfAbsent(ctx, &model.WorldIDVerification{UserID: uuid.New(), NullifierHash: "0xabc", VerificationLevel: "orb", VerifiedAt: time.Now().UTC()})
	require.NoError(t, err)
	assert.False(t, inserted)

	existing, err := repo.FindByNullifier(ctx, "0xabc")
	require.NoError(t, err)
	assert.Equal(t, user, existing.UserID)

	ok, err := repo.ExistsForUser(ctx, user)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVehicleRepository_UpdateReplacesImages(t *testing.T) {
	gdb := db.NewTestDB(t)
	ctx := context.Background()
	repo := NewVehicleRepository(gdb)
	vehicle, _ := seedListing(t, gdb, model.AuctionStatusActive, time.Now().UTC().Add(time.Hour))

	vehicle.Mileage = 51000
	images := []model.VehicleImage{{VehicleID: vehicle.ID, URL: "https://img.example.com/new.jpg", IsPrimary: true}}
	require.NoError(t, repo.Update(ctx, vehicle, images))

	got, err := repo.FindByID(ctx, vehicle.ID)
	require.NoError(t, err)
	assert.Equal(t, 51000, got.Mileage)
	require.Len(t, got.Images, 1)
	assert.Equal(t, "https://img.example.com/new.jpg", got.Images[0].URL)

	list, err := repo.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrVehicleNotFound)
}

func TestFavoriteRepository(t *testing.T) {
	gdb := db.NewTestDB(t)
	ctx := context.Background()
	repo := NewFavoriteRepository(gdb)
	_, auction := seedListing(t, gdb, model.AuctionStatusActive, time.Now().UTC().Add(time.Hour))
	user := uuid.New()

	require.NoError(t, repo.Add(ctx, user, auction.ID))
	require.NoError(t, repo.Add(ctx, user, auction.ID))

	favs, err := repo.ListByUser(ctx, user)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	require.NotNil(t, favs[0].Auction)
	assert.NotNil(t, favs[0].Auction.Vehicle)

	require.NoError(t, repo.Remove(ctx, user, auction.ID))
	favs, err = repo.ListByUser(ctx, user)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestCarRepository(t *testing.T) {
	gdb := db.NewTestDB(t)
	ctx := context.Background()
	repo := NewCarRepository(gdb)

	require.NoError(t, repo.Create(ctx, &model.Car{Make: "BMW", Model: "M3", Year: 2021, StartPrice: decimal.NewFromInt(45000), OwnerWallet: "0x1"}))
	cars, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, cars, 1)
	assert.NotEqual(t, uuid.Nil, cars[0].ID)
}

func TestUserRepository(t *testing.T) {
	gdb := db.NewTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(gdb)

	user := &model.User{Email: "a@example.com", PasswordHash: "hash", Role: model.RoleUser}
	require.NoError(t, repo.Create(ctx, user))
	assert.Error(t, repo.Create(ctx, &model.User{Email: "a@example.com", PasswordHash: "x", Role: model.RoleUser}))

	got, err := repo.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestAuctionRepository_SellerAndBidderViews(t *testing.T) {
	gdb := db.NewTestDB(t)
	ctx := context.Background()
	repo := NewAuctionRepository(gdb)
	vehicle, auction := seedListing(t, gdb, model.AuctionStatusActive, time.Now().UTC().Add(time.Hour))

	seller, err := repo.SellerOf(ctx, auction.ID)
	require.NoError(t, err)
	assert.Equal(t, vehicle.SellerID, seller)

	_, err = repo.SellerOf(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrAuctionNotFound)

	bidder := uuid.New()
	require.NoError(t, repo.CreateBid(ctx, &model.Bid{AuctionID: auction.ID, BidderID: bidder, Amount: decimal.NewFromInt(10000)}))

	bids, err := repo.ListBidsBy(ctx, bidder)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	require.NotNil(t, bids[0].Auction)
	assert.Equal(t, auction.ID, bids[0].Auction.ID)
	require.NotNil(t, bids[0].Auction.Vehicle)
	assert.Equal(t, "Audi", bids[0].Auction.Vehicle.Make)
}
