package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"autobid/internal/db"
	"autobid/internal/model"
	"autobid/internal/repository"
)

type testEnv struct {
	db       *gorm.DB
	auctions repository.AuctionRepository
	profiles repository.ProfileRepository
	vehicles repository.VehicleRepository
	catalog  repository.CatalogRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := db.NewTestDB(t)
	catalog, err := repository.NewCatalogRepository(gdb)
	require.NoError(t, err)
	return &testEnv{
		db:       gdb,
		auctions: repository.NewAuctionRepository(gdb),
		profiles: repository.NewProfileRepository(gdb),
		vehicles: repository.NewVehicleRepository(gdb),
		catalog:  catalog,
	}
}

type auctionOpts struct {
	status  model.AuctionStatus
	start   time.Time
	end     time.Time
	reserve *decimal.Decimal
}

// seedAuction stores a vehicle and an auction priced at 10000 with a 100 increment.
func (e *testEnv) seedAuction(t *testing.T, sellerID uuid.UUID, opts auctionOpts) *model.Auction {
	t.Helper()
	if opts.status == "" {
		opts.status = model.AuctionStatusActive
	}
	now := time.Now().UTC()
	if opts.start.IsZero() {
		opts.start = now.Add(-time.Hour)
	}
	if opts.end.IsZero() {
		opts.end = now.Add(72 * time.Hour)
	}

	vehicle := &model.Vehicle{ID: uuid.New(), SellerID: sellerID, Make: "Porsche", Model: "911", Year: 2018, Mileage: 30000}
	a := &model.Auction{
		ID:              uuid.New(),
		VehicleID:       vehicle.ID,
		StartPrice:      decimal.NewFromInt(10000),
		ReservePrice:    opts.reserve,
		MinBidIncrement: decimal.NewFromInt(100),
		StartDate:       opts.start,
		EndDate:         opts.end,
		Status:          opts.status,
	}
	require.NoError(t, e.auctions.CreateListing(context.Background(), vehicle, nil, a))
	return a
}

func (e *testEnv) reload(t *testing.T, id uuid.UUID) *model.Auction {
	t.Helper()
	a, err := e.auctions.FindByID(context.Background(), id)
	require.NoError(t, err)
	return a
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
