package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"autobid/internal/db"
	apperrors "autobid/internal/errors"
	"autobid/internal/model"
)

// AuctionRepository defines auction, bid and settlement persistence operations.
type AuctionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Auction, error)
	// FindDetail loads the auction with its vehicle, images and bids (newest first, with bidder profiles).
	FindDetail(ctx context.Context, id uuid.UUID) (*model.Auction, error)
	FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) (*model.Auction, error)
	// CreateListing inserts a vehicle, its images and its auction.
	CreateListing(ctx context.Context, vehicle *model.Vehicle, images []model.VehicleImage, auction *model.Auction) error
	UpdateState(ctx context.Context, auction *model.Auction) error
	ListDueIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error)
	ListWonBy(ctx context.Context, userID uuid.UUID) ([]model.Auction, error)

	ListBids(ctx context.Context, auctionID uuid.UUID) ([]model.Bid, error)
	CountBids(ctx context.Context, auctionID uuid.UUID) (int64, error)
	CreateBid(ctx context.Context, bid *model.Bid) error
	// ListBidsBy returns a bidder's bids, newest first, with auction and vehicle loaded.
	ListBidsBy(ctx context.Context, bidderID uuid.UUID) ([]model.Bid, error)
	SellerOf(ctx context.Context, auctionID uuid.UUID) (uuid.UUID, error)
	// UpdateVehicle writes the vehicle of an auction, replacing its images unless images is nil.
	UpdateVehicle(ctx context.Context, vehicle *model.Vehicle, images []model.VehicleImage) error

	// CreateTransaction records the sale for a won auction once; repeats are ignored.
	CreateTransaction(ctx context.Context, tx *model.Transaction) error
	FindTransaction(ctx context.Context, auctionID uuid.UUID) (*model.Transaction, error)

	// Transaction methods
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo AuctionRepository) error) error
	// FindByIDForUpdate reads the auction holding its row lock until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Auction, error)
}

type auctionRepository struct {
	db *gorm.DB
}

// NewAuctionRepository creates a new auction repository.
func NewAuctionRepository(db *gorm.DB) AuctionRepository {
	return &auctionRepository{db: db}
}

func (r *auctionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Auction, error) {
	var auction model.Auction
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&auction).Error; err != nil {
		return nil, notFound(err, apperrors.ErrAuctionNotFound)
	}
	return &auction, nil
}

func (r *auctionRepository) FindDetail(ctx context.Context, id uuid.UUID) (*model.Auction, error) {
	var auction model.Auction
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Vehicle.Images").
		Preload("Bids", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("amount DESC").Order("created_at ASC")
		}).
		Preload("Bids.Bidder").
		Where("id = ?", id).
		First(&auction).Error
	if err != nil {
		return nil, notFound(err, apperrors.ErrAuctionNotFound)
	}
	return &auction, nil
}

func (r *auctionRepository) FindByVehicleID(ctx context.Context, vehicleID uuid.UUID) (*model.Auction, error) {
	var auction model.Auction
	if err := r.db.WithContext(ctx).Where("vehicle_id = ?", vehicleID).First(&auction).Error; err != nil {
		return nil, notFound(err, apperrors.ErrAuctionNotFound)
	}
	return &auction, nil
}

func (r *auctionRepository) CreateListing(ctx context.Context, vehicle *model.Vehicle, images []model.VehicleImage, auction *model.Auction) error {
	tx := r.db.WithContext(ctx).Omit(clause.Associations).Session(&gorm.Session{})
	if err := tx.Create(vehicle).Error; err != nil {
		return err
	}
	if len(images) > 0 {
		if err := tx.Create(&images).Error; err != nil {
			return err
		}
	}
	return tx.Create(auction).Error
}

func (r *auctionRepository) UpdateVehicle(ctx context.Context, vehicle *model.Vehicle, images []model.VehicleImage) error {
	return NewVehicleRepository(r.db).Update(ctx, vehicle, images)
}

func (r *auctionRepository) UpdateState(ctx context.Context, auction *model.Auction) error {
	return r.db.WithContext(ctx).Model(&model.Auction{ID: auction.ID}).
		Select("Status", "WinnerID", "FinalPrice").
		Updates(auction).Error
}

func (r *auctionRepository) ListDueIDs(ctx context.Context, now time.Time) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Auction{}).
		Where("(status = ? AND start_date <= ?) OR (status = ? AND end_date <= ?)",
			model.AuctionStatusPending, now, model.AuctionStatusActive, now).
		Order("end_date ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *auctionRepository) ListWonBy(ctx context.Context, userID uuid.UUID) ([]model.Auction, error) {
	var auctions []model.Auction
	err := r.db.WithContext(ctx).
		Preload("Vehicle").
		Preload("Vehicle.Images").
		Where("winner_id = ? AND status = ?", userID, model.AuctionStatusEnded).
		Order("end_date DESC").
		Find(&auctions).Error
	return auctions, err
}

func (r *auctionRepository) ListBids(ctx context.Context, auctionID uuid.UUID) ([]model.Bid, error) {
	var bids []model.Bid
	err := r.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("amount DESC").Order("created_at ASC").
		Find(&bids).Error
	return bids, err
}

func (r *auctionRepository) CountBids(ctx context.Context, auctionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Bid{}).Where("auction_id = ?", auctionID).Count(&count).Error
	return count, err
}

func (r *auctionRepository) CreateBid(ctx context.Context, bid *model.Bid) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(bid).Error
}

func (r *auctionRepository) ListBidsBy(ctx context.Context, bidderID uuid.UUID) ([]model.Bid, error) {
	var bids []model.Bid
	err := r.db.WithContext(ctx).
		Preload("Auction").
		Preload("Auction.Vehicle").
		Preload("Auction.Vehicle.Images").
		Where("bidder_id = ?", bidderID).
		Order("created_at DESC").
		Find(&bids).Error
	return bids, err
}

func (r *auctionRepository) SellerOf(ctx context.Context, auctionID uuid.UUID) (uuid.UUID, error) {
	var sellerIDs []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Vehicle{}).
		Joins("JOIN auctions ON auctions.vehicle_id = vehicles.id").
		Where("auctions.id = ?", auctionID).
		Pluck("vehicles.seller_id", &sellerIDs).Error
	if err != nil {
		return uuid.Nil, err
	}
	if len(sellerIDs) == 0 {
		return uuid.Nil, apperrors.ErrAuctionNotFound
	}
	return sellerIDs[0], nil
}

func (r *auctionRepository) CreateTransaction(ctx context.Context, tx *model.Transaction) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "auction_id"}}, DoNothing: true}).
		Create(tx).Error
}

func (r *auctionRepository) FindTransaction(ctx context.Context, auctionID uuid.UUID) (*model.Transaction, error) {
	var tx model.Transaction
	if err := r.db.WithContext(ctx).Where("auction_id = ?", auctionID).First(&tx).Error; err != nil {
		return nil, notFound(err, apperrors.ErrNotFound)
	}
	return &tx, nil
}

// WithTransaction executes a function within a database transaction.
func (r *auctionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo AuctionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := &auctionRepository{db: tx}
		return fn(ctx, txRepo)
	})
}

func (r *auctionRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Auction, error) {
	q := r.db.WithContext(ctx)
	if db.SupportsRowLocks(r.db) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var auction model.Auction
	if err := q.Where("id = ?", id).First(&auction).Error; err != nil {
		return nil, notFound(err, apperrors.ErrAuctionNotFound)
	}
	return &auction, nil
}
