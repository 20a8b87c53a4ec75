package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"autobid/internal/auction"
	apperrors "autobid/internal/errors"
	"autobid/internal/model"
	"autobid/internal/repository"
)

// ListingService handles vehicle listing and editing.
type ListingService interface {
	// CreateListing creates the vehicle, its images and its auction together.
	// sessionVerified is whether the request carried a valid verification marker.
	CreateListing(ctx context.Context, sellerID uuid.UUID, v auction.VehicleDraft, a auction.AuctionDraft, sessionVerified bool) (*auction.Listing, error)
	UpdateVehicle(ctx context.Context, sellerID, vehicleID uuid.UUID, v auction.VehicleDraft) (*model.Vehicle, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*model.Vehicle, error)
	ListVehicles(ctx context.Context, limit, offset int) ([]model.Vehicle, error)
}

type listingService struct {
	auctions repository.AuctionRepository
	vehicles repository.VehicleRepository
	profiles repository.ProfileRepository
	now      func() time.Time
}

// NewListingService creates a new listing service.
func NewListingService(auctions repository.AuctionRepository, vehicles repository.VehicleRepository, profiles repository.ProfileRepository) ListingService {
	return &listingService{
		auctions: auctions,
		vehicles: vehicles,
		profiles: profiles,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *listingService) CreateListing(ctx context.Context, sellerID uuid.UUID, v auction.VehicleDraft, a auction.AuctionDraft, sessionVerified bool) (*auction.Listing, error) {
	profile, err := s.profiles.Ensure(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("load seller profile: %w", err)
	}
	status := auction.VerificationStatus{
		ProfileVerified: profile.WorldIDVerified,
		SessionVerified: sessionVerified,
	}
	if !auction.IsEligibleToList(status) {
		return nil, apperrors.ErrVerificationRequired
	}

	now := s.now()
	if err := auction.ValidateListing(v, a, now); err != nil {
		return nil, err
	}
	listing := auction.BuildListing(sellerID, v, a, now)

	err = s.auctions.WithTransaction(ctx, func(ctx context.Context, repo repository.AuctionRepository) error {
		return repo.CreateListing(ctx, &listing.Vehicle, listing.Images, &listing.Auction)
	})
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	if !profile.IsSeller {
		if err := s.profiles.MarkSeller(ctx, sellerID); err != nil {
			log.WithFields(log.Fields{"user_id": sellerID, "error": err.Error()}).Warn("mark seller failed")
		}
	}

	log.WithFields(log.Fields{
		"seller_id":  sellerID,
		"vehicle_id": listing.Vehicle.ID,
		"auction_id": listing.Auction.ID,
		"status":     listing.Auction.Status,
	}).Info("listing created")

	listing.Vehicle.Images = listing.Images
	return &listing, nil
}

// UpdateVehicle edits a vehicle's details. Only the seller may edit, and only
// until the first bid. A nil v.Images keeps the current images. The bid check
// and the write hold the same lock and row lock as bid placement.
func (s *listingService) UpdateVehicle(ctx context.Context, sellerID, vehicleID uuid.UUID, v auction.VehicleDraft) (*model.Vehicle, error) {
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.SellerID != sellerID {
		return nil, apperrors.ErrForbidden
	}
	now := s.now()
	if err := auction.ValidateVehicle(v, now); err != nil {
		return nil, err
	}

	a, err := s.auctions.FindByVehicleID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	auction.ApplyVehicleDraft(vehicle, v)
	var images []model.VehicleImage
	if v.Images != nil {
		images = auction.BuildImages(vehicle.ID, v.Images)
	}

	mutex := auctionLocks.get(a.ID)
	mutex.Lock()
	defer mutex.Unlock()

	err = s.auctions.WithTransaction(ctx, func(ctx context.Context, repo repository.AuctionRepository) error {
		locked, err := repo.FindByIDForUpdate(ctx, a.ID)
		if err != nil {
			return err
		}
		bidCount, err := repo.CountBids(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("count bids: %w", err)
		}
		if bidCount > 0 || auction.Advance(*locked, nil, now).Status.IsTerminal() {
			return apperrors.ErrVehicleLocked
		}
		if err := repo.UpdateVehicle(ctx, vehicle, images); err != nil {
			return fmt.Errorf("update vehicle: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"seller_id": sellerID, "vehicle_id": vehicleID}).Info("vehicle updated")
	return s.vehicles.FindByID(ctx, vehicleID)
}

func (s *listingService) GetVehicle(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	return s.vehicles.FindByID(ctx, id)
}

func (s *listingService) ListVehicles(ctx context.Context, limit, offset int) ([]model.Vehicle, error) {
	return s.vehicles.List(ctx, limit, offset)
}
