package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	apperrors "autobid/internal/errors"
	"autobid/internal/model"
	"autobid/internal/repository"
)

// ProfilePatch holds editable profile fields. Nil leaves a field unchanged;
// an empty string clears it.
type ProfilePatch struct {
	Username    *string
	FullName    *string
	AvatarURL   *string
	PhoneNumber *string
	Address     *string
}

// ProfileService handles profile reads and the user's own activity views.
type ProfileService interface {
	GetMine(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	UpdateMine(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*model.Profile, error)
	GetPublic(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	// ActiveBids returns the user's bids on auctions that are still open.
	ActiveBids(ctx context.Context, userID uuid.UUID) ([]model.Bid, error)
	WonAuctions(ctx context.Context, userID uuid.UUID) ([]model.Auction, error)
}

type profileService struct {
	profiles repository.ProfileRepository
	auctions repository.AuctionRepository
}

// NewProfileService creates a new profile service.
func NewProfileService(profiles repository.ProfileRepository, auctions repository.AuctionRepository) ProfileService {
	return &profileService{profiles: profiles, auctions: auctions}
}

func (s *profileService) GetMine(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	return s.profiles.Ensure(ctx, userID)
}

func (s *profileService) UpdateMine(ctx context.Context, userID uuid.UUID, patch ProfilePatch) (*model.Profile, error) {
	profile, err := s.profiles.Ensure(ctx, userID)
	if err != nil {
		return nil, err
	}

	if patch.AvatarURL != nil && *patch.AvatarURL != "" && !strings.HasPrefix(*patch.AvatarURL, "http") {
		verr := apperrors.NewValidationError()
		verr.Add("avatar_url", "must be an http(s) URL")
		return nil, verr
	}

	apply(&profile.Username, patch.Username)
	apply(&profile.FullName, patch.FullName)
	apply(&profile.AvatarURL, patch.AvatarURL)
	apply(&profile.PhoneNumber, patch.PhoneNumber)
	apply(&profile.Address, patch.Address)

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.profiles.FindByID(ctx, userID)
}

func apply(field **string, value *string) {
	if value == nil {
		return
	}
	v := strings.TrimSpace(*value)
	if v == "" {
		*field = nil
		return
	}
	*field = &v
}

func (s *profileService) GetPublic(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	profile, err := s.profiles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Contact details are private.
	profile.PhoneNumber = nil
	profile.Address = nil
	return profile, nil
}

func (s *profileService) ActiveBids(ctx context.Context, userID uuid.UUID) ([]model.Bid, error) {
	bids, err := s.auctions.ListBidsBy(ctx, userID)
	if err != nil {
		return nil, err
	}
	active := make([]model.Bid, 0, len(bids))
	for _, b := range bids {
		if b.Auction != nil && b.Auction.Status == model.AuctionStatusActive {
			active = append(active, b)
		}
	}
	return active, nil
}

func (s *profileService) WonAuctions(ctx context.Context, userID uuid.UUID) ([]model.Auction, error) {
	return s.auctions.ListWonBy(ctx, userID)
}
