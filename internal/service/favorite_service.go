package service

import (
	"context"

	"github.com/google/uuid"

	"autobid/internal/model"
	"autobid/internal/repository"
)

// FavoriteService manages a user's watch list.
type FavoriteService interface {
	Add(ctx context.Context, userID, auctionID uuid.UUID) error
	Remove(ctx context.Context, userID, auctionID uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error)
}

type favoriteService struct {
	favorites repository.FavoriteRepository
	auctions  repository.AuctionRepository
}

// NewFavoriteService creates a new favorite service.
func NewFavoriteService(favorites repository.FavoriteRepository, auctions repository.AuctionRepository) FavoriteService {
	return &favoriteService{favorites: favorites, auctions: auctions}
}

func (s *favoriteService) Add(ctx context.Context, userID, auctionID uuid.UUID) error {
	if _, err := s.auctions.FindByID(ctx, auctionID); err != nil {
		return err
	}
	return s.favorites.Add(ctx, userID, auctionID)
}

func (s *favoriteService) Remove(ctx context.Context, userID, auctionID uuid.UUID) error {
	return s.favorites.Remove(ctx, userID, auctionID)
}

func (s *favoriteService) List(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error) {
	return s.favorites.ListByUser(ctx, userID)
}
