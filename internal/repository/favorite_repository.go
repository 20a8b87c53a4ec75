package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"autobid/internal/model"
)

// FavoriteRepository defines watch-list persistence operations.
type FavoriteRepository interface {
	Add(ctx context.Context, userID, auctionID uuid.UUID) error
	Remove(ctx context.Context, userID, auctionID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a new favorite repository.
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

func (r *favoriteRepository) Add(ctx context.Context, userID, auctionID uuid.UUID) error {
	fav := &model.Favorite{UserID: userID, AuctionID: auctionID}
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}, {Name: "auction_id"}}, DoNothing: true}).
		Create(fav).Error
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, auctionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND auction_id = ?", userID, auctionID).
		Delete(&model.Favorite{}).Error
}

func (r *favoriteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Favorite, error) {
	var favorites []model.Favorite
	err := r.db.WithContext(ctx).
		Preload("Auction").
		Preload("Auction.Vehicle").
		Preload("Auction.Vehicle.Images").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	return favorites, err
}
