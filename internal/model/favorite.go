package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite is an auction a user is watching.
type Favorite struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;uniqueIndex:idx_favorites_user_auction"`
	AuctionID uuid.UUID `json:"auction_id" gorm:"type:char(36);not null;uniqueIndex:idx_favorites_user_auction"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Auction *Auction `json:"auction,omitempty" gorm:"foreignKey:AuctionID"`
}

// BeforeCreate sets UUID before creating the record.
func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
