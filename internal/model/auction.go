package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AuctionStatus represents the lifecycle state of an auction.
type AuctionStatus string

const (
	AuctionStatusPending   AuctionStatus = "pending"
	AuctionStatusActive    AuctionStatus = "active"
	AuctionStatusEnded     AuctionStatus = "ended"
	AuctionStatusCancelled AuctionStatus = "cancelled"
)

// IsTerminal reports whether no further transition is possible.
func (s AuctionStatus) IsTerminal() bool {
	return s == AuctionStatusEnded || s == AuctionStatusCancelled
}

// Auction is a time-bounded ascending-bid sale of one vehicle.
type Auction struct {
	ID              uuid.UUID        `json:"id" gorm:"type:char(36);primaryKey"`
	VehicleID       uuid.UUID        `json:"vehicle_id" gorm:"type:char(36);not null;uniqueIndex"`
	StartPrice      decimal.Decimal  `json:"start_price" gorm:"type:decimal(20,2);not null"`
	ReservePrice    *decimal.Decimal `json:"reserve_price" gorm:"type:decimal(20,2)"`
	MinBidIncrement decimal.Decimal  `json:"min_bid_increment" gorm:"type:decimal(20,2);not null"`
	StartDate       time.Time        `json:"start_date" gorm:"not null;index"`
	EndDate         time.Time        `json:"end_date" gorm:"not null;index"`
	Status          AuctionStatus    `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	WinnerID        *uuid.UUID       `json:"winner_id" gorm:"type:char(36);index"`
	FinalPrice      *decimal.Decimal `json:"final_price" gorm:"type:decimal(20,2)"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`

	// Relations
	Vehicle *Vehicle `json:"vehicle,omitempty" gorm:"foreignKey:VehicleID"`
	Bids    []Bid    `json:"bids,omitempty" gorm:"foreignKey:AuctionID"`
}

// BeforeCreate sets UUID before creating the record.
func (a *Auction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Bid is an offer against an auction. Bids are append-only.
type Bid struct {
	ID        uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	AuctionID uuid.UUID       `json:"auction_id" gorm:"type:char(36);not null;index:idx_bids_auction_amount,priority:1"`
	BidderID  uuid.UUID       `json:"bidder_id" gorm:"type:char(36);not null;index"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null;index:idx_bids_auction_amount,priority:2"`
	CreatedAt time.Time       `json:"created_at"`

	// Relations
	Bidder  *Profile `json:"bidder,omitempty" gorm:"foreignKey:BidderID"`
	Auction *Auction `json:"auction,omitempty" gorm:"foreignKey:AuctionID"`
}

// BeforeCreate sets UUID before creating the record.
func (b *Bid) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
