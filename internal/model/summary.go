package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AuctionSummary is the browse-page view of an auction.
type AuctionSummary struct {
	ID              uuid.UUID           `json:"id" db:"id"`
	VehicleID       uuid.UUID           `json:"vehicle_id" db:"vehicle_id"`
	Make            string              `json:"make" db:"make"`
	Model           string              `json:"model" db:"model"`
	Year            int                 `json:"year" db:"year"`
	Mileage         int                 `json:"mileage" db:"mileage"`
	PrimaryImage    string              `json:"primary_image" db:"primary_image"`
	Status          AuctionStatus       `json:"status" db:"status"`
	StartPrice      decimal.Decimal     `json:"start_price" db:"start_price"`
	MinBidIncrement decimal.Decimal     `json:"min_bid_increment" db:"min_bid_increment"`
	HighestBid      decimal.NullDecimal `json:"highest_bid" db:"highest_bid" swaggertype:"string"`
	BidCount        int64               `json:"bid_count" db:"bid_count"`
	EndDate         time.Time           `json:"end_date" db:"end_date"`
}
