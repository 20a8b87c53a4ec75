package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Car is an entry of the flat inventory API. It has no auction attached.
type Car struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Make        string          `json:"make" gorm:"size:100;not null"`
	Model       string          `json:"model" gorm:"size:100;not null"`
	Year        int             `json:"year" gorm:"not null"`
	StartPrice  decimal.Decimal `json:"start_price" gorm:"type:decimal(20,2);not null"`
	OwnerWallet string          `json:"owner_wallet" gorm:"size:128;not null;index"`
	ImageURL    string          `json:"image_url" gorm:"size:1024"`
	CreatedAt   time.Time       `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Car) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
