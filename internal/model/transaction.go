package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionStatus represents the settlement status of a won auction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusPaid      TransactionStatus = "paid"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusRefunded  TransactionStatus = "refunded"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Transaction records the sale that follows an auction with a winner.
// Payment processing is external; rows are created pending.
type Transaction struct {
	ID            uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	AuctionID     uuid.UUID         `json:"auction_id" gorm:"type:char(36);not null;uniqueIndex"`
	BuyerID       uuid.UUID         `json:"buyer_id" gorm:"type:char(36);not null;index"`
	SellerID      uuid.UUID         `json:"seller_id" gorm:"type:char(36);not null;index"`
	Amount        decimal.Decimal   `json:"amount" gorm:"type:decimal(20,2);not null"`
	Status        TransactionStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentMethod *string           `json:"payment_method" gorm:"size:50"`
	PaymentID     *string           `json:"payment_id" gorm:"size:255"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
