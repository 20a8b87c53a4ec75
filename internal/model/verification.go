package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorldIDVerification binds a World ID nullifier to the user that proved it.
// The nullifier is unique: one verified person, one account.
type WorldIDVerification struct {
	ID                uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	UserID            uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	NullifierHash     string    `json:"nullifier_hash" gorm:"size:128;not null;uniqueIndex"`
	VerificationLevel string    `json:"verification_level" gorm:"size:32;not null"`
	VerifiedAt        time.Time `json:"verified_at"`
}

// BeforeCreate sets UUID before creating the record.
func (v *WorldIDVerification) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
