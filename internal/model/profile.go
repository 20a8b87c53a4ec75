package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the public marketplace identity of a user. Its ID equals the User ID.
type Profile struct {
	ID              uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username        *string   `json:"username" gorm:"size:100;index"`
	FullName        *string   `json:"full_name" gorm:"size:255"`
	AvatarURL       *string   `json:"avatar_url" gorm:"size:512"`
	PhoneNumber     *string   `json:"phone_number" gorm:"size:32"`
	Address         *string   `json:"address" gorm:"size:512"`
	IsSeller        bool      `json:"is_seller" gorm:"default:false"`
	IsVerified      bool      `json:"is_verified" gorm:"default:false"`
	WorldIDVerified bool      `json:"world_id_verified" gorm:"default:false;index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
