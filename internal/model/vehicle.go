package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vehicle is a car offered by a seller.
type Vehicle struct {
	ID            uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	SellerID      uuid.UUID `json:"seller_id" gorm:"type:char(36);not null;index"`
	Make          string    `json:"make" gorm:"size:100;not null;index"`
	Model         string    `json:"model" gorm:"size:100;not null"`
	Year          int       `json:"year" gorm:"not null"`
	Mileage       int       `json:"mileage" gorm:"not null"`
	Engine        *string   `json:"engine" gorm:"size:100"`
	Transmission  *string   `json:"transmission" gorm:"size:50"`
	ExteriorColor *string   `json:"exterior_color" gorm:"size:50"`
	InteriorColor *string   `json:"interior_color" gorm:"size:50"`
	VIN           *string   `json:"vin" gorm:"column:vin;size:17"`
	Description   *string   `json:"description" gorm:"type:text"`
	Condition     *string   `json:"condition" gorm:"size:50"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relations
	Images []VehicleImage `json:"images,omitempty" gorm:"foreignKey:VehicleID"`
}

// BeforeCreate sets UUID before creating the record.
func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// VehicleImage is a picture of a vehicle. Ordering is not significant.
type VehicleImage struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	VehicleID uuid.UUID `json:"vehicle_id" gorm:"type:char(36);not null;index"`
	URL       string    `json:"url" gorm:"size:1024;not null"`
	IsPrimary bool      `json:"is_primary" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (i *VehicleImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// PrimaryImage returns the primary image URL, falling back to the first image.
func (v *Vehicle) PrimaryImage() string {
	for _, img := range v.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(v.Images) > 0 {
		return v.Images[0].URL
	}
	return ""
}
