package auction

import (
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "autobid/internal/errors"
	"autobid/internal/model"
)

const (
	// MinYear is the oldest model year accepted for a listing.
	MinYear = 1900
	// MinDescriptionLength is the minimum description length in characters.
	MinDescriptionLength = 10
	// DefaultDurationDays applies when a draft does not specify a duration.
	DefaultDurationDays = 7
	// PlaceholderImageURL is used when a listing has no picture.
	PlaceholderImageURL = "/placeholder.svg?height=300&width=500"
)

// DefaultMinBidIncrement applies when a draft does not specify an increment.
var DefaultMinBidIncrement = decimal.NewFromInt(100)

// AllowedDurations lists the auction lengths sellers can choose, in days.
var AllowedDurations = []int{1, 3, 5, 7, 14, 30}

// ImageDraft is a picture attached to a listing draft.
type ImageDraft struct {
	URL       string
	IsPrimary bool
}

// VehicleDraft is the vehicle half of a listing submission.
type VehicleDraft struct {
	Make          string
	Model         string
	Year          int
	Mileage       int
	Engine        string
	Transmission  string
	ExteriorColor string
	InteriorColor string
	VIN           string
	Description   string
	Condition     string
	Images        []ImageDraft
}

// AuctionDraft is the auction half of a listing submission.
type AuctionDraft struct {
	StartPrice      decimal.Decimal
	ReservePrice    *decimal.Decimal
	MinBidIncrement *decimal.Decimal
	DurationDays    int
	StartDate       *time.Time
}

// Listing is a vehicle, its images and its auction, created together.
type Listing struct {
	Vehicle model.Vehicle
	Images  []model.VehicleImage
	Auction model.Auction
}

// ValidateListing checks a draft and reports every failing field at once.
func ValidateListing(v VehicleDraft, a AuctionDraft, now time.Time) error {
	verr := apperrors.NewValidationError()
	validateVehicle(verr, v, now)

	if !a.StartPrice.IsPositive() {
		verr.Add("start_price", "must be greater than 0")
	}
	if a.ReservePrice != nil && a.ReservePrice.LessThan(a.StartPrice) {
		verr.Add("reserve_price", "must not be lower than the start price")
	}
	if a.MinBidIncrement != nil && !a.MinBidIncrement.IsPositive() {
		verr.Add("min_bid_increment", "must be greater than 0")
	}
	if a.DurationDays != 0 && !allowedDuration(a.DurationDays) {
		verr.Add("auction_duration", fmt.Sprintf("must be one of %v days", AllowedDurations))
	}
	if a.StartDate != nil && a.StartDate.Before(now.Add(-time.Minute)) {
		verr.Add("start_date", "must not be in the past")
	}

	return verr.OrNil()
}

// ValidateVehicle checks vehicle fields only, for edits after listing.
func ValidateVehicle(v VehicleDraft, now time.Time) error {
	verr := apperrors.NewValidationError()
	validateVehicle(verr, v, now)
	return verr.OrNil()
}

func validateVehicle(verr *apperrors.ValidationError, v VehicleDraft, now time.Time) {
	if strings.TrimSpace(v.Make) == "" {
		verr.Add("make", "is required")
	}
	if strings.TrimSpace(v.Model) == "" {
		verr.Add("model", "is required")
	}
	if v.Year < MinYear || v.Year > now.Year()+1 {
		verr.Add("year", fmt.Sprintf("must be between %d and %d", MinYear, now.Year()+1))
	}
	if v.Mileage < 0 {
		verr.Add("mileage", "must not be negative")
	}
	if utf8.RuneCountInString(strings.TrimSpace(v.Description)) < MinDescriptionLength {
		verr.Add("description", fmt.Sprintf("must be at least %d characters", MinDescriptionLength))
	}

	primaries := 0
	for i, img := range v.Images {
		if !isHTTPURL(img.URL) {
			verr.Add(fmt.Sprintf("images[%d].url", i), "must be an absolute http(s) URL")
		}
		if img.IsPrimary {
			primaries++
		}
	}
	if primaries > 1 {
		verr.Add("images", "only one image can be primary")
	}
}

// BuildListing turns a validated draft into records ready to persist.
// The auction starts at the draft's start date or now, and its initial
// status is the lifecycle projection at now.
func BuildListing(sellerID uuid.UUID, v VehicleDraft, a AuctionDraft, now time.Time) Listing {
	vehicle := model.Vehicle{ID: uuid.New(), SellerID: sellerID}
	ApplyVehicleDraft(&vehicle, v)

	images := BuildImages(vehicle.ID, v.Images)

	start := now
	if a.StartDate != nil && a.StartDate.After(now) {
		start = *a.StartDate
	}
	duration := a.DurationDays
	if duration == 0 {
		duration = DefaultDurationDays
	}
	increment := DefaultMinBidIncrement
	if a.MinBidIncrement != nil {
		increment = *a.MinBidIncrement
	}

	auc := model.Auction{
		ID:              uuid.New(),
		VehicleID:       vehicle.ID,
		StartPrice:      a.StartPrice,
		ReservePrice:    a.ReservePrice,
		MinBidIncrement: increment,
		StartDate:       start,
		EndDate:         start.AddDate(0, 0, duration),
		Status:          model.AuctionStatusPending,
	}
	auc = Advance(auc, nil, now)

	return Listing{Vehicle: vehicle, Images: images, Auction: auc}
}

// ApplyVehicleDraft copies the draft's normalized fields onto vehicle.
func ApplyVehicleDraft(vehicle *model.Vehicle, v VehicleDraft) {
	vehicle.Make = strings.TrimSpace(v.Make)
	vehicle.Model = strings.TrimSpace(v.Model)
	vehicle.Year = v.Year
	vehicle.Mileage = v.Mileage
	vehicle.Engine = optional(v.Engine)
	vehicle.Transmission = optional(v.Transmission)
	vehicle.ExteriorColor = optional(v.ExteriorColor)
	vehicle.InteriorColor = optional(v.InteriorColor)
	vehicle.VIN = optional(strings.ToUpper(v.VIN))
	vehicle.Description = optional(v.Description)
	vehicle.Condition = optional(v.Condition)
}

// BuildImages creates image records for vehicleID. Without drafts the vehicle
// gets the placeholder; otherwise the first image is primary unless one is flagged.
func BuildImages(vehicleID uuid.UUID, drafts []ImageDraft) []model.VehicleImage {
	if len(drafts) == 0 {
		return []model.VehicleImage{{
			ID:        uuid.New(),
			VehicleID: vehicleID,
			URL:       PlaceholderImageURL,
			IsPrimary: true,
		}}
	}

	hasPrimary := false
	for _, d := range drafts {
		hasPrimary = hasPrimary || d.IsPrimary
	}

	images := make([]model.VehicleImage, 0, len(drafts))
	for i, d := range drafts {
		images = append(images, model.VehicleImage{
			ID:        uuid.New(),
			VehicleID: vehicleID,
			URL:       d.URL,
			IsPrimary: d.IsPrimary || (!hasPrimary && i == 0),
		})
	}
	return images
}

func allowedDuration(days int) bool {
	for _, d := range AllowedDurations {
		if d == days {
			return true
		}
	}
	return false
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
