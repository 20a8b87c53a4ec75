package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"autobid/internal/auction"
	"autobid/internal/errors"
	"autobid/internal/service"
)

// ListingHandler handles listing creation and vehicle endpoints.
type ListingHandler struct {
	listingService service.ListingService
	markers        VerificationMarkers
}

// NewListingHandler creates a new listing handler.
func NewListingHandler(listingService service.ListingService, markers VerificationMarkers) *ListingHandler {
	return &ListingHandler{listingService: listingService, markers: markers}
}

// ImageRequest is one vehicle picture.
type ImageRequest struct {
	URL       string `json:"url" validate:"required"`
	IsPrimary bool   `json:"is_primary"`
}

// VehicleRequest carries the editable vehicle fields.
type VehicleRequest struct {
	Make          string         `json:"make" validate:"required"`
	Model         string         `json:"model" validate:"required"`
	Year          int            `json:"year" validate:"required"`
	Mileage       int            `json:"mileage"`
	Engine        string         `json:"engine"`
	Transmission  string         `json:"transmission"`
	ExteriorColor string         `json:"exterior_color"`
	InteriorColor string         `json:"interior_color"`
	VIN           string         `json:"vin"`
	Description   string         `json:"description"`
	Condition     string         `json:"condition"`
	Images        []ImageRequest `json:"images" validate:"omitempty,dive"`
}

// CreateListingRequest is a vehicle plus its auction terms.
type CreateListingRequest struct {
	VehicleRequest
	StartPrice      string     `json:"start_price" validate:"required" example:"15000.00"`
	ReservePrice    string     `json:"reserve_price" example:"20000.00"`
	MinBidIncrement string     `json:"min_bid_increment" example:"100.00"`
	DurationDays    int        `json:"auction_duration" example:"7"`
	StartDate       *time.Time `json:"start_date"`
}

func (r VehicleRequest) draft() auction.VehicleDraft {
	d := auction.VehicleDraft{
		Make:          r.Make,
		Model:         r.Model,
		Year:          r.Year,
		Mileage:       r.Mileage,
		Engine:        r.Engine,
		Transmission:  r.Transmission,
		ExteriorColor: r.ExteriorColor,
		InteriorColor: r.InteriorColor,
		VIN:           r.VIN,
		Description:   r.Description,
		Condition:     r.Condition,
	}
	if r.Images != nil {
		d.Images = make([]auction.ImageDraft, 0, len(r.Images))
		for _, img := range r.Images {
			d.Images = append(d.Images, auction.ImageDraft{URL: img.URL, IsPrimary: img.IsPrimary})
		}
	}
	return d
}

func (r CreateListingRequest) auctionDraft() (auction.AuctionDraft, error) {
	verr := errors.NewValidationError()
	d := auction.AuctionDraft{DurationDays: r.DurationDays, StartDate: r.StartDate}

	price, err := decimal.NewFromString(r.StartPrice)
	if err != nil {
		verr.Add("start_price", "must be a decimal number")
	}
	d.StartPrice = price
	d.ReservePrice = optionalDecimal(verr, "reserve_price", r.ReservePrice)
	d.MinBidIncrement = optionalDecimal(verr, "min_bid_increment", r.MinBidIncrement)

	return d, verr.OrNil()
}

func optionalDecimal(verr *errors.ValidationError, field, raw string) *decimal.Decimal {
	if raw == "" {
		return nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		verr.Add(field, "must be a decimal number")
		return nil
	}
	return &v
}

// CreateListing godoc
// @Summary List a vehicle for auction
// @Description Requires a World ID verified profile or a verification cookie from this session.
// @Tags listings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateListingRequest true "Vehicle and auction terms"
// @Success 201 {object} model.Auction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /listings [post]
func (h *ListingHandler) CreateListing(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}

	var req CreateListingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	auctionDraft, err := req.auctionDraft()
	if err != nil {
		return fail(err)
	}

	sessionVerified := false
	if cookie, err := c.Cookie(VerificationCookie); err == nil {
		sessionVerified = h.markers.ValidVerificationMarker(cookie.Value, claims.UserID)
	}

	listing, err := h.listingService.CreateListing(c.Request().Context(), claims.UserID, req.draft(), auctionDraft, sessionVerified)
	if err != nil {
		return fail(err)
	}

	created := listing.Auction
	created.Vehicle = &listing.Vehicle
	return c.JSON(http.StatusCreated, created)
}

// ListVehicles godoc
// @Summary List vehicles
// @Tags vehicles
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} model.Vehicle
// @Failure 500 {object} errors.ErrorResponse
// @Router /vehicles [get]
func (h *ListingHandler) ListVehicles(c echo.Context) error {
	limit, offset := pagination(c)
	vehicles, err := h.listingService.ListVehicles(c.Request().Context(), limit, offset)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, vehicles)
}

// GetVehicle godoc
// @Summary Get a vehicle
// @Tags vehicles
// @Produce json
// @Param id path string true "Vehicle ID"
// @Success 200 {object} model.Vehicle
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /vehicles/{id} [get]
func (h *ListingHandler) GetVehicle(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	vehicle, err := h.listingService.GetVehicle(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, vehicle)
}

// UpdateVehicle godoc
// @Summary Edit a vehicle
// @Description Seller only, before the first bid. Omitting images keeps the current ones.
// @Tags vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vehicle ID"
// @Param request body VehicleRequest true "Vehicle details"
// @Success 200 {object} model.Vehicle
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /vehicles/{id} [put]
func (h *ListingHandler) UpdateVehicle(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req VehicleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	vehicle, err := h.listingService.UpdateVehicle(c.Request().Context(), claims.UserID, id, req.draft())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, vehicle)
}
