package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"autobid/internal/model"
	"autobid/internal/service"
)

// AuctionHandler handles browsing, bidding and auction administration.
type AuctionHandler struct {
	auctionService service.AuctionService
}

// NewAuctionHandler creates a new auction handler.
func NewAuctionHandler(auctionService service.AuctionService) *AuctionHandler {
	return &AuctionHandler{auctionService: auctionService}
}

// PlaceBidRequest represents a bid submission.
type PlaceBidRequest struct {
	Amount string `json:"amount" validate:"required" example:"10100.00"`
}

// MinimumBidResponse reports the lowest acceptable next bid.
type MinimumBidResponse struct {
	AuctionID  string `json:"auction_id"`
	MinimumBid string `json:"minimum_bid"`
}

// ListAuctions godoc
// @Summary List auctions
// @Description Active auctions by default, soonest to end first, with highest bid and bid count.
// @Tags auctions
// @Produce json
// @Param status query string false "pending, active, ended or cancelled"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} model.AuctionSummary
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auctions [get]
func (h *AuctionHandler) ListAuctions(c echo.Context) error {
	status := model.AuctionStatus(c.QueryParam("status"))
	switch status {
	case "", model.AuctionStatusPending, model.AuctionStatusActive, model.AuctionStatusEnded, model.AuctionStatusCancelled:
	default:
		return badRequest("unknown auction status", "INVALID_STATUS")
	}

	limit, offset := pagination(c)
	auctions, err := h.auctionService.ListAuctions(c.Request().Context(), status, limit, offset)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, auctions)
}

// GetAuction godoc
// @Summary Get auction detail
// @Description Auction with vehicle, images and bids. The status reflects the current time.
// @Tags auctions
// @Produce json
// @Param id path string true "Auction ID"
// @Success 200 {object} model.Auction
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auctions/{id} [get]
func (h *AuctionHandler) GetAuction(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	a, err := h.auctionService.GetAuction(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, a)
}

// MinimumBid godoc
// @Summary Get the minimum acceptable bid
// @Tags auctions
// @Produce json
// @Param id path string true "Auction ID"
// @Success 200 {object} MinimumBidResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auctions/{id}/minimum-bid [get]
func (h *AuctionHandler) MinimumBid(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	floor, err := h.auctionService.MinimumBid(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MinimumBidResponse{
		AuctionID:  id.String(),
		MinimumBid: floor.StringFixed(2),
	})
}

// PlaceBid godoc
// @Summary Place a bid
// @Tags auctions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Auction ID"
// @Param request body PlaceBidRequest true "Bid"
// @Success 201 {object} model.Bid
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auctions/{id}/bids [post]
func (h *AuctionHandler) PlaceBid(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	var req PlaceBidRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return badRequest("invalid amount", "INVALID_AMOUNT")
	}

	bid, err := h.auctionService.PlaceBid(c.Request().Context(), id, claims.UserID, amount)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, bid)
}

// CloseAuction godoc
// @Summary End an auction early
// @Description Administrators only. The winner is settled as if the end date had passed.
// @Tags auctions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Auction ID"
// @Success 200 {object} model.Auction
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auctions/{id}/close [post]
func (h *AuctionHandler) CloseAuction(c echo.Context) error {
	return h.administer(c, h.auctionService.CloseAuction)
}

// CancelAuction godoc
// @Summary Cancel an auction
// @Description The seller may cancel until the first bid; administrators until it ends.
// @Tags auctions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Auction ID"
// @Success 200 {object} model.Auction
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /auctions/{id}/cancel [post]
func (h *AuctionHandler) CancelAuction(c echo.Context) error {
	return h.administer(c, h.auctionService.CancelAuction)
}

type auctionOp func(ctx context.Context, id uuid.UUID, actor service.Actor) (*model.Auction, error)

func (h *AuctionHandler) administer(c echo.Context, op auctionOp) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}

	actor := service.Actor{UserID: claims.UserID, Admin: claims.Role == model.RoleAdmin}
	a, err := op(c.Request().Context(), id, actor)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, a)
}
