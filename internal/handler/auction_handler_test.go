package handler_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "autobid/internal/errors"
	"autobid/internal/handler"
	"autobid/internal/model"
	"autobid/internal/service"
)

func TestAuctionHandler_PlaceBid(t *testing.T) {
	auctionID := uuid.New()
	bidder := uuid.New()

	t.Run("accepted", func(t *testing.T) {
		svc := new(MockAuctionService)
		h := handler.NewAuctionHandler(svc)
		amount := decimal.RequireFromString("10100.00")
		svc.On("PlaceBid", mock.Anything, auctionID, bidder, mock.MatchedBy(amount.Equal)).
			Return(&model.Bid{ID: uuid.New(), AuctionID: auctionID, BidderID: bidder, Amount: amount}, nil)

		c, rec := newContext(http.MethodPost, "/", `{"amount":"10100.00"}`, bidder, model.RoleUser)
		c.SetParamNames("id")
		c.SetParamValues(auctionID.String())

		require.NoError(t, h.PlaceBid(c))
		assert.Equal(t, http.StatusCreated, rec.Code)

		var bid model.Bid
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bid))
		assert.Equal(t, bidder, bid.BidderID)
		svc.AssertExpectations(t)
	})

	t.Run("below floor", func(t *testing.T) {
		svc := new(MockAuctionService)
		h := handler.NewAuctionHandler(svc)
		svc.On("PlaceBid", mock.Anything, auctionID, bidder, mock.Anything).
			Return(nil, &apperrors.BidTooLowError{Floor: decimal.NewFromInt(10100)})

		c, _ := newContext(http.MethodPost, "/", `{"amount":"10050"}`, bidder, model.RoleUser)
		c.SetParamNames("id")
		c.SetParamValues(auctionID.String())

		requireHTTPError(t, h.PlaceBid(c), http.StatusConflict, "BID_TOO_LOW")
	})

	t.Run("auction closed", func(t *testing.T) {
		svc := new(MockAuctionService)
		h := handler.NewAuctionHandler(svc)
		svc.On("PlaceBid", mock.Anything, auctionID, bidder, mock.Anything).
			Return(nil, apperrors.ErrAuctionNotActive)

		c, _ := newContext(http.MethodPost, "/", `{"amount":"20000"}`, bidder, model.RoleUser)
		c.SetParamNames("id")
		c.SetParamValues(auctionID.String())

		requireHTTPError(t, h.PlaceBid(c), http.StatusConflict, "AUCTION_NOT_ACTIVE")
	})

	t.Run("malformed amount", func(t *testing.T) {
		svc := new(MockAuctionService)
		h := handler.NewAuctionHandler(svc)

		c, _ := newContext(http.MethodPost, "/", `{"amount":"lots"}`, bidder, model.RoleUser)
		c.SetParamNames("id")
		c.SetParamValues(auctionID.String())

		requireHTTPError(t, h.PlaceBid(c), http.StatusBadRequest, "INVALID_AMOUNT")
		svc.AssertNotCalled(t, "PlaceBid", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("anonymous", func(t *testing.T) {
		h := handler.NewAuctionHandler(new(MockAuctionService))
		c, _ := newContext(http.MethodPost, "/", `{"amount":"20000"}`, uuid.Nil, "")
		c.SetParamNames("id")
		c.SetParamValues(auctionID.String())

		requireHTTPError(t, h.PlaceBid(c), http.StatusUnauthorized, "UNAUTHORIZED")
	})
}

func TestAuctionHandler_ListAuctions(t *testing.T) {
	svc := new(MockAuctionService)
	h := handler.NewAuctionHandler(svc)
	svc.On("ListAuctions", mock.Anything, model.AuctionStatus(""), 100, 0).
		Return([]model.AuctionSummary{{ID: uuid.New(), Make: "Ford", Model: "Bronco", BidCount: 3}}, nil)

	c, rec := newContext(http.MethodGet, "/?limit=500", "", uuid.Nil, "")
	require.NoError(t, h.ListAuctions(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"bid_count":3`)

	c, _ = newContext(http.MethodGet, "/?status=sold", "", uuid.Nil, "")
	requireHTTPError(t, h.ListAuctions(c), http.StatusBadRequest, "INVALID_STATUS")
}

func TestAuctionHandler_MinimumBid(t *testing.T) {
	svc := new(MockAuctionService)
	h := handler.NewAuctionHandler(svc)
	id := uuid.New()
	svc.On("MinimumBid", mock.Anything, id).Return(decimal.NewFromInt(10100), nil)

	c, rec := newContext(http.MethodGet, "/", "", uuid.Nil, "")
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	require.NoError(t, h.MinimumBid(c))
	var resp handler.MinimumBidResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "10100.00", resp.MinimumBid)

	c, _ = newContext(http.MethodGet, "/", "", uuid.Nil, "")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	requireHTTPError(t, h.MinimumBid(c), http.StatusBadRequest, "INVALID_UUID")
}

func TestAuctionHandler_CloseAndCancel(t *testing.T) {
	id := uuid.New()
	admin := uuid.New()
	seller := uuid.New()

	svc := new(MockAuctionService)
	h := handler.NewAuctionHandler(svc)
	svc.On("CloseAuction", mock.Anything, id, service.Actor{UserID: admin, Admin: true}).
		Return(&model.Auction{ID: id, Status: model.AuctionStatusEnded}, nil)
	svc.On("CancelAuction", mock.Anything, id, service.Actor{UserID: seller}).
		Return(nil, apperrors.ErrAuctionHasBids)
	svc.On("CloseAuction", mock.Anything, id, service.Actor{UserID: seller}).
		Return(nil, apperrors.ErrForbidden)

	c, rec := newContext(http.MethodPost, "/", "", admin, model.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	require.NoError(t, h.CloseAuction(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ended"`)

	c, _ = newContext(http.MethodPost, "/", "", seller, model.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	requireHTTPError(t, h.CloseAuction(c), http.StatusForbidden, "FORBIDDEN")

	c, _ = newContext(http.MethodPost, "/", "", seller, model.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	requireHTTPError(t, h.CancelAuction(c), http.StatusConflict, "AUCTION_HAS_BIDS")

	svc.AssertExpectations(t)
}
