package handler_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"autobid/internal/auction"
	"autobid/internal/auth"
	apperrors "autobid/internal/errors"
	"autobid/internal/handler"
	"autobid/internal/model"
	"autobid/internal/worldid"
)

const proofBody = `{
	"merkle_root": "0x1f38b57f3bdf96f05ea62fa68814871bf0ca8ce4dbe073d8497d5a6b0a53e5e0",
	"nullifier_hash": "0x2bf8406809dcefb1486dadc96c0a897db9bab002053054cf64272db512c6fbd8",
	"proof": "0x0d9dbd6a5d0b7c1d",
	"verification_level": "orb",
	"action": "verify-identity"
}`

func TestVerificationHandler_VerifyIdentity(t *testing.T) {
	user := uuid.New()
	markers := auth.NewJWTService("test-secret")

	t.Run("sets cookie on success", func(t *testing.T) {
		svc := new(MockVerificationService)
		h := handler.NewVerificationHandler(svc, markers, true)
		svc.On("Verify", mock.Anything, user, mock.MatchedBy(func(p worldid.Proof) bool {
			return p.Action == "verify-identity" && p.VerificationLevel == "orb"
		})).Return(nil)

		c, rec := newContext(http.MethodPost, "/", proofBody, user, model.RoleUser)
		require.NoError(t, h.VerifyIdentity(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true}`, rec.Body.String())

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		cookie := cookies[0]
		assert.Equal(t, handler.VerificationCookie, cookie.Name)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, "/", cookie.Path)
		assert.Equal(t, 604800, cookie.MaxAge)
		assert.True(t, markers.ValidVerificationMarker(cookie.Value, user))
		assert.False(t, markers.ValidVerificationMarker(cookie.Value, uuid.New()))
	})

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"rejected proof", &worldid.RejectedError{Code: "invalid_proof"}, http.StatusBadRequest, "PROOF_REJECTED"},
		{"action mismatch", apperrors.ErrActionMismatch, http.StatusBadRequest, "ACTION_MISMATCH"},
		{"nullifier reused", apperrors.ErrNullifierInUse, http.StatusConflict, "NULLIFIER_IN_USE"},
		{"provider down", apperrors.ErrUpstreamUnavailable, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockVerificationService)
			h := handler.NewVerificationHandler(svc, markers, true)
			svc.On("Verify", mock.Anything, user, mock.Anything).Return(tt.err)

			c, rec := newContext(http.MethodPost, "/", proofBody, user, model.RoleUser)
			requireHTTPError(t, h.VerifyIdentity(c), tt.status, tt.code)
			assert.Empty(t, rec.Result().Cookies())
		})
	}

	t.Run("missing fields", func(t *testing.T) {
		svc := new(MockVerificationService)
		h := handler.NewVerificationHandler(svc, markers, true)

		c, _ := newContext(http.MethodPost, "/", `{"action":"verify-identity"}`, user, model.RoleUser)
		requireHTTPError(t, h.VerifyIdentity(c), http.StatusBadRequest, "VALIDATION_ERROR")
		svc.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVerificationHandler_Status(t *testing.T) {
	user := uuid.New()
	markers := auth.NewJWTService("test-secret")
	svc := new(MockVerificationService)
	h := handler.NewVerificationHandler(svc, markers, false)
	svc.On("Status", mock.Anything, user).Return(false, nil)

	c, rec := newContext(http.MethodGet, "/", "", user, model.RoleUser)
	require.NoError(t, h.VerificationStatus(c))
	assert.JSONEq(t, `{"verified":false,"session_verified":false}`, rec.Body.String())

	marker, err := markers.GenerateVerificationMarker(user)
	require.NoError(t, err)
	c, rec = newContext(http.MethodGet, "/", "", user, model.RoleUser)
	c.Request().AddCookie(&http.Cookie{Name: handler.VerificationCookie, Value: marker})
	require.NoError(t, h.VerificationStatus(c))
	assert.JSONEq(t, `{"verified":true,"session_verified":true}`, rec.Body.String())
}

func TestListingHandler_CreateListing(t *testing.T) {
	seller := uuid.New()
	markers := auth.NewJWTService("test-secret")
	body := `{
		"make": "Toyota",
		"model": "Land Cruiser",
		"year": 2004,
		"mileage": 210000,
		"description": "Single owner, full service history.",
		"images": [{"url": "https://img.example.com/lc-1.jpg"}],
		"start_price": "15000.00",
		"reserve_price": "20000",
		"auction_duration": 7
	}`

	listing := &auction.Listing{
		Vehicle: model.Vehicle{ID: uuid.New(), SellerID: seller, Make: "Toyota", Model: "Land Cruiser"},
		Auction: model.Auction{ID: uuid.New(), Status: model.AuctionStatusActive, StartPrice: decimal.NewFromInt(15000)},
	}

	t.Run("session marker counts as verified", func(t *testing.T) {
		svc := new(MockListingService)
		h := handler.NewListingHandler(svc, markers)
		svc.On("CreateListing", mock.Anything, seller,
			mock.MatchedBy(func(v auction.VehicleDraft) bool {
				return v.Model == "Land Cruiser" && len(v.Images) == 1
			}),
			mock.MatchedBy(func(a auction.AuctionDraft) bool {
				return a.StartPrice.Equal(decimal.NewFromInt(15000)) && a.ReservePrice != nil && a.DurationDays == 7
			}),
			true,
		).Return(listing, nil)

		marker, err := markers.GenerateVerificationMarker(seller)
		require.NoError(t, err)
		c, rec := newContext(http.MethodPost, "/", body, seller, model.RoleUser)
		c.Request().AddCookie(&http.Cookie{Name: handler.VerificationCookie, Value: marker})

		require.NoError(t, h.CreateListing(c))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"make":"Toyota"`)
		svc.AssertExpectations(t)
	})

	t.Run("marker of another user is ignored", func(t *testing.T) {
		svc := new(MockListingService)
		h := handler.NewListingHandler(svc, markers)
		svc.On("CreateListing", mock.Anything, seller, mock.Anything, mock.Anything, false).
			Return(nil, apperrors.ErrVerificationRequired)

		marker, err := markers.GenerateVerificationMarker(uuid.New())
		require.NoError(t, err)
		c, _ := newContext(http.MethodPost, "/", body, seller, model.RoleUser)
		c.Request().AddCookie(&http.Cookie{Name: handler.VerificationCookie, Value: marker})

		requireHTTPError(t, h.CreateListing(c), http.StatusForbidden, "VERIFICATION_REQUIRED")
	})

	t.Run("bad price", func(t *testing.T) {
		svc := new(MockListingService)
		h := handler.NewListingHandler(svc, markers)

		c, _ := newContext(http.MethodPost, "/", `{"make":"Toyota","model":"Hilux","year":2010,"start_price":"cheap"}`, seller, model.RoleUser)
		requireHTTPError(t, h.CreateListing(c), http.StatusBadRequest, "VALIDATION_ERROR")
		svc.AssertNotCalled(t, "CreateListing", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
