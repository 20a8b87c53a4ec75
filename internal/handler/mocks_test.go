package handler_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"autobid/internal/auction"
	"autobid/internal/auth"
	"autobid/internal/errors"
	"autobid/internal/model"
	"autobid/internal/router"
	"autobid/internal/service"
	"autobid/internal/worldid"
)

// MockAuctionService is a mock implementation of service.AuctionService.
type MockAuctionService struct {
	mock.Mock
}

func (m *MockAuctionService) PlaceBid(ctx context.Context, auctionID, bidderID uuid.UUID, amount decimal.Decimal) (*model.Bid, error) {
	args := m.Called(ctx, auctionID, bidderID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Bid), args.Error(1)
}

func (m *MockAuctionService) GetAuction(ctx context.Context, id uuid.UUID) (*model.Auction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Auction), args.Error(1)
}

func (m *MockAuctionService) ListAuctions(ctx context.Context, status model.AuctionStatus, limit, offset int) ([]model.AuctionSummary, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuctionSummary), args.Error(1)
}

func (m *MockAuctionService) MinimumBid(ctx context.Context, id uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAuctionService) CloseAuction(ctx context.Context, id uuid.UUID, actor service.Actor) (*model.Auction, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Auction), args.Error(1)
}

func (m *MockAuctionService) CancelAuction(ctx context.Context, id uuid.UUID, actor service.Actor) (*model.Auction, error) {
	args := m.Called(ctx, id, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Auction), args.Error(1)
}

// MockListingService is a mock implementation of service.ListingService.
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) CreateListing(ctx context.Context, sellerID uuid.UUID, v auction.VehicleDraft, a auction.AuctionDraft, sessionVerified bool) (*auction.Listing, error) {
	args := m.Called(ctx, sellerID, v, a, sessionVerified)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auction.Listing), args.Error(1)
}

func (m *MockListingService) UpdateVehicle(ctx context.Context, sellerID, vehicleID uuid.UUID, v auction.VehicleDraft) (*model.Vehicle, error) {
	args := m.Called(ctx, sellerID, vehicleID, v)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *MockListingService) GetVehicle(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Vehicle), args.Error(1)
}

func (m *MockListingService) ListVehicles(ctx context.Context, limit, offset int) ([]model.Vehicle, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Vehicle), args.Error(1)
}

// MockVerificationService is a mock implementation of service.VerificationService.
type MockVerificationService struct {
	mock.Mock
}

func (m *MockVerificationService) Verify(ctx context.Context, userID uuid.UUID, proof worldid.Proof) error {
	args := m.Called(ctx, userID, proof)
	return args.Error(0)
}

func (m *MockVerificationService) Status(ctx context.Context, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

// newContext builds an echo context for a JSON request, authenticated as
// userID unless it is uuid.Nil.
func newContext(method, target, body string, userID uuid.UUID, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = router.NewValidator()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if userID != uuid.Nil {
		c.Set(auth.ContextKey, &jwt.Token{
			Claims: &auth.Claims{UserID: userID, Email: "driver@example.com", Role: role},
			Valid:  true,
		})
	}
	return c, rec
}

// requireHTTPError asserts err is an echo error with the given status and code.
func requireHTTPError(t *testing.T, err error, status int, code string) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T: %v", err, err)
	require.Equal(t, status, he.Code)
	resp, ok := he.Message.(errors.ErrorResponse)
	require.True(t, ok, "unexpected message type %T", he.Message)
	require.Equal(t, code, resp.Code)
}
