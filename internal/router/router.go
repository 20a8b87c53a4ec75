package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"autobid/internal/auth"
	"autobid/internal/config"
	"autobid/internal/handler"
	"autobid/internal/logger"
)

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Auction      *handler.AuctionHandler
	Listing      *handler.ListingHandler
	Verification *handler.VerificationHandler
	Profile      *handler.ProfileHandler
	Favorite     *handler.FavoriteHandler
	Car          *handler.CarHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, h Handlers) {
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger())
	e.Use(middleware.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.POST("/auth/logout", h.Auth.Logout)

	api.GET("/auctions", h.Auction.ListAuctions)
	api.GET("/auctions/:id", h.Auction.GetAuction)
	api.GET("/auctions/:id/minimum-bid", h.Auction.MinimumBid)
	api.GET("/vehicles", h.Listing.ListVehicles)
	api.GET("/vehicles/:id", h.Listing.GetVehicle)
	api.GET("/profiles/:id", h.Profile.GetProfile)
	api.GET("/cars", h.Car.ListCars)

	// Secured routes (require JWT authentication)
	tokens := auth.NewJWTService(cfg.JWTSecret)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  auth.ContextKey,
		ParseTokenFunc: func(_ echo.Context, token string) (interface{}, error) {
			return tokens.ParseAccessToken(token)
		},
	}))

	// Bidding and auction administration
	secured.POST("/auctions/:id/bids", h.Auction.PlaceBid)
	secured.POST("/auctions/:id/close", h.Auction.CloseAuction)
	secured.POST("/auctions/:id/cancel", h.Auction.CancelAuction)
	secured.POST("/auctions/:id/favorite", h.Favorite.AddFavorite)
	secured.DELETE("/auctions/:id/favorite", h.Favorite.RemoveFavorite)

	// Listings
	secured.POST("/listings", h.Listing.CreateListing)
	secured.PUT("/vehicles/:id", h.Listing.UpdateVehicle)
	secured.POST("/cars", h.Car.CreateCar)

	// Identity verification
	secured.POST("/verify-identity", h.Verification.VerifyIdentity)
	secured.GET("/verify-identity/status", h.Verification.VerificationStatus)

	// Current user
	secured.GET("/me/profile", h.Profile.GetMyProfile)
	secured.PUT("/me/profile", h.Profile.UpdateMyProfile)
	secured.GET("/me/bids", h.Profile.MyBids)
	secured.GET("/me/won", h.Profile.MyWonAuctions)
	secured.GET("/me/favorites", h.Favorite.ListFavorites)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the request validator used by the API.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
