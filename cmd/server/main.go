package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"autobid/docs" // swagger docs

	"github.com/labstack/echo/v4"

	"autobid/internal/auth"
	"autobid/internal/cache"
	"autobid/internal/config"
	"autobid/internal/db"
	"autobid/internal/handler"
	"autobid/internal/logger"
	"autobid/internal/repository"
	"autobid/internal/router"
	"autobid/internal/service"
	"autobid/internal/worldid"
)

// @title AutoBid API
// @version 1.0
// @description Vehicle auction marketplace: listings, bidding and World ID seller verification.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	dsn := cfg.MySQLDSN
	if cfg.DBDriver == db.DriverSQLite {
		dsn = cfg.SQLitePath
	}
	gormDB, err := db.Open(cfg.DBDriver, dsn)
	if err != nil {
		logger.Fatal("database init failed", map[string]any{"driver": cfg.DBDriver, "error": err.Error()})
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB set, dropping all tables", nil)
		if err := db.Reset(gormDB); err != nil {
			logger.Fatal("reset failed", map[string]any{"error": err.Error()})
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("migration failed", map[string]any{"error": err.Error()})
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(context.Background()); err != nil {
		logger.Warn("redis unreachable, running without cache", map[string]any{"addr": cfg.RedisAddr, "error": err.Error()})
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	profileRepo := repository.NewProfileRepository(gormDB)
	auctionRepo := repository.NewAuctionRepository(gormDB)
	vehicleRepo := repository.NewVehicleRepository(gormDB)
	verificationRepo := repository.NewVerificationRepository(gormDB)
	favoriteRepo := repository.NewFavoriteRepository(gormDB)
	carRepo := repository.NewCarRepository(gormDB)
	catalogRepo, err := repository.NewCatalogRepository(gormDB)
	if err != nil {
		logger.Fatal("catalog init failed", map[string]any{"error": err.Error()})
	}

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	if cfg.WorldIDAppID == "" {
		logger.Warn("WORLDID_APP_ID not set, identity verification will fail", nil)
	}
	verifier := worldid.NewClient(cfg.WorldIDAPIURL, cfg.WorldIDAppID, nil)

	// Initialize services
	authService := service.NewAuthService(userRepo, profileRepo, jwtService, tokenStore)
	auctionService := service.NewAuctionService(auctionRepo, profileRepo, catalogRepo, cacheClient, cfg.AuctionCacheTTL)
	listingService := service.NewListingService(auctionRepo, vehicleRepo, profileRepo)
	verificationService := service.NewVerificationService(verifier, verificationRepo, profileRepo, cfg.WorldIDAction)
	profileService := service.NewProfileService(profileRepo, auctionRepo)
	favoriteService := service.NewFavoriteService(favoriteRepo, auctionRepo)
	carService := service.NewCarService(carRepo)

	e := echo.New()
	e.HideBanner = true

	router.Register(e, cfg, router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Auction:      handler.NewAuctionHandler(auctionService),
		Listing:      handler.NewListingHandler(listingService, jwtService),
		Verification: handler.NewVerificationHandler(verificationService, jwtService, cfg.CookieSecure),
		Profile:      handler.NewProfileHandler(profileService),
		Favorite:     handler.NewFavoriteHandler(favoriteService),
		Car:          handler.NewCarHandler(carService),
	})

	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
		docs.SwaggerInfo.Host = host
		swaggerURL = "http://" + host + "/swagger/index.html"
		if strings.HasPrefix(cfg.SwaggerHost, "https://") {
			docs.SwaggerInfo.Schemes = []string{"https"}
			swaggerURL = "https://" + host + "/swagger/index.html"
		}
	}
	logger.Info("swagger documentation available", map[string]any{"url": swaggerURL})

	go func() {
		addr := ":" + cfg.ServerPort
		logger.Info("server starting", map[string]any{"addr": addr, "db_driver": cfg.DBDriver})
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server start failed", map[string]any{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", map[string]any{"error": err.Error()})
	}
	logger.Info("server stopped", nil)
}
