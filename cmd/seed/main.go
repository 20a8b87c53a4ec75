package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"autobid/internal/auction"
	"autobid/internal/auth"
	"autobid/internal/config"
	"autobid/internal/db"
	"autobid/internal/repository"
	"autobid/internal/service"
)

//go:embed seed.json
var defaultSeed []byte

// SeedData is the demo data set: users and the vehicles they list.
type SeedData struct {
	Users []SeedUser `json:"users"`
}

// SeedUser is a demo account. Verified users are marked World ID verified.
type SeedUser struct {
	Email    string        `json:"email"`
	Password string        `json:"password"`
	FullName string        `json:"full_name"`
	Verified bool          `json:"verified"`
	Listings []SeedListing `json:"listings"`
}

// SeedListing is a vehicle plus its auction terms.
type SeedListing struct {
	Make            string   `json:"make"`
	Model           string   `json:"model"`
	Year            int      `json:"year"`
	Mileage         int      `json:"mileage"`
	Engine          string   `json:"engine"`
	Transmission    string   `json:"transmission"`
	ExteriorColor   string   `json:"exterior_color"`
	InteriorColor   string   `json:"interior_color"`
	Description     string   `json:"description"`
	Condition       string   `json:"condition"`
	Images          []string `json:"images"`
	StartPrice      string   `json:"start_price"`
	ReservePrice    string   `json:"reserve_price"`
	MinBidIncrement string   `json:"min_bid_increment"`
	DurationDays    int      `json:"duration_days"`
}

func main() {
	source := flag.String("url", "", "fetch seed JSON from this URL instead of the built-in data set")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()

	dsn := cfg.MySQLDSN
	if cfg.DBDriver == db.DriverSQLite {
		dsn = cfg.SQLitePath
	}
	gormDB, err := db.Open(cfg.DBDriver, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	raw := defaultSeed
	if *source != "" {
		log.Printf("Fetching seed data from: %s", *source)
		if raw, err = fetchSeed(*source); err != nil {
			log.Fatalf("Failed to fetch seed data: %v", err)
		}
	}
	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Fatalf("Failed to parse seed data: %v", err)
	}

	profiles := repository.NewProfileRepository(gormDB)
	auctions := repository.NewAuctionRepository(gormDB)
	authService := service.NewAuthService(
		repository.NewUserRepository(gormDB),
		profiles,
		auth.NewJWTService(cfg.JWTSecret),
		auth.NewTokenStore(nil),
	)
	listingService := service.NewListingService(auctions, repository.NewVehicleRepository(gormDB), profiles)

	ctx := context.Background()
	users, listings, skipped := 0, 0, 0
	for _, u := range data.Users {
		user, err := authService.Register(ctx, u.Email, u.Password, u.FullName)
		if errors.Is(err, service.ErrUserAlreadyExists) {
			log.Printf("User %s already exists, skipping", u.Email)
			skipped++
			continue
		}
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", u.Email, err)
		}
		users++

		if u.Verified {
			if err := profiles.MarkWorldIDVerified(ctx, user.ID); err != nil {
				log.Fatalf("Failed to verify user %s: %v", u.Email, err)
			}
		}

		for _, l := range u.Listings {
			vehicle, terms, err := l.drafts()
			if err != nil {
				log.Printf("Skipping %s %s: %v", l.Make, l.Model, err)
				skipped++
				continue
			}
			created, err := listingService.CreateListing(ctx, user.ID, vehicle, terms, u.Verified)
			if err != nil {
				log.Printf("Skipping %s %s: %v", l.Make, l.Model, err)
				skipped++
				continue
			}
			log.Printf("Listed %d %s %s as auction %s", l.Year, l.Make, l.Model, created.Auction.ID)
			listings++
		}
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - Users created: %d", users)
	log.Printf("  - Listings created: %d", listings)
	log.Printf("  - Skipped: %d", skipped)
}

func (l SeedListing) drafts() (auction.VehicleDraft, auction.AuctionDraft, error) {
	vehicle := auction.VehicleDraft{
		Make:          l.Make,
		Model:         l.Model,
		Year:          l.Year,
		Mileage:       l.Mileage,
		Engine:        l.Engine,
		Transmission:  l.Transmission,
		ExteriorColor: l.ExteriorColor,
		InteriorColor: l.InteriorColor,
		Description:   l.Description,
		Condition:     l.Condition,
	}
	for _, url := range l.Images {
		vehicle.Images = append(vehicle.Images, auction.ImageDraft{URL: url})
	}

	terms := auction.AuctionDraft{DurationDays: l.DurationDays}
	price, err := decimal.NewFromString(l.StartPrice)
	if err != nil {
		return vehicle, terms, fmt.Errorf("invalid start_price %q", l.StartPrice)
	}
	terms.StartPrice = price
	if l.ReservePrice != "" {
		reserve, err := decimal.NewFromString(l.ReservePrice)
		if err != nil {
			return vehicle, terms, fmt.Errorf("invalid reserve_price %q", l.ReservePrice)
		}
		terms.ReservePrice = &reserve
	}
	if l.MinBidIncrement != "" {
		increment, err := decimal.NewFromString(l.MinBidIncrement)
		if err != nil {
			return vehicle, terms, fmt.Errorf("invalid min_bid_increment %q", l.MinBidIncrement)
		}
		terms.MinBidIncrement = &increment
	}
	return vehicle, terms, nil
}

// fetchSeed downloads a seed document.
func fetchSeed(url string) ([]byte, error) {
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}
