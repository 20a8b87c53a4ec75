package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"autobid/internal/auction"
	apperrors "autobid/internal/errors"
	"autobid/internal/model"
	"autobid/internal/repository"
)

// CarDraft is a new inventory entry.
type CarDraft struct {
	Make        string
	Model       string
	Year        int
	StartPrice  decimal.Decimal
	OwnerWallet string
	ImageURL    string
}

// CarService handles the flat car inventory.
type CarService interface {
	Create(ctx context.Context, draft CarDraft) (*model.Car, error)
	List(ctx context.Context) ([]model.Car, error)
}

type carService struct {
	cars repository.CarRepository
	now  func() time.Time
}

// NewCarService creates a new car service.
func NewCarService(cars repository.CarRepository) CarService {
	return &carService{cars: cars, now: time.Now}
}

func (s *carService) Create(ctx context.Context, draft CarDraft) (*model.Car, error) {
	verr := apperrors.NewValidationError()
	if strings.TrimSpace(draft.Make) == "" {
		verr.Add("make", "is required")
	}
	if strings.TrimSpace(draft.Model) == "" {
		verr.Add("model", "is required")
	}
	maxYear := s.now().Year() + 1
	if draft.Year < auction.MinYear || draft.Year > maxYear {
		verr.Add("year", fmt.Sprintf("must be between %d and %d", auction.MinYear, maxYear))
	}
	if !draft.StartPrice.IsPositive() {
		verr.Add("start_price", "must be greater than 0")
	}
	if strings.TrimSpace(draft.OwnerWallet) == "" {
		verr.Add("owner_wallet", "is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	car := &model.Car{
		Make:        strings.TrimSpace(draft.Make),
		Model:       strings.TrimSpace(draft.Model),
		Year:        draft.Year,
		StartPrice:  draft.StartPrice,
		OwnerWallet: strings.TrimSpace(draft.OwnerWallet),
		ImageURL:    strings.TrimSpace(draft.ImageURL),
	}
	if err := s.cars.Create(ctx, car); err != nil {
		return nil, fmt.Errorf("create car: %w", err)
	}
	return car, nil
}

func (s *carService) List(ctx context.Context) ([]model.Car, error) {
	return s.cars.List(ctx)
}
