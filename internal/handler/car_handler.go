package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"autobid/internal/service"
)

// CarHandler handles the flat car inventory.
type CarHandler struct {
	carService service.CarService
}

// NewCarHandler creates a new car handler.
func NewCarHandler(carService service.CarService) *CarHandler {
	return &CarHandler{carService: carService}
}

// CreateCarRequest is a new inventory entry.
type CreateCarRequest struct {
	Make        string `json:"make" validate:"required"`
	Model       string `json:"model" validate:"required"`
	Year        int    `json:"year" validate:"required"`
	StartPrice  string `json:"start_price" validate:"required" example:"18000.00"`
	OwnerWallet string `json:"owner_wallet" validate:"required"`
	ImageURL    string `json:"image_url" validate:"omitempty,url"`
}

// ListCars godoc
// @Summary List inventory cars
// @Tags cars
// @Produce json
// @Success 200 {array} model.Car
// @Failure 500 {object} errors.ErrorResponse
// @Router /cars [get]
func (h *CarHandler) ListCars(c echo.Context) error {
	cars, err := h.carService.List(c.Request().Context())
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, cars)
}

// CreateCar godoc
// @Summary Add a car to the inventory
// @Tags cars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateCarRequest true "Car"
// @Success 201 {object} model.Car
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /cars [post]
func (h *CarHandler) CreateCar(c echo.Context) error {
	var req CreateCarRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	price, err := decimal.NewFromString(req.StartPrice)
	if err != nil {
		return badRequest("invalid start_price", "INVALID_AMOUNT")
	}

	car, err := h.carService.Create(c.Request().Context(), service.CarDraft{
		Make:        req.Make,
		Model:       req.Model,
		Year:        req.Year,
		StartPrice:  price,
		OwnerWallet: req.OwnerWallet,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, car)
}
