package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"autobid/internal/service"
)

// ProfileHandler handles profile and personal activity endpoints.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest holds the profile fields to change. Omitted fields are
// kept; empty strings clear them.
type UpdateProfileRequest struct {
	Username    *string `json:"username" validate:"omitempty,max=100"`
	FullName    *string `json:"full_name" validate:"omitempty,max=255"`
	AvatarURL   *string `json:"avatar_url" validate:"omitempty,max=512"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,max=32"`
	Address     *string `json:"address" validate:"omitempty,max=512"`
}

// GetMyProfile godoc
// @Summary Get the caller's profile
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/profile [get]
func (h *ProfileHandler) GetMyProfile(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}
	profile, err := h.profileService.GetMine(c.Request().Context(), claims.UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateMyProfile godoc
// @Summary Update the caller's profile
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/profile [put]
func (h *ProfileHandler) UpdateMyProfile(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}

	var req UpdateProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	profile, err := h.profileService.UpdateMine(c.Request().Context(), claims.UserID, service.ProfilePatch{
		Username:    req.Username,
		FullName:    req.FullName,
		AvatarURL:   req.AvatarURL,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
	})
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// GetProfile godoc
// @Summary Get a public profile
// @Description Contact details are omitted.
// @Tags profiles
// @Produce json
// @Param id path string true "Profile ID"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /profiles/{id} [get]
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	profile, err := h.profileService.GetPublic(c.Request().Context(), id)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// MyBids godoc
// @Summary List the caller's bids on open auctions
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Bid
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/bids [get]
func (h *ProfileHandler) MyBids(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}
	bids, err := h.profileService.ActiveBids(c.Request().Context(), claims.UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, bids)
}

// MyWonAuctions godoc
// @Summary List auctions the caller won
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Auction
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/won [get]
func (h *ProfileHandler) MyWonAuctions(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}
	won, err := h.profileService.WonAuctions(c.Request().Context(), claims.UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, won)
}
