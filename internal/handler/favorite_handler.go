package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"autobid/internal/service"
)

// FavoriteHandler handles the watch list.
type FavoriteHandler struct {
	favoriteService service.FavoriteService
}

// NewFavoriteHandler creates a new favorite handler.
func NewFavoriteHandler(favoriteService service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteService: favoriteService}
}

// ListFavorites godoc
// @Summary List watched auctions
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Favorite
// @Failure 401 {object} errors.ErrorResponse
// @Router /me/favorites [get]
func (h *FavoriteHandler) ListFavorites(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}
	favorites, err := h.favoriteService.List(c.Request().Context(), claims.UserID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, favorites)
}

// AddFavorite godoc
// @Summary Watch an auction
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path string true "Auction ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /auctions/{id}/favorite [post]
func (h *FavoriteHandler) AddFavorite(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.favoriteService.Add(c.Request().Context(), claims.UserID, id); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "added to favorites"})
}

// RemoveFavorite godoc
// @Summary Stop watching an auction
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param id path string true "Auction ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /auctions/{id}/favorite [delete]
func (h *FavoriteHandler) RemoveFavorite(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := uuidParam(c, "id")
	if err != nil {
		return err
	}
	if err := h.favoriteService.Remove(c.Request().Context(), claims.UserID, id); err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "removed from favorites"})
}
