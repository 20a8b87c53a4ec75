package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"autobid/internal/auth"
	"autobid/internal/service"
	"autobid/internal/worldid"
)

// VerificationCookie holds a signed marker that the session passed World ID.
const VerificationCookie = "worldid_verified"

// VerificationMarkers issues and checks the verification cookie value.
type VerificationMarkers interface {
	GenerateVerificationMarker(userID uuid.UUID) (string, error)
	ValidVerificationMarker(marker string, userID uuid.UUID) bool
}

// VerificationHandler handles World ID identity verification.
type VerificationHandler struct {
	verificationService service.VerificationService
	markers             VerificationMarkers
	secureCookie        bool
}

// NewVerificationHandler creates a new verification handler. secureCookie
// sets the Secure attribute on the verification cookie.
func NewVerificationHandler(verificationService service.VerificationService, markers VerificationMarkers, secureCookie bool) *VerificationHandler {
	return &VerificationHandler{
		verificationService: verificationService,
		markers:             markers,
		secureCookie:        secureCookie,
	}
}

// VerifyIdentityRequest is the proof bundle produced by the World ID widget.
type VerifyIdentityRequest struct {
	MerkleRoot        string `json:"merkle_root" validate:"required"`
	NullifierHash     string `json:"nullifier_hash" validate:"required"`
	Proof             string `json:"proof" validate:"required"`
	VerificationLevel string `json:"verification_level" validate:"required" example:"orb"`
	Action            string `json:"action" validate:"required" example:"verify-identity"`
}

// VerifyIdentityResponse acknowledges a successful verification.
type VerifyIdentityResponse struct {
	Success bool `json:"success"`
}

// VerificationStatusResponse reports whether the caller is verified.
type VerificationStatusResponse struct {
	Verified        bool `json:"verified"`
	SessionVerified bool `json:"session_verified"`
}

// VerifyIdentity godoc
// @Summary Verify identity with World ID
// @Description Checks the proof with World ID, binds it to the caller and sets the worldid_verified cookie.
// @Tags verification
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VerifyIdentityRequest true "World ID proof"
// @Success 200 {object} VerifyIdentityResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /verify-identity [post]
func (h *VerificationHandler) VerifyIdentity(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}

	var req VerifyIdentityRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	proof := worldid.Proof{
		MerkleRoot:        req.MerkleRoot,
		NullifierHash:     req.NullifierHash,
		Proof:             req.Proof,
		VerificationLevel: req.VerificationLevel,
		Action:            req.Action,
	}
	if err := h.verificationService.Verify(c.Request().Context(), claims.UserID, proof); err != nil {
		return fail(err)
	}

	marker, err := h.markers.GenerateVerificationMarker(claims.UserID)
	if err != nil {
		// The profile flag is already persisted.
		log.WithFields(log.Fields{"user_id": claims.UserID, "error": err.Error()}).Warn("issue verification marker failed")
	} else {
		c.SetCookie(&http.Cookie{
			Name:     VerificationCookie,
			Value:    marker,
			Path:     "/",
			MaxAge:   int(auth.VerificationMarkerExpiry.Seconds()),
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
	}

	return c.JSON(http.StatusOK, VerifyIdentityResponse{Success: true})
}

// VerificationStatus godoc
// @Summary Get identity verification status
// @Tags verification
// @Produce json
// @Security BearerAuth
// @Success 200 {object} VerificationStatusResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /verify-identity/status [get]
func (h *VerificationHandler) VerificationStatus(c echo.Context) error {
	claims, err := currentUser(c)
	if err != nil {
		return err
	}

	verified, err := h.verificationService.Status(c.Request().Context(), claims.UserID)
	if err != nil {
		return fail(err)
	}

	sessionVerified := false
	if cookie, err := c.Cookie(VerificationCookie); err == nil {
		sessionVerified = h.markers.ValidVerificationMarker(cookie.Value, claims.UserID)
	}

	return c.JSON(http.StatusOK, VerificationStatusResponse{
		Verified:        verified || sessionVerified,
		SessionVerified: sessionVerified,
	})
}
