package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Error classes. Every domain error wraps exactly one of these so callers can
// branch on the class with errors.Is.
var (
	// ErrValidation is returned when caller input is malformed.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConstraintViolation is returned when a business rule rejects the operation.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrUpstreamUnavailable is returned when a collaborator cannot be reached.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrForbidden is returned when the caller may not act on the resource.
	ErrForbidden = errors.New("forbidden")
)

var (
	// ErrAuctionNotFound is returned when an auction is not found.
	ErrAuctionNotFound = fmt.Errorf("auction %w", ErrNotFound)
	// ErrVehicleNotFound is returned when a vehicle is not found.
	ErrVehicleNotFound = fmt.Errorf("vehicle %w", ErrNotFound)
	// ErrProfileNotFound is returned when a profile is not found.
	ErrProfileNotFound = fmt.Errorf("profile %w", ErrNotFound)

	// ErrInvalidAmount is returned when a bid amount is not a positive number.
	ErrInvalidAmount = fmt.Errorf("%w: amount must be positive", ErrValidation)
	// ErrAmountPrecision is returned when an amount has fractions of a cent.
	ErrAmountPrecision = fmt.Errorf("%w: amount must have at most two decimal places", ErrValidation)
	// ErrActionMismatch is returned when a proof was generated for another action.
	ErrActionMismatch = fmt.Errorf("%w: verification action mismatch", ErrValidation)

	// ErrAuctionNotActive is returned when bidding on an auction that is not active.
	ErrAuctionNotActive = fmt.Errorf("%w: auction is not active", ErrConstraintViolation)
	// ErrBidTooLow is returned when a bid is below the current minimum.
	ErrBidTooLow = fmt.Errorf("%w: bid amount too low", ErrConstraintViolation)
	// ErrInvalidTransition is returned when an auction cannot move to the requested status.
	ErrInvalidTransition = fmt.Errorf("%w: invalid auction status transition", ErrConstraintViolation)
	// ErrAuctionHasBids is returned when a seller withdraws an auction that already has bids.
	ErrAuctionHasBids = fmt.Errorf("%w: auction already has bids", ErrConstraintViolation)
	// ErrVehicleLocked is returned when editing a vehicle whose auction has bids.
	ErrVehicleLocked = fmt.Errorf("%w: vehicle cannot change once bidding started", ErrConstraintViolation)
	// ErrNullifierInUse is returned when a verified identity is already bound to another user.
	ErrNullifierInUse = fmt.Errorf("%w: identity already verified by another user", ErrConstraintViolation)
	// ErrProofRejected is returned when the verification provider rejects a proof.
	ErrProofRejected = fmt.Errorf("%w: identity proof rejected", ErrConstraintViolation)
	// ErrVerificationRequired is returned when an unverified user tries to list a vehicle.
	ErrVerificationRequired = fmt.Errorf("%w: identity verification required", ErrForbidden)
)

// ValidationError carries field-level messages for a rejected submission.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for field. The first message per field wins.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// OrNil returns nil when no field failed.
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap ties ValidationError to ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// BidTooLowError reports the minimum acceptable bid.
type BidTooLowError struct {
	Floor decimal.Decimal
}

func (e *BidTooLowError) Error() string {
	return fmt.Sprintf("bid must be at least %s", e.Floor.StringFixed(2))
}

// Unwrap ties BidTooLowError to ErrBidTooLow.
func (e *BidTooLowError) Unwrap() error {
	return ErrBidTooLow
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Details    map[string]string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error:   e.Message,
		Code:    e.Code,
		Details: e.Details,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var validationErr *ValidationError
	var bidTooLow *BidTooLowError

	switch {
	case errors.As(err, &validationErr):
		httpErr := NewHTTPError(http.StatusBadRequest, "validation failed", "VALIDATION_ERROR")
		httpErr.Details = validationErr.Fields
		return httpErr
	case errors.As(err, &bidTooLow):
		httpErr := NewHTTPError(http.StatusConflict, bidTooLow.Error(), "BID_TOO_LOW")
		httpErr.Details = map[string]string{"minimum_bid": bidTooLow.Floor.StringFixed(2)}
		return httpErr
	case errors.Is(err, ErrAuctionNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "AUCTION_NOT_FOUND")
	case errors.Is(err, ErrVehicleNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "VEHICLE_NOT_FOUND")
	case errors.Is(err, ErrProfileNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROFILE_NOT_FOUND")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, "record not found", "NOT_FOUND")
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrAmountPrecision):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
	case errors.Is(err, ErrActionMismatch):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ACTION_MISMATCH")
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrProofRejected):
		return NewHTTPError(http.StatusBadRequest, "identity verification failed", "PROOF_REJECTED")
	case errors.Is(err, ErrAuctionNotActive):
		return NewHTTPError(http.StatusConflict, err.Error(), "AUCTION_NOT_ACTIVE")
	case errors.Is(err, ErrInvalidTransition):
		return NewHTTPError(http.StatusConflict, err.Error(), "INVALID_TRANSITION")
	case errors.Is(err, ErrAuctionHasBids):
		return NewHTTPError(http.StatusConflict, err.Error(), "AUCTION_HAS_BIDS")
	case errors.Is(err, ErrVehicleLocked):
		return NewHTTPError(http.StatusConflict, err.Error(), "VEHICLE_LOCKED")
	case errors.Is(err, ErrNullifierInUse):
		return NewHTTPError(http.StatusConflict, err.Error(), "NULLIFIER_IN_USE")
	case errors.Is(err, ErrConstraintViolation):
		return NewHTTPError(http.StatusConflict, err.Error(), "CONSTRAINT_VIOLATION")
	case errors.Is(err, ErrVerificationRequired):
		return NewHTTPError(http.StatusForbidden, err.Error(), "VERIFICATION_REQUIRED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUpstreamUnavailable):
		return NewHTTPError(http.StatusBadGateway, "upstream service unavailable, please retry", "UPSTREAM_UNAVAILABLE")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
