package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ContextKey is where the JWT middleware stores the parsed token.
const ContextKey = "user"

// ErrNoSession is returned when a request carries no valid access token.
var ErrNoSession = errors.New("no authenticated session")

// ClaimsFromContext returns the claims the JWT middleware attached to c.
func ClaimsFromContext(c echo.Context) (*Claims, error) {
	token, ok := c.Get(ContextKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoSession
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == uuid.Nil {
		return nil, ErrNoSession
	}
	return claims, nil
}
