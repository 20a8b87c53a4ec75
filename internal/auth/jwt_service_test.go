package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("secret")
	userID := uuid.New()

	token, err := svc.GenerateAccessToken(userID, "a@example.com", "admin")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Empty(t, claims.ID)
}

func TestJWTService_RefreshTokenCarriesID(t *testing.T) {
	svc := NewJWTService("secret")

	tokenID, token, err := svc.GenerateRefreshToken(uuid.New(), "a@example.com", "user")
	require.NoError(t, err)

	got, err := svc.ExtractTokenID(token)
	require.NoError(t, err)
	assert.Equal(t, tokenID, got)
}

func TestJWTService_RejectsForeignAndExpiredTokens(t *testing.T) {
	svc := NewJWTService("secret")
	other := NewJWTService("other-secret")

	token, err := other.GenerateAccessToken(uuid.New(), "a@example.com", "user")
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)

	token, err = svc.GenerateAccessToken(uuid.New(), "a@example.com", "user")
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Now().Add(AccessTokenExpiry + time.Minute) }
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	assert.Error(t, err)
}

func TestJWTService_VerificationMarker(t *testing.T) {
	svc := NewJWTService("secret")
	userID := uuid.New()

	marker, err := svc.GenerateVerificationMarker(userID)
	require.NoError(t, err)

	assert.True(t, svc.ValidVerificationMarker(marker, userID))
	assert.False(t, svc.ValidVerificationMarker(marker, uuid.New()))
	assert.False(t, svc.ValidVerificationMarker("", userID))
	assert.False(t, svc.ValidVerificationMarker("true", userID))

	// An access token is not a verification marker.
	access, err := svc.GenerateAccessToken(userID, "a@example.com", "user")
	require.NoError(t, err)
	assert.False(t, svc.ValidVerificationMarker(access, userID))

	svc.now = func() time.Time { return time.Now().Add(VerificationMarkerExpiry + time.Hour) }
	assert.False(t, svc.ValidVerificationMarker(marker, userID))
}

func TestJWTService_TokenKindsDoNotMix(t *testing.T) {
	svc := NewJWTService("secret")
	userID := uuid.New()

	access, err := svc.GenerateAccessToken(userID, "a@example.com", "user")
	require.NoError(t, err)
	_, refresh, err := svc.GenerateRefreshToken(userID, "a@example.com", "user")
	require.NoError(t, err)
	marker, err := svc.GenerateVerificationMarker(userID)
	require.NoError(t, err)

	token, err := svc.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, userID, token.Claims.(*Claims).UserID)

	_, err = svc.ParseAccessToken(refresh)
	assert.Error(t, err)
	_, err = svc.ParseAccessToken(marker)
	assert.Error(t, err)

	_, err = svc.ValidateRefreshToken(access)
	assert.Error(t, err)
	_, err = svc.ValidateRefreshToken(marker)
	assert.Error(t, err)
	_, err = svc.ExtractTokenID(access)
	assert.Error(t, err)
}

func TestJWTService_RejectsTokenWithoutUser(t *testing.T) {
	svc := NewJWTService("secret")

	token, err := svc.GenerateAccessToken(uuid.Nil, "", "user")
	require.NoError(t, err)
	_, err = svc.ParseAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
