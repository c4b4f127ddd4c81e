// SPDX-License-Identifier: Apache-2.0

package client

import (
	"testing"
	"time"

	"github.com/docvault/docvault/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, subject string, expiresAt time.Time) string {
	t.Helper()

	claims := jwt.RegisteredClaims{Subject: subject}
	if !expiresAt.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(expiresAt)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func TestTokenAuthProvider_ValidToken(t *testing.T) {
	auth := NewTokenAuthProvider()
	signed := signedToken(t, "user-1", time.Now().Add(time.Hour))

	require.NoError(t, auth.SetToken(signed))

	assert.True(t, auth.IsAuthenticated())

	userID, ok := auth.UserID()
	require.True(t, ok)
	assert.Equal(t, "user-1", userID)

	token, err := auth.AuthToken()
	require.NoError(t, err)
	assert.Equal(t, signed, token.SignedString)
}

func TestTokenAuthProvider_NoToken(t *testing.T) {
	auth := NewTokenAuthProvider()

	assert.False(t, auth.IsAuthenticated())

	_, ok := auth.UserID()
	assert.False(t, ok)

	_, err := auth.AuthToken()
	assert.ErrorIs(t, err, service.ErrNoAuthToken)
}

func TestTokenAuthProvider_ExpiredToken(t *testing.T) {
	auth := NewTokenAuthProvider()
	require.NoError(t, auth.SetToken(signedToken(t, "user-1", time.Now().Add(-time.Minute))))

	assert.False(t, auth.IsAuthenticated())

	_, err := auth.AuthToken()
	assert.ErrorIs(t, err, service.ErrNoAuthToken)
}

func TestTokenAuthProvider_TokenWithoutExpiryNeverExpires(t *testing.T) {
	auth := NewTokenAuthProvider()
	require.NoError(t, auth.SetToken(signedToken(t, "user-1", time.Time{})))

	assert.True(t, auth.IsAuthenticated())
}

func TestTokenAuthProvider_MalformedToken(t *testing.T) {
	auth := NewTokenAuthProvider()

	assert.Error(t, auth.SetToken("not.a.jwt"))
	assert.False(t, auth.IsAuthenticated())
}

func TestTokenAuthProvider_ClearToken(t *testing.T) {
	auth := NewTokenAuthProvider()
	require.NoError(t, auth.SetToken(signedToken(t, "user-1", time.Now().Add(time.Hour))))
	require.True(t, auth.IsAuthenticated())

	require.NoError(t, auth.SetToken(""))
	assert.False(t, auth.IsAuthenticated())
}

func TestSubscriptionGate(t *testing.T) {
	gate := NewSubscriptionGate(true)
	assert.True(t, gate.IsSyncAllowed())

	gate.SetAllowed(false)
	assert.False(t, gate.IsSyncAllowed())

	gate.SetAllowed(true)
	assert.True(t, gate.IsSyncAllowed())
}
