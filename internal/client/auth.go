// SPDX-License-Identifier: Apache-2.0

package client

import (
	"fmt"
	"sync"
	"time"

	"github.com/docvault/docvault/internal/service"
	"github.com/docvault/docvault/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenAuthProvider implements service.AuthProvider over a bearer token
// obtained out of band (login flow, keychain, environment). The token is
// parsed without signature verification: the client only needs the claims,
// verification is the server's job.
type TokenAuthProvider struct {
	mu    sync.RWMutex
	token *models.Token
}

func NewTokenAuthProvider() *TokenAuthProvider {
	return &TokenAuthProvider{}
}

// SetToken replaces the current session token. An empty string clears the
// session.
func (a *TokenAuthProvider) SetToken(signed string) error {
	if signed == "" {
		a.mu.Lock()
		a.token = nil
		a.mu.Unlock()
		return nil
	}

	claims := &jwt.RegisteredClaims{}
	parsed, _, err := jwt.NewParser().ParseUnverified(signed, claims)
	if err != nil {
		return fmt.Errorf("parse auth token: %w", err)
	}

	token := &models.Token{
		Token:            parsed,
		RegisteredClaims: *claims,
		SignedString:     signed,
	}
	if sub, subErr := token.GetUserID(); subErr == nil {
		token.UserID = sub
	}

	a.mu.Lock()
	a.token = token
	a.mu.Unlock()
	return nil
}

func (a *TokenAuthProvider) IsAuthenticated() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token != nil && !a.expired(a.token)
}

func (a *TokenAuthProvider) UserID() (string, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.token == nil || a.token.UserID == "" {
		return "", false
	}
	return a.token.UserID, true
}

func (a *TokenAuthProvider) AuthToken() (models.Token, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.token == nil || a.expired(a.token) {
		return models.Token{}, service.ErrNoAuthToken
	}
	return *a.token, nil
}

func (a *TokenAuthProvider) expired(token *models.Token) bool {
	if token.ExpiresAt == nil {
		return false
	}
	return token.ExpiresAt.Before(time.Now())
}
