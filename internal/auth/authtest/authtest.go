// Package authtest mints access tokens for handler and router tests. In
// production tokens come from the identity provider.
package authtest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/pankajbaid567/Fittlr-Backend/internal/auth"
)

// Token signs an hour-long access token for id.
func Token(t testing.TB, id auth.Identity, secret string) string {
	t.Helper()

	now := time.Now()
	claims := &auth.JWTClaims{
		UserID:    id.UserID,
		Email:     id.Email,
		Name:      id.Name,
		Role:      id.Role,
		TokenType: auth.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			Issuer:    auth.Issuer,
			Audience:  []string{auth.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// Bearer returns the Authorization header value for id.
func Bearer(t testing.TB, id auth.Identity, secret string) string {
	return "Bearer " + Token(t, id, secret)
}
