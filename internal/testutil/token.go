// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenOptions shape the claims of a minted test token.
type TokenOptions struct {
	Subject  string
	Issuer   string
	Audience string
	Name     string
	Email    string
	// ExpiresIn defaults to one hour.
	ExpiresIn time.Duration
	// Mutate runs last, to corrupt or extend the claim set.
	Mutate func(jwt.MapClaims)
}

// MintToken signs an HMAC bearer token the way the external auth
// provider would. Tests pair it with the same secret in config.
func MintToken(t *testing.T, secret string, opts TokenOptions) string {
	t.Helper()

	expiresIn := opts.ExpiresIn
	if expiresIn == 0 {
		expiresIn = time.Hour
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": opts.Subject,
		"iss": opts.Issuer,
		"jti": uuid.NewString(),
		"iat": now.Unix(),
		"exp": now.Add(expiresIn).Unix(),
	}
	if opts.Audience != "" {
		claims["aud"] = opts.Audience
	}
	if opts.Name != "" {
		claims["name"] = opts.Name
	}
	if opts.Email != "" {
		claims["email"] = opts.Email
	}
	if opts.Mutate != nil {
		opts.Mutate(claims)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign test token: %v", err)
	}
	return signed
}
