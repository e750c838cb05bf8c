// Package auth resolves the remote identity that scopes mirrored workout rows.
// Tokens are issued by the hosted auth provider; this package only verifies them.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"alcyxob/gym-tracker/internal/domain"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrAuthDisabled  = errors.New("no token secret configured")
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token has expired")
	ErrMissingClaims = errors.New("token is missing the subject claim")
	ErrBadHeader     = errors.New("authorization header format must be Bearer {token}")
)

// claims is the subset of the provider's JWT payload we rely on.
type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Verifier turns a bearer token into an Identity.
type Verifier interface {
	Verify(token string) (domain.Identity, error)
}

type hmacVerifier struct {
	secret []byte
}

// NewVerifier creates an HS256 verifier. With an empty secret every token is rejected.
func NewVerifier(secret string) Verifier {
	return &hmacVerifier{secret: []byte(secret)}
}

func (v *hmacVerifier) Verify(tokenString string) (domain.Identity, error) {
	if len(v.secret) == 0 {
		return domain.Identity{}, ErrAuthDisabled
	}

	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Identity{}, ErrTokenExpired
		}
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return domain.Identity{}, ErrInvalidToken
	}
	if c.Subject == "" {
		return domain.Identity{}, ErrMissingClaims
	}
	return domain.Identity{UserID: c.Subject, Email: c.Email}, nil
}

// BearerToken extracts the token from an Authorization header value.
// An empty header yields an empty token and no error.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", nil
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrBadHeader
	}
	return parts[1], nil
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity stored in ctx, or the zero
// (unauthenticated) identity.
func IdentityFromContext(ctx context.Context) domain.Identity {
	id, _ := ctx.Value(identityKey{}).(domain.Identity)
	return id
}
