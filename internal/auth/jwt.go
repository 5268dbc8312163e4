package auth

import (
	"errors"

	pkgerrors "veloj/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates bearer tokens and resolves identities.
type TokenVerifier struct {
	secret []byte
	issuer string
}

// NewTokenVerifier creates a verifier for HS256 tokens signed with secret.
func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}
}

type tokenClaims struct {
	User    string   `json:"user"`
	Admin   bool     `json:"admin"`
	Entries []string `json:"entries"`
	jwt.RegisteredClaims
}

// Verify parses and validates a raw token, returning the caller identity.
func (v *TokenVerifier) Verify(raw string) (Identity, error) {
	if raw == "" {
		return Identity{}, pkgerrors.New(pkgerrors.TokenInvalid).WithMessage("missing bearer token")
	}
	if len(v.secret) == 0 {
		return Identity{}, pkgerrors.New(pkgerrors.ServiceUnavailable).WithMessage("token secret is not configured")
	}

	parsed, err := jwt.ParseWithClaims(raw, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, pkgerrors.New(pkgerrors.TokenExpired)
		}
		return Identity{}, pkgerrors.Wrap(err, pkgerrors.TokenInvalid)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Identity{}, pkgerrors.New(pkgerrors.TokenInvalid)
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return Identity{}, pkgerrors.New(pkgerrors.TokenInvalid).WithMessage("unexpected token issuer")
	}
	if claims.User == "" {
		return Identity{}, pkgerrors.New(pkgerrors.TokenInvalid).WithMessage("token has no user")
	}

	return Identity{
		User:    claims.User,
		Admin:   claims.Admin,
		Entries: claims.Entries,
	}, nil
}
