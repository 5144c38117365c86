package auth

import (
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// JWTVerifier verifies HS256 access tokens locally using the identity
// provider's signing secret (Supabase signs project access tokens with the
// project JWT secret). The subject claim carries the provider user id.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for the given signing secret.
func NewJWTVerifier(secret string) (*JWTVerifier, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("jwt secret is required")
	}
	return &JWTVerifier{secret: []byte(secret)}, nil
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verify parses and validates the token and extracts subject and email.
// Every failure maps to ErrInvalidToken.
func (v *JWTVerifier) Verify(token string) (Identity, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, ErrInvalidToken
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{
		SubjectID: subject,
		Email:     strings.TrimSpace(claims.Email),
	}, nil
}
