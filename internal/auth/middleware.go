package auth

import (
	"errors"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// CookieName is the HTTP-only cookie carrying the access token. A present
// cookie is the request's credential; the Authorization header is consulted
// only when no cookie is set.
const CookieName = "access_token"

const (
	identityKey = "identity"
	attemptKey  = "identity_attempt"
)

// SessionMiddleware returns the session-resolution middleware: it extracts
// exactly one credential (the cookie when present, else the bearer header),
// verifies it, and publishes the Identity for the rest of the request.
// Requests matched by skipper pass through unauthenticated. Any failure is a
// uniform 401; a rejected credential is never retried against another source.
func SessionMiddleware(verifier Verifier, skipper middleware.Skipper) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		Skipper:          skipper,
		ContextKey:       identityKey,
		TokenLookupFuncs: []middleware.ValuesExtractor{extractCredential},
		ParseTokenFunc: func(c echo.Context, token string) (any, error) {
			// One verification per request: the extractor chain would
			// otherwise hand the bearer header over after a rejected cookie.
			if c.Get(attemptKey) != nil {
				return nil, ErrInvalidToken
			}
			c.Set(attemptKey, struct{}{})
			return verifier.Verify(token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
		},
	})
}

// extractCredential selects the request's single credential: the access_token
// cookie when present, else the Authorization bearer token.
func extractCredential(c echo.Context) ([]string, error) {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return []string{cookie.Value}, nil
	}
	const prefix = "Bearer "
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return []string{header[len(prefix):]}, nil
	}
	return nil, errNoCredential
}

var errNoCredential = errors.New("no credential in request")

// IdentityFromContext returns the Identity published by SessionMiddleware.
// A handler reached without one is a routing bug; the caller still gets a
// plain 401 rather than an internal error dump.
func IdentityFromContext(c echo.Context) (Identity, error) {
	identity, ok := c.Get(identityKey).(Identity)
	if !ok || identity.SubjectID == "" {
		return Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return identity, nil
}
