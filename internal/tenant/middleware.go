package tenant

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cobranzahq/cobranza/internal/auth"
	"github.com/cobranzahq/cobranza/internal/httperr"
)

// Tenant selection transports.
const (
	HeaderWorkspaceID = "x-workspace-id"
	CookieName        = "workspace_id"
)

const contextKey = "tenant"

// Middleware resolves the tenant context for every request on the group it
// is mounted on. It requires the session middleware to have run first; the
// resolved context is the sole source of tenant truth downstream.
func Middleware(resolver *Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := auth.IdentityFromContext(c)
			if err != nil {
				return err
			}

			cookieID := ""
			if cookie, err := c.Cookie(CookieName); err == nil {
				cookieID = cookie.Value
			}

			tctx, err := resolver.Resolve(
				c.Request().Context(),
				identity,
				c.Request().Header.Get(HeaderWorkspaceID),
				cookieID,
			)
			if err != nil {
				return err
			}

			c.Set(contextKey, tctx)
			return next(c)
		}
	}
}

// FromContext returns the tenant context published by Middleware.
func FromContext(c echo.Context) (Context, error) {
	tctx, ok := c.Get(contextKey).(Context)
	if !ok || tctx.WorkspaceID == "" {
		return Context{}, httperr.Forbidden("workspace not resolved")
	}
	return tctx, nil
}

// SetWorkspaceCookie persists the chosen workspace for subsequent requests.
// Callers must have validated membership first (Resolver.Switch).
func SetWorkspaceCookie(c echo.Context, workspaceID string) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    workspaceID,
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
