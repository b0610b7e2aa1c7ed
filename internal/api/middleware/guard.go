package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skilltrust/portal/internal/api/metrics"
)

// SessionCookie is the well-known name of the browser session cookie.
const SessionCookie = "skilltrust_session"

// publicPrefixes lists path trees reachable without a credential. "/" is
// matched exactly, everything else by prefix. Static assets, health probes
// and the metrics endpoint are always public.
var publicPrefixes = []string{
	"/login",
	"/register",
	"/verify",
	"/healthz",
	"/metrics",
	"/static",
}

// IsPublicPath reports whether path is reachable without a credential.
func IsPublicPath(path string) bool {
	if path == "/" {
		return true
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// HasCredential reports whether the request carries a session cookie or a
// bearer Authorization header. Presence only: the credential is never
// decoded or validated here; the marketplace API is the authority, and each
// protected page re-checks the restored session.
func HasCredential(c echo.Context) bool {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return true
	}
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:]) != ""
	}
	return false
}

// Guard redirects unauthenticated requests away from protected paths. It is
// a coarse presence-only check, not a security boundary.
func Guard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if IsPublicPath(path) || HasCredential(c) {
				return next(c)
			}
			metrics.GuardRedirectsTotal.Inc()
			return c.Redirect(http.StatusSeeOther, "/login")
		}
	}
}
