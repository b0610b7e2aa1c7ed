package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skilltrust/portal/internal/core/domain"
	"github.com/skilltrust/portal/internal/core/service"
)

// sessionKey is the echo context key the resolved session is stored under.
const sessionKey = "session"

// SessionID returns the browser session id, or "" when the cookie is absent.
func SessionID(c echo.Context) string {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// CurrentSession returns the session resolved by LoadSession, or the zero
// session when the middleware did not run.
func CurrentSession(c echo.Context) domain.Session {
	sess, _ := c.Get(sessionKey).(domain.Session)
	return sess
}

// SetSession stores a resolved session on the context. Exposed for handlers
// that establish a session mid-request (login, register) and for tests.
func SetSession(c echo.Context, sess domain.Session) {
	c.Set(sessionKey, sess)
}

// LoadSession restores the session record behind the cookie and attaches it
// to the request context. On protected paths an unauthenticated outcome
// (missing, expired or revoked credential) redirects to the login page;
// public paths continue with an anonymous session.
func LoadSession(mgr *service.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := SessionID(c)
			if sid == "" {
				return next(c)
			}

			sess, err := mgr.Restore(c.Request().Context(), sid)
			if err != nil {
				return err
			}
			SetSession(c, sess)

			if !sess.Authenticated() && !IsPublicPath(c.Request().URL.Path) {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}

// RequireAuth gates a page to authenticated sessions of any role. It covers
// requests that pass the coarse guard on a header credential alone and so
// never went through cookie-based session restore.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !CurrentSession(c).Authenticated() {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			return next(c)
		}
	}
}

// RequireRole gates a page tree to the given roles. A mismatched role is sent
// to its own landing page rather than an error page; the marketplace API
// remains the authority on every data access regardless.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := CurrentSession(c)
			if !sess.Authenticated() {
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			if _, ok := allowed[sess.Role()]; !ok {
				return c.Redirect(http.StatusSeeOther, service.LandingPath(sess.Role()))
			}
			return next(c)
		}
	}
}
