package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skilltrust/portal/internal/api/middleware"
	"github.com/skilltrust/portal/internal/core/domain"
	"github.com/skilltrust/portal/internal/core/ports"
	"github.com/skilltrust/portal/internal/core/service"
)

// Base carries the fields every rendered page needs. Page-specific view
// structs embed it so templates see one flat namespace.
type Base struct {
	Title   string
	Session domain.Session
	Menu    []service.NavItem
	Flashes []domain.Flash
}

// newBase assembles the shared page data: the session resolved by the
// middleware, its role menu, and any queued flashes (popped, so each is
// shown exactly once).
func newBase(c echo.Context, store ports.SessionStore, title string) Base {
	sess := middleware.CurrentSession(c)

	var flashes []domain.Flash
	if sid := middleware.SessionID(c); sid != "" {
		flashes, _ = store.PopFlashes(c.Request().Context(), sid)
	}

	return Base{
		Title:   title,
		Session: sess,
		Menu:    service.Menu(sess.Role()),
		Flashes: flashes,
	}
}

// ensureSessionID returns the browser session id, minting a fresh cookie
// when none exists yet. Login and register call this before the session
// manager so flashes and the record share one id.
func ensureSessionID(c echo.Context, secure bool) string {
	if sid := middleware.SessionID(c); sid != "" {
		return sid
	}
	sid := newSessionID()
	cookie := sessionCookie(sid, secure)
	c.SetCookie(cookie)
	// Attach to the request as well so a re-render in this same request
	// sees the fresh id and pops its flashes.
	c.Request().AddCookie(cookie)
	return sid
}

// rotateSessionID moves the session record under a freshly minted id after a
// successful authentication. The pre-login id never survives the privilege
// change, so an id planted before login is worthless afterwards.
func rotateSessionID(c echo.Context, store ports.SessionStore, old string, secure bool) {
	ctx := c.Request().Context()
	rec, err := store.Get(ctx, old)
	if err != nil {
		return
	}
	sid := newSessionID()
	if err := store.Put(ctx, sid, rec); err != nil {
		return
	}
	_ = store.Delete(ctx, old)
	c.SetCookie(sessionCookie(sid, secure))
}

func sessionCookie(sid string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func newSessionID() string {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		panic("session id entropy unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}
