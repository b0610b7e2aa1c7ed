// Package api wires the echo router, middleware chain and the central error
// handler for the portal.
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/skilltrust/portal/internal/api/handler"
	"github.com/skilltrust/portal/internal/core/domain"
)

type errorPage struct {
	handler.Base
	Status  int
	Message string
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Sends expired or rejected credentials back to the login page.
//   - Maps the classified upstream error taxonomy to sensible status pages.
//   - Logs unexpected errors internally without leaking details to the user.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		if errors.Is(err, domain.ErrUnauthorized) {
			_ = c.Redirect(http.StatusSeeOther, "/login")
			return
		}

		code, msg := resolveError(err, log, c)
		page := errorPage{
			Base:    handler.Base{Title: fmt.Sprintf("Error %d", code)},
			Status:  code,
			Message: msg,
		}
		if renderErr := c.Render(code, "error.html", page); renderErr != nil {
			// Rendering itself failed; fall back to plain text.
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from the router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var (
		ve *domain.ValidationError
		ne *domain.NetworkError
		ue *domain.UpstreamError
	)
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "Access forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "The requested resource was not found"
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Error()
	case errors.As(err, &ne):
		return http.StatusBadGateway, "The marketplace service is unreachable. Please try again."
	case errors.As(err, &ue):
		msg := ue.Message
		if msg == "" {
			msg = "The marketplace service returned an error"
		}
		return http.StatusBadGateway, msg
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Something went wrong on our side"
}
