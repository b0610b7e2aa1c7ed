package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/skilltrust/portal/internal/api/render"
	"github.com/skilltrust/portal/internal/core/domain"
)

func errorApp(t *testing.T, failWith error) *echo.Echo {
	t.Helper()
	e := echo.New()
	renderer, err := render.New()
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	e.Renderer = renderer
	e.HTTPErrorHandler = NewHTTPErrorHandler(zerolog.Nop())
	e.GET("/boom", func(echo.Context) error {
		return failWith
	})
	return e
}

func serveError(t *testing.T, failWith error) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	rec := httptest.NewRecorder()
	errorApp(t, failWith).ServeHTTP(rec, req)
	return rec
}

func TestErrorHandler_UnauthorizedRedirectsToLogin(t *testing.T) {
	rec := serveError(t, domain.ErrUnauthorized)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login" {
		t.Errorf("redirect = %q", loc)
	}
}

func TestErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
		text string
	}{
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "Access forbidden"},
		{"not_found", domain.ErrNotFound, http.StatusNotFound, "not found"},
		{"network", &domain.NetworkError{Err: errors.New("refused")}, http.StatusBadGateway,
			"The marketplace service is unreachable. Please try again."},
		{"upstream_message", &domain.UpstreamError{Status: 503, Message: "Scheduled maintenance"},
			http.StatusBadGateway, "Scheduled maintenance"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Something went wrong on our side"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := serveError(t, tc.err)
			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d", rec.Code, tc.code)
			}
			if !strings.Contains(rec.Body.String(), tc.text) {
				t.Errorf("body missing %q", tc.text)
			}
		})
	}
}

func TestErrorHandler_UnexpectedErrorHidesCause(t *testing.T) {
	rec := serveError(t, errors.New("pq: connection reset"))
	if strings.Contains(rec.Body.String(), "connection reset") {
		t.Error("internal error detail leaked to the page")
	}
}

func TestErrorHandler_RouterNotFound(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/no-such-page", nil)
	rec := httptest.NewRecorder()
	errorApp(t, nil).ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}
