package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skilltrust/portal/internal/api/middleware"
	"github.com/skilltrust/portal/internal/core/domain"
	"github.com/skilltrust/portal/internal/core/ports"
	"github.com/skilltrust/portal/internal/core/service"
)

// ProfileHandler serves the account profile page for every role.
type ProfileHandler struct {
	sessions *service.SessionManager
	store    ports.SessionStore
}

func NewProfileHandler(sessions *service.SessionManager, store ports.SessionStore) *ProfileHandler {
	return &ProfileHandler{sessions: sessions, store: store}
}

type profileForm struct {
	Name   string `form:"name" validate:"required"`
	Phone  string `form:"phone" validate:"required"`
	Region string `form:"region"`
	City   string `form:"city"`
}

type profilePage struct {
	Base
	Form   map[string]string
	Errors domain.FieldErrors
}

// Form handles GET /profile, prefilled from the current user snapshot.
func (h *ProfileHandler) Form(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	return c.Render(http.StatusOK, "profile.html", profilePage{
		Base: newBase(c, h.store, "Profile"),
		Form: map[string]string{
			"name":   sess.User.Name,
			"phone":  sess.User.Phone,
			"region": sess.User.Region,
			"city":   sess.User.City,
		},
	})
}

// Update handles POST /profile. The stored user is replaced wholesale with
// the snapshot the marketplace returns, never merged locally.
func (h *ProfileHandler) Update(c echo.Context) error {
	var form profileForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form payload")
	}
	if err := c.Validate(&form); err != nil {
		return h.render(c, &form, fieldErrorsOf(err))
	}

	sid := middleware.SessionID(c)
	_, err := h.sessions.UpdateProfile(c.Request().Context(), sid, domain.ProfileUpdate{
		Name:   &form.Name,
		Phone:  &form.Phone,
		Region: &form.Region,
		City:   &form.City,
	})
	if err != nil {
		return h.render(c, &form, fieldErrorsOf(err))
	}

	return c.Redirect(http.StatusSeeOther, "/profile")
}

func (h *ProfileHandler) render(c echo.Context, form *profileForm, errs domain.FieldErrors) error {
	return c.Render(http.StatusOK, "profile.html", profilePage{
		Base: newBase(c, h.store, "Profile"),
		Form: map[string]string{
			"name":   form.Name,
			"phone":  form.Phone,
			"region": form.Region,
			"city":   form.City,
		},
		Errors: errs,
	})
}
