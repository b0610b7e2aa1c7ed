package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skilltrust/portal/internal/api/middleware"
	"github.com/skilltrust/portal/internal/core/domain"
	"github.com/skilltrust/portal/internal/core/ports"
	"github.com/skilltrust/portal/internal/core/service"
)

// AuthHandler serves the public pages and the auth forms.
type AuthHandler struct {
	sessions     *service.SessionManager
	store        ports.SessionStore
	cookieSecure bool
}

func NewAuthHandler(sessions *service.SessionManager, store ports.SessionStore, cookieSecure bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, store: store, cookieSecure: cookieSecure}
}

type homePage struct {
	Base
}

// Home handles GET /.
func (h *AuthHandler) Home(c echo.Context) error {
	return c.Render(http.StatusOK, "home.html", homePage{Base: newBase(c, h.store, "Home")})
}

type verifyPage struct {
	Base
	BadgeID string
}

// Verify handles GET /verify, the public credential check page.
func (h *AuthHandler) Verify(c echo.Context) error {
	return c.Render(http.StatusOK, "verify.html", verifyPage{
		Base:    newBase(c, h.store, "Verify a credential"),
		BadgeID: c.QueryParam("badge_id"),
	})
}

type loginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

type loginPage struct {
	Base
	Form       map[string]string
	Errors     domain.FieldErrors
	Registered bool
}

// LoginForm handles GET /login.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	if sess := middleware.CurrentSession(c); sess.Authenticated() {
		return c.Redirect(http.StatusSeeOther, service.LandingPath(sess.Role()))
	}
	return c.Render(http.StatusOK, "login.html", loginPage{
		Base:       newBase(c, h.store, "Log in"),
		Form:       map[string]string{},
		Registered: c.QueryParam("registered") != "",
	})
}

// Login handles POST /login. On success the handler decides navigation from
// the returned role; the session manager only performs the auth effect.
func (h *AuthHandler) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form payload")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderLogin(c, form, fieldErrorsOf(err))
	}

	sid := ensureSessionID(c, h.cookieSecure)
	user, err := h.sessions.Login(c.Request().Context(), sid, domain.Credentials{
		Email:    form.Email,
		Password: form.Password,
	})
	if err != nil {
		return h.renderLogin(c, form, fieldErrorsOf(err))
	}

	rotateSessionID(c, h.store, sid, h.cookieSecure)
	return c.Redirect(http.StatusSeeOther, service.LandingPath(user.Role))
}

func (h *AuthHandler) renderLogin(c echo.Context, form loginForm, errs domain.FieldErrors) error {
	return c.Render(http.StatusOK, "login.html", loginPage{
		Base:   newBase(c, h.store, "Log in"),
		Form:   map[string]string{"email": form.Email},
		Errors: errs,
	})
}

type registerForm struct {
	Name                 string `form:"name" validate:"required"`
	Email                string `form:"email" validate:"required,email"`
	Phone                string `form:"phone" validate:"required"`
	Password             string `form:"password" validate:"required,min=8"`
	PasswordConfirmation string `form:"password_confirmation" validate:"required,eqfield=Password"`
	Role                 string `form:"role" validate:"required,oneof=user institution employer"`
	Region               string `form:"region"`
	City                 string `form:"city"`
	InstitutionName      string `form:"institution_name"`
	InstitutionType      string `form:"institution_type"`
	AccreditationNumber  string `form:"accreditation_number"`
	ContactPerson        string `form:"contact_person"`
	CompanyName          string `form:"company_name"`
	CompanyRegistration  string `form:"company_registration"`
}

func (f *registerForm) values() map[string]string {
	return map[string]string{
		"name":             f.Name,
		"email":            f.Email,
		"phone":            f.Phone,
		"role":             f.Role,
		"region":           f.Region,
		"city":             f.City,
		"institution_name": f.InstitutionName,
		"company_name":     f.CompanyName,
	}
}

type registerPage struct {
	Base
	Form   map[string]string
	Errors domain.FieldErrors
}

// RegisterForm handles GET /register.
func (h *AuthHandler) RegisterForm(c echo.Context) error {
	return c.Render(http.StatusOK, "register.html", registerPage{
		Base: newBase(c, h.store, "Register"),
		Form: map[string]string{"role": domain.RoleUser},
	})
}

// Register handles POST /register. A 422 from the marketplace renders every
// field error inline; a 409 pins the conflict to the email field.
func (h *AuthHandler) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form payload")
	}
	if err := c.Validate(&form); err != nil {
		return h.renderRegister(c, &form, fieldErrorsOf(err))
	}

	sid := ensureSessionID(c, h.cookieSecure)
	_, err := h.sessions.Register(c.Request().Context(), sid, domain.Registration{
		Name:                 form.Name,
		Email:                form.Email,
		Phone:                form.Phone,
		Password:             form.Password,
		PasswordConfirmation: form.PasswordConfirmation,
		Role:                 form.Role,
		Region:               form.Region,
		City:                 form.City,
		InstitutionName:      form.InstitutionName,
		InstitutionType:      form.InstitutionType,
		AccreditationNumber:  form.AccreditationNumber,
		ContactPerson:        form.ContactPerson,
		CompanyName:          form.CompanyName,
		CompanyRegistration:  form.CompanyRegistration,
	})
	if err != nil {
		return h.renderRegister(c, &form, service.RegistrationFieldErrors(err))
	}

	rotateSessionID(c, h.store, sid, h.cookieSecure)
	// Registration needs a separate email confirmation before first login.
	return c.Redirect(http.StatusSeeOther, "/login?registered=1")
}

func (h *AuthHandler) renderRegister(c echo.Context, form *registerForm, errs domain.FieldErrors) error {
	return c.Render(http.StatusOK, "register.html", registerPage{
		Base:   newBase(c, h.store, "Register"),
		Form:   form.values(),
		Errors: errs,
	})
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(c echo.Context) error {
	if sid := middleware.SessionID(c); sid != "" {
		h.sessions.Logout(c.Request().Context(), sid)
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

// fieldErrorsOf extracts a per-field map from a classified error, or nil
// when the error carries no field attribution.
func fieldErrorsOf(err error) domain.FieldErrors {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
