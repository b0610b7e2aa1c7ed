package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/skilltrust/portal/internal/api/handler"
	"github.com/skilltrust/portal/internal/api/middleware"
	"github.com/skilltrust/portal/internal/api/render"
	"github.com/skilltrust/portal/internal/core/domain"
	"github.com/skilltrust/portal/internal/core/ports"
	"github.com/skilltrust/portal/internal/core/service"
)

// Deps carries everything the router needs; main assembles it.
type Deps struct {
	Upstream     ports.UpstreamClient
	Store        ports.SessionStore
	Redis        *redis.Client
	Log          zerolog.Logger
	CookieSecure bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	e.Renderer = renderer
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	sessions := service.NewSessionManager(d.Upstream, d.Store, d.Log)
	views := service.NewViews()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("skilltrust_portal"))
	e.Use(middleware.Guard())
	e.Use(middleware.LoadSession(sessions))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(sessions, d.Store, d.CookieSecure)
	profileHandler := handler.NewProfileHandler(sessions, d.Store)
	userHandler := handler.NewUserHandler(d.Upstream, views, d.Store)
	employerHandler := handler.NewEmployerHandler(d.Upstream, views, d.Store)
	institutionHandler := handler.NewInstitutionHandler(d.Upstream, views, d.Store)
	adminHandler := handler.NewAdminHandler(d.Upstream, views, d.Store)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(d.Redis, d.Upstream)

	// --- Public surface ---
	e.GET("/", authHandler.Home)
	e.GET("/login", authHandler.LoginForm)
	e.POST("/login", authHandler.Login)
	e.GET("/register", authHandler.RegisterForm)
	e.POST("/register", authHandler.Register)
	e.POST("/logout", authHandler.Logout)
	e.GET("/verify", authHandler.Verify)

	e.StaticFS("/static", render.Static())
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/healthz", healthHandler.Liveness)
	e.GET("/healthz/ready", readinessHandler.Readiness)

	// --- Authenticated, any role ---
	profile := e.Group("/profile", middleware.RequireAuth())
	profile.GET("", profileHandler.Form)
	profile.POST("", profileHandler.Update)

	// --- Role page trees ---
	user := e.Group("/user", middleware.RequireRole(domain.RoleUser))
	user.GET("/dashboard", userHandler.Dashboard)
	user.GET("/portfolio", userHandler.Portfolio)
	user.GET("/skills", userHandler.Skills)

	employer := e.Group("/employer", middleware.RequireRole(domain.RoleEmployer))
	employer.GET("/dashboard", employerHandler.Dashboard)
	employer.GET("/candidates", employerHandler.Candidates)
	employer.GET("/candidates/:id", employerHandler.Candidate)

	institution := e.Group("/institution", middleware.RequireRole(domain.RoleInstitution))
	institution.GET("/dashboard", institutionHandler.Dashboard)
	institution.GET("/verifications", institutionHandler.Verifications)
	institution.GET("/verifications/:id", institutionHandler.Verification)
	institution.POST("/verifications/:id/:action", institutionHandler.Action)

	admin := e.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/verification-requests", adminHandler.Requests)
	admin.POST("/verification-requests/:id/:action", adminHandler.Action)

	// The bare role roots land on the role dashboards.
	e.GET("/dashboard", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, service.LandingPath(middleware.CurrentSession(c).Role()))
	}, middleware.RequireAuth())

	return e, nil
}
