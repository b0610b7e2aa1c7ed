package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/skilltrust/portal/internal/api/middleware"
	"github.com/skilltrust/portal/internal/core/domain"
	"github.com/skilltrust/portal/internal/core/ports"
	"github.com/skilltrust/portal/internal/core/service"
)

// UserHandler serves the job-seeker pages.
type UserHandler struct {
	api   ports.UpstreamClient
	views *service.Views
	store ports.SessionStore
}

func NewUserHandler(api ports.UpstreamClient, views *service.Views, store ports.SessionStore) *UserHandler {
	return &UserHandler{api: api, views: views, store: store}
}

type userDashboardPage struct {
	Base
	Portfolio domain.Portfolio
	Items     []domain.PortfolioItem
	Badges    []domain.Badge
}

// Dashboard handles GET /user/dashboard.
func (h *UserHandler) Dashboard(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	ctx := c.Request().Context()

	view, err := h.views.Portfolio.Load(ctx, service.TokenKey("portfolio", sess.Token), service.DefaultViewTTL,
		func(ctx context.Context) (*domain.PortfolioView, error) {
			return h.api.Portfolio(ctx, sess.Token)
		})
	if err != nil {
		return err
	}

	badges, err := h.views.Badges.Load(ctx, service.TokenKey("skills", sess.Token), service.DefaultViewTTL,
		func(ctx context.Context) ([]domain.Badge, error) {
			return h.api.Skills(ctx, sess.Token)
		})
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "user_dashboard.html", userDashboardPage{
		Base:      newBase(c, h.store, "Dashboard"),
		Portfolio: view.Portfolio,
		Items:     view.Items,
		Badges:    badges,
	})
}

type portfolioPage struct {
	Base
	View *domain.PortfolioView
}

// Portfolio handles GET /user/portfolio.
func (h *UserHandler) Portfolio(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	view, err := h.views.Portfolio.Load(c.Request().Context(), service.TokenKey("portfolio", sess.Token), service.DefaultViewTTL,
		func(ctx context.Context) (*domain.PortfolioView, error) {
			return h.api.Portfolio(ctx, sess.Token)
		})
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "portfolio.html", portfolioPage{
		Base: newBase(c, h.store, "My portfolio"),
		View: view,
	})
}

type skillsPage struct {
	Base
	Badges []domain.Badge
}

// Skills handles GET /user/skills.
func (h *UserHandler) Skills(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	badges, err := h.views.Badges.Load(c.Request().Context(), service.TokenKey("skills", sess.Token), service.DefaultViewTTL,
		func(ctx context.Context) ([]domain.Badge, error) {
			return h.api.Skills(ctx, sess.Token)
		})
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "skills.html", skillsPage{
		Base:   newBase(c, h.store, "Skills & badges"),
		Badges: badges,
	})
}
