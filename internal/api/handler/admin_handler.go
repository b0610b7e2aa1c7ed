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

// AdminHandler serves the platform administration pages.
type AdminHandler struct {
	api   ports.UpstreamClient
	views *service.Views
	store ports.SessionStore
}

func NewAdminHandler(api ports.UpstreamClient, views *service.Views, store ports.SessionStore) *AdminHandler {
	return &AdminHandler{api: api, views: views, store: store}
}

type adminDashboardPage struct {
	Base
	PendingRequests int
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	reqs, err := h.loadRequests(c, sess.Token)
	if err != nil {
		return err
	}

	pending := 0
	for _, r := range reqs {
		if r.Status == domain.VerificationPending {
			pending++
		}
	}

	return c.Render(http.StatusOK, "admin_dashboard.html", adminDashboardPage{
		Base:            newBase(c, h.store, "Administration"),
		PendingRequests: pending,
	})
}

type adminRequestsPage struct {
	Base
	Requests []domain.VerificationRequest
}

// Requests handles GET /admin/verification-requests.
func (h *AdminHandler) Requests(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	reqs, err := h.loadRequests(c, sess.Token)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "admin_requests.html", adminRequestsPage{
		Base:     newBase(c, h.store, "Verification requests"),
		Requests: reqs,
	})
}

// Action handles POST /admin/verification-requests/:id/:action for
// approve/reject.
func (h *AdminHandler) Action(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	sid := middleware.SessionID(c)
	ctx := c.Request().Context()

	id := c.Param("id")
	action := c.Param("action")
	switch action {
	case domain.ActionApprove, domain.ActionReject:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown action")
	}

	if err := h.api.AdminVerificationAction(ctx, sess.Token, id, action); err != nil {
		return err
	}

	h.views.AdminRequests.Invalidate(service.TokenKey("admin_requests", sess.Token))

	msg := "Request approved successfully"
	if action == domain.ActionReject {
		msg = "Request rejected"
	}
	_ = h.store.PushFlash(ctx, sid, domain.Flash{Kind: domain.FlashSuccess, Message: msg})
	return c.Redirect(http.StatusSeeOther, "/admin/verification-requests")
}

func (h *AdminHandler) loadRequests(c echo.Context, token string) ([]domain.VerificationRequest, error) {
	return h.views.AdminRequests.Load(c.Request().Context(), service.TokenKey("admin_requests", token), service.DefaultViewTTL,
		func(ctx context.Context) ([]domain.VerificationRequest, error) {
			return h.api.AdminVerificationRequests(ctx, token)
		})
}
