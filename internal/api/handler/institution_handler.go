package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/skilltrust/portal/internal/api/middleware"
	"github.com/skilltrust/portal/internal/core/domain"
	"github.com/skilltrust/portal/internal/core/ports"
	"github.com/skilltrust/portal/internal/core/service"
)

// queueStatuses are the tabs shown on the verification queue page.
var queueStatuses = []string{
	domain.VerificationPending,
	domain.VerificationInReview,
	domain.VerificationApproved,
	domain.VerificationRejected,
}

// InstitutionHandler serves the verifying-institution pages.
type InstitutionHandler struct {
	api   ports.UpstreamClient
	views *service.Views
	store ports.SessionStore
}

func NewInstitutionHandler(api ports.UpstreamClient, views *service.Views, store ports.SessionStore) *InstitutionHandler {
	return &InstitutionHandler{api: api, views: views, store: store}
}

type institutionDashboardPage struct {
	Base
	Stats *domain.InstitutionStats
}

// Dashboard handles GET /institution/dashboard.
func (h *InstitutionHandler) Dashboard(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	stats, err := h.views.InstitutionStats.Load(c.Request().Context(), service.TokenKey("institution_dashboard", sess.Token), service.DefaultViewTTL,
		func(ctx context.Context) (*domain.InstitutionStats, error) {
			return h.api.InstitutionDashboard(ctx, sess.Token)
		})
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "institution_dashboard.html", institutionDashboardPage{
		Base:  newBase(c, h.store, "Institution dashboard"),
		Stats: stats,
	})
}

type verificationsPage struct {
	Base
	Page     *domain.Page[domain.Verification]
	Status   string
	Search   string
	Statuses []string
}

func (p verificationsPage) PrevPage() int { return p.Page.CurrentPage - 1 }
func (p verificationsPage) NextPage() int { return p.Page.CurrentPage + 1 }

// Verifications handles GET /institution/verifications. Status, page and
// search together form the view identity.
func (h *InstitutionHandler) Verifications(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	status := c.QueryParam("status")
	if status == "" {
		status = domain.VerificationPending
	}
	q := domain.VerificationQuery{
		Status: status,
		Page:   queryPage(c),
		Search: c.QueryParam("search"),
	}

	page, err := h.views.Verifications.Load(c.Request().Context(), service.VerificationsKey(sess.Token, q), service.DefaultViewTTL,
		func(ctx context.Context) (*domain.Page[domain.Verification], error) {
			return h.api.Verifications(ctx, sess.Token, q)
		})
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "verifications.html", verificationsPage{
		Base:     newBase(c, h.store, "Verification queue"),
		Page:     page,
		Status:   q.Status,
		Search:   q.Search,
		Statuses: queueStatuses,
	})
}

type verificationDetailPage struct {
	Base
	Verification *domain.Verification
}

// Verification handles GET /institution/verifications/:id.
func (h *InstitutionHandler) Verification(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid verification id")
	}

	v, err := h.api.Verification(c.Request().Context(), sess.Token, id)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "verification_detail.html", verificationDetailPage{
		Base:         newBase(c, h.store, v.VerificationNumber),
		Verification: v,
	})
}

// Action handles POST /institution/verifications/:id/:action for
// start/approve/reject. Mutations bypass the view cache and invalidate every
// cached queue page for this reviewer.
func (h *InstitutionHandler) Action(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	sid := middleware.SessionID(c)
	ctx := c.Request().Context()

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid verification id")
	}
	action := c.Param("action")
	switch action {
	case domain.ActionApprove, domain.ActionReject, domain.ActionStart:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "unknown action")
	}

	if err := h.api.VerificationAction(ctx, sess.Token, id, action); err != nil {
		return err
	}

	h.views.Verifications.InvalidatePrefix(service.VerificationsPrefix(sess.Token))
	h.views.InstitutionStats.Invalidate(service.TokenKey("institution_dashboard", sess.Token))

	_ = h.store.PushFlash(ctx, sid, domain.Flash{Kind: domain.FlashSuccess, Message: actionMessage(action)})
	return c.Redirect(http.StatusSeeOther, "/institution/verifications/"+strconv.Itoa(id))
}

func actionMessage(action string) string {
	switch action {
	case domain.ActionApprove:
		return "Verification approved"
	case domain.ActionReject:
		return "Verification rejected"
	default:
		return "Review started"
	}
}
