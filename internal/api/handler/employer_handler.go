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

// EmployerHandler serves the employer pages.
type EmployerHandler struct {
	api   ports.UpstreamClient
	views *service.Views
	store ports.SessionStore
}

func NewEmployerHandler(api ports.UpstreamClient, views *service.Views, store ports.SessionStore) *EmployerHandler {
	return &EmployerHandler{api: api, views: views, store: store}
}

type employerDashboardPage struct {
	Base
	Stats *domain.EmployerStats
}

// Dashboard handles GET /employer/dashboard.
func (h *EmployerHandler) Dashboard(c echo.Context) error {
	sess := middleware.CurrentSession(c)

	stats, err := h.views.EmployerStats.Load(c.Request().Context(), service.TokenKey("employer_dashboard", sess.Token), service.DefaultViewTTL,
		func(ctx context.Context) (*domain.EmployerStats, error) {
			return h.api.EmployerDashboard(ctx, sess.Token)
		})
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "employer_dashboard.html", employerDashboardPage{
		Base:  newBase(c, h.store, "Employer dashboard"),
		Stats: stats,
	})
}

type candidatesPage struct {
	Base
	Page   *domain.Page[domain.Candidate]
	Search string
}

func (p candidatesPage) PrevPage() int { return p.Page.CurrentPage - 1 }
func (p candidatesPage) NextPage() int { return p.Page.CurrentPage + 1 }

// Candidates handles GET /employer/candidates. Search and page are part of
// the view identity, so every filter change is a distinct cached view.
func (h *EmployerHandler) Candidates(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	q := domain.CandidateQuery{
		Search: c.QueryParam("search"),
		Page:   queryPage(c),
	}

	page, err := h.views.Candidates.Load(c.Request().Context(), service.CandidatesKey(sess.Token, q), service.DefaultViewTTL,
		func(ctx context.Context) (*domain.Page[domain.Candidate], error) {
			return h.api.Candidates(ctx, sess.Token, q)
		})
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "candidates.html", candidatesPage{
		Base:   newBase(c, h.store, "Search talent"),
		Page:   page,
		Search: q.Search,
	})
}

type candidateDetailPage struct {
	Base
	Detail *domain.CandidateDetail
}

// Candidate handles GET /employer/candidates/:id.
func (h *EmployerHandler) Candidate(c echo.Context) error {
	sess := middleware.CurrentSession(c)
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid candidate id")
	}

	detail, err := h.api.Candidate(c.Request().Context(), sess.Token, id)
	if err != nil {
		return err
	}

	return c.Render(http.StatusOK, "candidate_detail.html", candidateDetailPage{
		Base:   newBase(c, h.store, detail.Candidate.Name),
		Detail: detail,
	})
}

// queryPage parses the page query parameter, defaulting to 1.
func queryPage(c echo.Context) int {
	p, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || p < 1 {
		return 1
	}
	return p
}
