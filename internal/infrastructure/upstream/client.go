// Package upstream implements the HTTP client adapter for the marketplace
// REST API. It owns base-URL resolution, bearer-token attachment, timeouts
// and the classification of failures into the domain error taxonomy.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/skilltrust/portal/internal/api/metrics"
	"github.com/skilltrust/portal/internal/core/domain"
)

// Client talks to the marketplace API. It is safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

// New creates a Client for the API rooted at baseURL. The timeout bounds the
// whole round trip; expiry surfaces as a NetworkError with Timeout set.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}
}

// errorEnvelope is the API's error body: a message plus, on 422, a per-field
// validation map.
type errorEnvelope struct {
	Message string             `json:"message"`
	Errors  domain.FieldErrors `json:"errors"`
}

// do performs one round trip. body (when non-nil) is JSON-encoded; out (when
// non-nil) receives the decoded 2xx response body. Failures are returned
// already classified.
func (c *Client) do(ctx context.Context, endpoint, method, path, token string, body, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, method, path, token, body, out)
	metrics.UpstreamRequestDuration.
		WithLabelValues(endpoint, outcomeLabel(err)).
		Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrorsTotal.WithLabelValues(endpoint, classLabel(err)).Inc()
		c.log.Debug().Err(err).Str("endpoint", endpoint).Str("path", path).Msg("upstream call failed")
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &domain.NetworkError{Err: err, Timeout: isTimeout(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return classifyResponse(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &domain.UpstreamError{Status: resp.StatusCode, Message: "malformed response body"}
		}
	}
	return nil
}

// classifyResponse maps an error response onto the domain taxonomy. The body
// is read fully so the connection can be reused.
func classifyResponse(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	var env errorEnvelope
	_ = json.Unmarshal(raw, &env)

	switch resp.StatusCode {
	case http.StatusUnprocessableEntity:
		if len(env.Errors) == 0 && env.Message != "" {
			env.Errors = domain.FieldErrors{"_": {env.Message}}
		}
		return &domain.ValidationError{Fields: env.Errors}
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusConflict:
		return &domain.ConflictError{Field: "email", Message: env.Message}
	case http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return &domain.UpstreamError{Status: resp.StatusCode, Message: env.Message}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return classLabel(err)
}

func classLabel(err error) string {
	var (
		ve *domain.ValidationError
		ce *domain.ConflictError
		ne *domain.NetworkError
	)
	switch {
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &ce):
		return "conflict"
	case errors.As(err, &ne):
		return "network"
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrForbidden):
		return "auth"
	default:
		return "upstream"
	}
}

// ── Auth surface ─────────────────────────────────────────────────────────────

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := c.do(ctx, "login", http.MethodPost, "/login", "", creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, data domain.Registration) (*domain.AuthResult, error) {
	var res domain.AuthResult
	if err := c.do(ctx, "register", http.MethodPost, "/register", "", data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, "logout", http.MethodPost, "/logout", token, nil, nil)
}

func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, "me", http.MethodGet, "/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, token string, changes domain.ProfileUpdate) (*domain.User, error) {
	var res struct {
		User *domain.User `json:"user"`
	}
	if err := c.do(ctx, "update_profile", http.MethodPut, "/profile", token, changes, &res); err != nil {
		return nil, err
	}
	if res.User == nil {
		return nil, &domain.UpstreamError{Status: http.StatusOK, Message: "profile response missing user"}
	}
	return res.User, nil
}

// ── Job seeker surface ───────────────────────────────────────────────────────

func (c *Client) Portfolio(ctx context.Context, token string) (*domain.PortfolioView, error) {
	var view domain.PortfolioView
	if err := c.do(ctx, "portfolio", http.MethodGet, "/portfolio", token, nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) Skills(ctx context.Context, token string) ([]domain.Badge, error) {
	var res struct {
		Data []domain.Badge `json:"data"`
	}
	if err := c.do(ctx, "skills", http.MethodGet, "/skills", token, nil, &res); err != nil {
		return nil, err
	}
	return res.Data, nil
}

// ── Employer surface ─────────────────────────────────────────────────────────

func (c *Client) EmployerDashboard(ctx context.Context, token string) (*domain.EmployerStats, error) {
	var stats domain.EmployerStats
	if err := c.do(ctx, "employer_dashboard", http.MethodGet, "/employer/dashboard", token, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Candidates(ctx context.Context, token string, q domain.CandidateQuery) (*domain.Page[domain.Candidate], error) {
	query := url.Values{}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Page > 1 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	path := "/employer/candidates"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page domain.Page[domain.Candidate]
	if err := c.do(ctx, "candidates", http.MethodGet, path, token, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Candidate(ctx context.Context, token string, id int) (*domain.CandidateDetail, error) {
	var detail domain.CandidateDetail
	path := "/employer/candidates/" + strconv.Itoa(id)
	if err := c.do(ctx, "candidate", http.MethodGet, path, token, nil, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ── Institution surface ──────────────────────────────────────────────────────

func (c *Client) InstitutionDashboard(ctx context.Context, token string) (*domain.InstitutionStats, error) {
	var stats domain.InstitutionStats
	if err := c.do(ctx, "institution_dashboard", http.MethodGet, "/institution/dashboard", token, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) Verifications(ctx context.Context, token string, q domain.VerificationQuery) (*domain.Page[domain.Verification], error) {
	query := url.Values{}
	if q.Status != "" {
		query.Set("status", q.Status)
	}
	if q.Page > 1 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	path := "/institution/verifications"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var page domain.Page[domain.Verification]
	if err := c.do(ctx, "verifications", http.MethodGet, path, token, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Verification(ctx context.Context, token string, id int) (*domain.Verification, error) {
	var v domain.Verification
	path := "/institution/verifications/" + strconv.Itoa(id)
	if err := c.do(ctx, "verification", http.MethodGet, path, token, nil, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *Client) VerificationAction(ctx context.Context, token string, id int, action string) error {
	path := fmt.Sprintf("/institution/verifications/%d/%s", id, action)
	return c.do(ctx, "verification_action", http.MethodPost, path, token, nil, nil)
}

// ── Admin surface ────────────────────────────────────────────────────────────

func (c *Client) AdminVerificationRequests(ctx context.Context, token string) ([]domain.VerificationRequest, error) {
	var reqs []domain.VerificationRequest
	if err := c.do(ctx, "admin_requests", http.MethodGet, "/admin/verification-requests", token, nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

func (c *Client) AdminVerificationAction(ctx context.Context, token, id, action string) error {
	path := fmt.Sprintf("/admin/verification-requests/%s/%s", url.PathEscape(id), action)
	return c.do(ctx, "admin_request_action", http.MethodPost, path, token, nil, nil)
}

// ── Health ───────────────────────────────────────────────────────────────────

// Ping reports whether the API host answers at all. Any HTTP status counts
// as reachable; only transport failures are reported.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return &domain.NetworkError{Err: err, Timeout: isTimeout(err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
