package ports

import (
	"context"

	"github.com/skilltrust/portal/internal/core/domain"
)

// UpstreamClient is the portal's only gateway to the marketplace REST API.
// Every method returns errors already classified into the domain taxonomy
// (ValidationError, ConflictError, NetworkError, UpstreamError or one of the
// sentinels), so callers switch on types rather than on status codes.
type UpstreamClient interface {
	// Auth surface.
	Login(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error)
	Register(ctx context.Context, data domain.Registration) (*domain.AuthResult, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, token string) (*domain.User, error)
	UpdateProfile(ctx context.Context, token string, changes domain.ProfileUpdate) (*domain.User, error)

	// Job seeker surface.
	Portfolio(ctx context.Context, token string) (*domain.PortfolioView, error)
	Skills(ctx context.Context, token string) ([]domain.Badge, error)

	// Employer surface.
	EmployerDashboard(ctx context.Context, token string) (*domain.EmployerStats, error)
	Candidates(ctx context.Context, token string, q domain.CandidateQuery) (*domain.Page[domain.Candidate], error)
	Candidate(ctx context.Context, token string, id int) (*domain.CandidateDetail, error)

	// Institution surface.
	InstitutionDashboard(ctx context.Context, token string) (*domain.InstitutionStats, error)
	Verifications(ctx context.Context, token string, q domain.VerificationQuery) (*domain.Page[domain.Verification], error)
	Verification(ctx context.Context, token string, id int) (*domain.Verification, error)
	VerificationAction(ctx context.Context, token string, id int, action string) error

	// Admin surface.
	AdminVerificationRequests(ctx context.Context, token string) ([]domain.VerificationRequest, error)
	AdminVerificationAction(ctx context.Context, token string, id string, action string) error

	// Ping reports upstream reachability for the readiness probe. Any HTTP
	// response counts as reachable; only transport failures are errors.
	Ping(ctx context.Context) error
}
