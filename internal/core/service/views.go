package service

import (
	"fmt"
	"time"

	"github.com/skilltrust/portal/internal/core/domain"
)

// DefaultViewTTL is how long a cached upstream view stays fresh. Mutations
// invalidate affected keys immediately; the TTL only bounds read staleness.
const DefaultViewTTL = 15 * time.Second

// Views groups one ViewCache per upstream read so handlers share caches and
// latest-wins state across requests. Keys always include the session token,
// so no view leaks between users.
type Views struct {
	Portfolio        *ViewCache[*domain.PortfolioView]
	Badges           *ViewCache[[]domain.Badge]
	EmployerStats    *ViewCache[*domain.EmployerStats]
	Candidates       *ViewCache[*domain.Page[domain.Candidate]]
	InstitutionStats *ViewCache[*domain.InstitutionStats]
	Verifications    *ViewCache[*domain.Page[domain.Verification]]
	AdminRequests    *ViewCache[[]domain.VerificationRequest]
}

func NewViews() *Views {
	return &Views{
		Portfolio:        NewViewCache[*domain.PortfolioView](),
		Badges:           NewViewCache[[]domain.Badge](),
		EmployerStats:    NewViewCache[*domain.EmployerStats](),
		Candidates:       NewViewCache[*domain.Page[domain.Candidate]](),
		InstitutionStats: NewViewCache[*domain.InstitutionStats](),
		Verifications:    NewViewCache[*domain.Page[domain.Verification]](),
		AdminRequests:    NewViewCache[[]domain.VerificationRequest](),
	}
}

// Identity builders. The identity of a read is every parameter that changes
// its result; two calls with equal identities are the same logical view.

func TokenKey(view, token string) string {
	return view + "|" + token
}

func CandidatesKey(token string, q domain.CandidateQuery) string {
	return fmt.Sprintf("candidates|%s|%s|%d", token, q.Search, q.Page)
}

func VerificationsKey(token string, q domain.VerificationQuery) string {
	return fmt.Sprintf("verifications|%s|%s|%d|%s", token, q.Status, q.Page, q.Search)
}

// VerificationsPrefix matches every cached queue page for a token,
// regardless of status, page or search.
func VerificationsPrefix(token string) string {
	return "verifications|" + token + "|"
}
