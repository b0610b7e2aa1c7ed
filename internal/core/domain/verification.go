package domain

// Verification statuses in the institution review workflow. Transitions are
// owned by the marketplace API; the portal only displays and requests them.
const (
	VerificationPending  = "pending"
	VerificationInReview = "in_review"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
	VerificationRevoked  = "revoked"
)

// Actions an institution reviewer can request on a verification.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionStart   = "start"
)

// VerificationOwner identifies the job seeker whose item is under review.
type VerificationOwner struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// VerificationItem is the portfolio item under review, embedded in queue rows.
type VerificationItem struct {
	ID          int               `json:"id"`
	Title       string            `json:"title"`
	Type        string            `json:"type"`
	Description string            `json:"description,omitempty"`
	FilePath    string            `json:"file_path,omitempty"`
	User        VerificationOwner `json:"user"`
}

// Verification is one entry in an institution's review queue.
type Verification struct {
	ID                 int              `json:"id"`
	VerificationNumber string           `json:"verification_number"`
	PortfolioItem      VerificationItem `json:"portfolio_item"`
	Status             string           `json:"status"`
	Remarks            string           `json:"remarks,omitempty"`
	RejectionReason    string           `json:"rejection_reason,omitempty"`
	VerifiedAt         string           `json:"verified_at,omitempty"`
	CreatedAt          string           `json:"created_at"`
}

// VerificationQuery is the identity of one verification queue page: every
// parameter that changes the result set is part of it.
type VerificationQuery struct {
	Status string
	Page   int
	Search string
}

// InstitutionStats backs the institution dashboard cards.
type InstitutionStats struct {
	PendingVerifications int `json:"pending_verifications"`
	InReview             int `json:"in_review"`
	ApprovedThisMonth    int `json:"approved_this_month"`
	BadgesIssued         int `json:"badges_issued"`
}

// VerificationRequest is an admin-side institution onboarding request.
type VerificationRequest struct {
	ID           string `json:"id"`
	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	UserEmail    string `json:"user_email"`
	DocumentType string `json:"document_type"`
	DocumentURL  string `json:"document_url"`
	Status       string `json:"status"`
	SubmittedAt  string `json:"submitted_at"`
}

// CandidateQuery is the identity of one employer candidate search page.
type CandidateQuery struct {
	Search string
	Page   int
}
