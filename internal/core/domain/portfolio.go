package domain

// Portfolio is a job seeker's public profile container.
type Portfolio struct {
	ID           int    `json:"id"`
	UserID       int    `json:"user_id"`
	Title        string `json:"title,omitempty"`
	Bio          string `json:"bio,omitempty"`
	ProfilePhoto string `json:"profile_photo,omitempty"`
	Visibility   string `json:"visibility"`
	ViewsCount   int    `json:"views_count"`
}

// Portfolio item types recognised by the marketplace.
const (
	ItemProject        = "project"
	ItemCertificate    = "certificate"
	ItemWorkExperience = "work_experience"
	ItemEducation      = "education"
	ItemAssessment     = "assessment"
)

// PortfolioItem is a single credential or work sample attached to a
// portfolio, together with its verification status.
type PortfolioItem struct {
	ID           int    `json:"id"`
	PortfolioID  int    `json:"portfolio_id"`
	Type         string `json:"type"`
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Organization string `json:"organization,omitempty"`
	IssueDate    string `json:"issue_date,omitempty"`
	ExpiryDate   string `json:"expiry_date,omitempty"`
	CredentialID string `json:"credential_id,omitempty"`
	FilePath     string `json:"file_path,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// PortfolioView is the GET /portfolio response: the container plus its items.
type PortfolioView struct {
	Portfolio Portfolio       `json:"portfolio"`
	Items     []PortfolioItem `json:"items"`
}

// Badge is a skill badge issued by a verifying institution.
type Badge struct {
	ID        int    `json:"id"`
	BadgeID   string `json:"badge_id"`
	UserID    int    `json:"user_id"`
	IssuerID  int    `json:"issuer_id"`
	Name      string `json:"name"`
	SkillName string `json:"skill_name"`
	Level     string `json:"level,omitempty"`
	IssuedAt  string `json:"issued_at"`
	ExpiresAt string `json:"expires_at,omitempty"`
	Status    string `json:"status"`
}

// Candidate is the employer-facing search result row.
type Candidate struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Title          string   `json:"title,omitempty"`
	Region         string   `json:"region,omitempty"`
	City           string   `json:"city,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	VerifiedBadges int      `json:"verified_badges"`
}

// CandidateDetail is the employer-facing candidate profile view.
type CandidateDetail struct {
	Candidate Candidate     `json:"candidate"`
	Portfolio PortfolioView `json:"portfolio"`
	Badges    []Badge       `json:"badges,omitempty"`
}

// EmployerStats backs the employer dashboard cards.
type EmployerStats struct {
	AvailableCandidates int `json:"available_candidates"`
	VerifiedCredentials int `json:"verified_credentials"`
	SavedSearches       int `json:"saved_searches"`
}
