package domain

// Roles assigned by the marketplace API. The portal never invents roles; it
// only routes on the value the server returned.
const (
	RoleUser        = "user"
	RoleInstitution = "institution"
	RoleEmployer    = "employer"
	RoleAdmin       = "admin"
)

// Account statuses reported by the marketplace API.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
	StatusPending   = "pending"
)

// User is an immutable snapshot of the authenticated account as the
// marketplace API last reported it. It is replaced wholesale on every
// successful auth or profile-update call, never merged client-side.
type User struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Role   string `json:"role"`
	Status string `json:"status"`

	Region    string   `json:"region,omitempty"`
	City      string   `json:"city,omitempty"`
	Woreda    string   `json:"woreda,omitempty"`
	Kebele    string   `json:"kebele,omitempty"`
	Languages []string `json:"languages,omitempty"`

	// Institution accounts.
	InstitutionName       string `json:"institution_name,omitempty"`
	InstitutionType       string `json:"institution_type,omitempty"`
	IsVerifiedInstitution bool   `json:"is_verified_institution,omitempty"`

	// Employer accounts.
	CompanyName        string `json:"company_name,omitempty"`
	IsVerifiedEmployer bool   `json:"is_verified_employer,omitempty"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// DisplayName is what greeting banners show: the personal name, falling back
// to the email address.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// Credentials is the login form payload forwarded to the marketplace API.
type Credentials struct {
	Login    string `json:"login,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up payload. Role-specific fields are forwarded
// as-is; the API validates which of them apply to the chosen role.
type Registration struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Phone                string `json:"phone"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
	Role                 string `json:"role"`
	Region               string `json:"region,omitempty"`
	City                 string `json:"city,omitempty"`

	InstitutionName     string `json:"institution_name,omitempty"`
	InstitutionType     string `json:"institution_type,omitempty"`
	AccreditationNumber string `json:"accreditation_number,omitempty"`
	ContactPerson       string `json:"contact_person,omitempty"`

	CompanyName         string `json:"company_name,omitempty"`
	CompanyRegistration string `json:"company_registration,omitempty"`
}

// ProfileUpdate is a partial profile edit. Nil fields are omitted from the
// request payload; the API recomputes derived fields and returns the full
// replacement snapshot.
type ProfileUpdate struct {
	Name      *string  `json:"name,omitempty"`
	Phone     *string  `json:"phone,omitempty"`
	Region    *string  `json:"region,omitempty"`
	City      *string  `json:"city,omitempty"`
	Languages []string `json:"languages,omitempty"`
}

// AuthResult is the envelope returned by the login and register endpoints.
type AuthResult struct {
	User    *User  `json:"user"`
	Token   string `json:"token"`
	Message string `json:"message,omitempty"`
}
