package service

import "github.com/skilltrust/portal/internal/core/domain"

// LandingPath maps an authenticated role to its dashboard. Unknown or empty
// roles land on the job-seeker dashboard.
func LandingPath(role string) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin/dashboard"
	case domain.RoleInstitution:
		return "/institution/dashboard"
	case domain.RoleEmployer:
		return "/employer/dashboard"
	default:
		return "/user/dashboard"
	}
}

// NavItem is one entry in the role-conditional side menu.
type NavItem struct {
	Name string
	Href string
}

// Menu returns the navigation items for a role. Anonymous sessions get no
// menu; the public header covers them.
func Menu(role string) []NavItem {
	switch role {
	case domain.RoleUser:
		return []NavItem{
			{Name: "Dashboard", Href: "/user/dashboard"},
			{Name: "My Portfolio", Href: "/user/portfolio"},
			{Name: "Skills & Badges", Href: "/user/skills"},
			{Name: "Profile", Href: "/profile"},
		}
	case domain.RoleInstitution:
		return []NavItem{
			{Name: "Dashboard", Href: "/institution/dashboard"},
			{Name: "Verification Queue", Href: "/institution/verifications"},
			{Name: "In Review", Href: "/institution/verifications?status=in_review"},
			{Name: "Profile", Href: "/profile"},
		}
	case domain.RoleEmployer:
		return []NavItem{
			{Name: "Dashboard", Href: "/employer/dashboard"},
			{Name: "Search Talent", Href: "/employer/candidates"},
			{Name: "Verify Credential", Href: "/verify"},
			{Name: "Profile", Href: "/profile"},
		}
	case domain.RoleAdmin:
		return []NavItem{
			{Name: "Dashboard", Href: "/admin/dashboard"},
			{Name: "Verification Requests", Href: "/admin/verification-requests"},
			{Name: "Profile", Href: "/profile"},
		}
	default:
		return nil
	}
}
