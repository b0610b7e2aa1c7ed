package domain

import "testing"

func TestUser_DisplayName(t *testing.T) {
	cases := []struct {
		name string
		user *User
		want string
	}{
		{"personal name", &User{Name: "Abebe Bikila", Email: "a@example.et"}, "Abebe Bikila"},
		{"email fallback", &User{Email: "a@example.et"}, "a@example.et"},
		{"company never overrides the personal name",
			&User{Name: "Abel Tesfaye", Email: "a@example.et", CompanyName: "Dashen Logistics", Role: RoleEmployer},
			"Abel Tesfaye"},
		{"nil user", nil, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.DisplayName(); got != tc.want {
				t.Errorf("DisplayName() = %q, want %q", got, tc.want)
			}
		})
	}
}
