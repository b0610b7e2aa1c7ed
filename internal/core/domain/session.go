package domain

// Flash kinds, mirrored by the templates when styling notifications.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot notification queued on the session and shown by the
// next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// SessionRecord is the persisted shape of a browser session: the bearer
// token, the user snapshot obtained in the same operation, and any flashes
// not yet shown. Token and User are written and cleared together, never
// independently.
type SessionRecord struct {
	Token   string  `json:"token,omitempty"`
	User    *User   `json:"user,omitempty"`
	Flashes []Flash `json:"flashes,omitempty"`
}

// Session is the resolved in-memory view handed to handlers and templates.
type Session struct {
	User  *User
	Token string
}

// Authenticated reports whether a user snapshot is attached. The record
// invariant guarantees User implies Token.
func (s Session) Authenticated() bool {
	return s.User != nil
}

// Role returns the session user's role, or "" for anonymous sessions.
func (s Session) Role() string {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}
