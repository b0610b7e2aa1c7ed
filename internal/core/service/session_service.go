package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/skilltrust/portal/internal/api/metrics"
	"github.com/skilltrust/portal/internal/core/domain"
	"github.com/skilltrust/portal/internal/core/ports"
)

// Notification texts surfaced by session operations. Kept as constants so
// tests assert the exact user-visible strings.
const (
	msgRestoreFailed    = "Session verification failed"
	msgLoginInvalid     = "Invalid email or password"
	msgLoginSuspended   = "Your account has been suspended"
	msgLoginTimeout     = "Connection timeout. Please try again"
	msgLoginNetwork     = "Network error. Please check your connection"
	msgLoginFallback    = "Login failed"
	msgLoginBadInput    = "Please check your input and try again"
	msgRegisterSuccess  = "Registration successful! Please check your email to verify your account."
	msgRegisterConflict = "Email already registered. Please use a different email or try logging in."
	msgRegisterNoReply  = "No response from server. Please try again."
	msgRegisterBadInput = "Validation failed. Please check your input."
	msgRegisterFallback = "Registration failed"
	msgLogoutOK         = "Logged out successfully"
	msgLogoutLocal      = "Logged out locally"
	msgProfileOK        = "Profile updated successfully"
	msgProfileBadInput  = "Validation failed"
	msgProfileFallback  = "Failed to update profile"
)

// SessionManager is the single source of truth for "who is logged in" and
// the only writer of session records. Every terminal operation queues
// exactly one flash notification, except the documented silent cases
// (restore on an expired token, restore with no token).
type SessionManager struct {
	api   ports.UpstreamClient
	store ports.SessionStore
	log   zerolog.Logger
}

func NewSessionManager(api ports.UpstreamClient, store ports.SessionStore, log zerolog.Logger) *SessionManager {
	return &SessionManager{api: api, store: store, log: log}
}

// Restore resolves the session for sid. No stored token is an empty session,
// not an error. A stored token is revalidated against /me: on success the
// user snapshot is refreshed in place; on failure the credential is cleared.
// A 401 is the expected expired-session case and stays silent; any other
// failure queues one notification.
func (m *SessionManager) Restore(ctx context.Context, sid string) (domain.Session, error) {
	rec, err := m.store.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			metrics.SessionOpsTotal.WithLabelValues("restore", "ok").Inc()
			return domain.Session{}, nil
		}
		metrics.SessionOpsTotal.WithLabelValues("restore", "error").Inc()
		return domain.Session{}, err
	}
	if rec.Token == "" {
		metrics.SessionOpsTotal.WithLabelValues("restore", "ok").Inc()
		return domain.Session{}, nil
	}

	user, err := m.api.Me(ctx, rec.Token)
	if err != nil {
		// Credential no longer usable: clear token and user together,
		// keeping undelivered flashes.
		cleared := &domain.SessionRecord{Flashes: rec.Flashes}
		if putErr := m.store.Put(ctx, sid, cleared); putErr != nil {
			m.log.Error().Err(putErr).Msg("failed to clear session record")
		}

		if errors.Is(err, domain.ErrUnauthorized) {
			metrics.SessionOpsTotal.WithLabelValues("restore", "denied").Inc()
			m.log.Debug().Msg("session restore rejected, token expired")
			return domain.Session{}, nil
		}

		metrics.SessionOpsTotal.WithLabelValues("restore", "error").Inc()
		m.log.Warn().Err(err).Msg("session restore failed")
		m.flash(ctx, sid, domain.FlashError, msgRestoreFailed)
		return domain.Session{}, nil
	}

	rec.User = user
	if err := m.store.Put(ctx, sid, rec); err != nil {
		m.log.Error().Err(err).Msg("failed to refresh session record")
	}

	metrics.SessionOpsTotal.WithLabelValues("restore", "ok").Inc()
	return domain.Session{User: user, Token: rec.Token}, nil
}

// Login authenticates against the marketplace API. On success the token and
// user are persisted in one write and a welcome flash is queued; the caller
// decides navigation via LandingPath(user.Role). On failure one classified
// flash is queued and the original error is returned so forms can keep their
// own error state.
func (m *SessionManager) Login(ctx context.Context, sid string, creds domain.Credentials) (*domain.User, error) {
	res, err := m.api.Login(ctx, creds)
	if err != nil {
		metrics.SessionOpsTotal.WithLabelValues("login", "denied").Inc()
		m.flash(ctx, sid, domain.FlashError, loginFailureMessage(err))
		return nil, err
	}

	rec := &domain.SessionRecord{Token: res.Token, User: res.User}
	if err := m.store.Put(ctx, sid, rec); err != nil {
		metrics.SessionOpsTotal.WithLabelValues("login", "error").Inc()
		m.flash(ctx, sid, domain.FlashError, msgLoginFallback)
		return nil, err
	}

	metrics.SessionOpsTotal.WithLabelValues("login", "ok").Inc()
	m.log.Info().Str("role", res.User.Role).Msg("login succeeded")
	m.flash(ctx, sid, domain.FlashSuccess, "Welcome back, "+res.User.DisplayName()+"!")
	return res.User, nil
}

func loginFailureMessage(err error) string {
	var (
		ve *domain.ValidationError
		ne *domain.NetworkError
	)
	switch {
	case errors.As(err, &ve):
		if msg := ve.Fields.First(); msg != "" {
			return msg
		}
		return msgLoginBadInput
	case errors.Is(err, domain.ErrUnauthorized):
		return msgLoginInvalid
	case errors.Is(err, domain.ErrForbidden):
		return msgLoginSuspended
	case errors.As(err, &ne):
		if ne.Timeout {
			return msgLoginTimeout
		}
		return msgLoginNetwork
	default:
		if msg := domain.UpstreamMessage(err); msg != "" {
			return msg
		}
		return msgLoginFallback
	}
}

// Register creates an account. On success the returned token and user are
// persisted together and the caller redirects to the login page with a
// "registered" indicator (email confirmation is a separate step). On 422 the
// full field-error map is available to the caller via
// RegistrationFieldErrors; the flash carries only the first message.
func (m *SessionManager) Register(ctx context.Context, sid string, data domain.Registration) (*domain.User, error) {
	res, err := m.api.Register(ctx, data)
	if err != nil {
		metrics.SessionOpsTotal.WithLabelValues("register", "denied").Inc()
		m.flash(ctx, sid, domain.FlashError, registerFailureMessage(err))
		return nil, err
	}

	rec := &domain.SessionRecord{Token: res.Token, User: res.User}
	if err := m.store.Put(ctx, sid, rec); err != nil {
		metrics.SessionOpsTotal.WithLabelValues("register", "error").Inc()
		m.flash(ctx, sid, domain.FlashError, msgRegisterFallback)
		return nil, err
	}

	metrics.SessionOpsTotal.WithLabelValues("register", "ok").Inc()
	m.log.Info().Str("role", res.User.Role).Msg("registration succeeded")
	m.flash(ctx, sid, domain.FlashSuccess, msgRegisterSuccess)
	return res.User, nil
}

func registerFailureMessage(err error) string {
	var (
		ve *domain.ValidationError
		ce *domain.ConflictError
		ne *domain.NetworkError
	)
	switch {
	case errors.As(err, &ve):
		if msg := ve.Fields.First(); msg != "" {
			return msg
		}
		return msgRegisterBadInput
	case errors.As(err, &ce):
		return msgRegisterConflict
	case errors.As(err, &ne):
		return msgRegisterNoReply
	default:
		if msg := domain.UpstreamMessage(err); msg != "" {
			return msg
		}
		return msgRegisterFallback
	}
}

// RegistrationFieldErrors maps a Register failure onto per-field form
// errors: the full map for 422, and a conflict message attached to the email
// field for 409. Other failures have no field attribution.
func RegistrationFieldErrors(err error) domain.FieldErrors {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	var ce *domain.ConflictError
	if errors.As(err, &ce) {
		field := ce.Field
		if field == "" {
			field = "email"
		}
		return domain.FieldErrors{field: {msgRegisterConflict}}
	}
	return nil
}

// Logout ends the session. The upstream call is best effort: its failure is
// logged and downgrades the notification, but local cleanup always happens
// and token and user are cleared together.
func (m *SessionManager) Logout(ctx context.Context, sid string) {
	token := ""
	if rec, err := m.store.Get(ctx, sid); err == nil {
		token = rec.Token
	}

	flash := domain.Flash{Kind: domain.FlashSuccess, Message: msgLogoutOK}
	if token != "" {
		if err := m.api.Logout(ctx, token); err != nil {
			m.log.Warn().Err(err).Msg("upstream logout failed, clearing locally")
			flash = domain.Flash{Kind: domain.FlashError, Message: msgLogoutLocal}
		}
	}

	if err := m.store.Delete(ctx, sid); err != nil {
		m.log.Error().Err(err).Msg("failed to delete session record")
	}

	metrics.SessionOpsTotal.WithLabelValues("logout", "ok").Inc()
	m.flash(ctx, sid, flash.Kind, flash.Message)
}

// UpdateProfile submits a partial edit and replaces the stored user wholesale
// with the server's returned snapshot. The token is untouched and the swap
// happens in the same write.
func (m *SessionManager) UpdateProfile(ctx context.Context, sid string, changes domain.ProfileUpdate) (*domain.User, error) {
	rec, err := m.store.Get(ctx, sid)
	if err != nil || rec.Token == "" {
		metrics.SessionOpsTotal.WithLabelValues("update_profile", "denied").Inc()
		return nil, domain.ErrUnauthorized
	}

	user, err := m.api.UpdateProfile(ctx, rec.Token, changes)
	if err != nil {
		metrics.SessionOpsTotal.WithLabelValues("update_profile", "denied").Inc()
		m.flash(ctx, sid, domain.FlashError, profileFailureMessage(err))
		return nil, err
	}

	rec.User = user
	if err := m.store.Put(ctx, sid, rec); err != nil {
		metrics.SessionOpsTotal.WithLabelValues("update_profile", "error").Inc()
		m.flash(ctx, sid, domain.FlashError, msgProfileFallback)
		return nil, err
	}

	metrics.SessionOpsTotal.WithLabelValues("update_profile", "ok").Inc()
	m.flash(ctx, sid, domain.FlashSuccess, msgProfileOK)
	return user, nil
}

func profileFailureMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		if msg := ve.Fields.First(); msg != "" {
			return msg
		}
		return msgProfileBadInput
	}
	if msg := domain.UpstreamMessage(err); msg != "" {
		return msg
	}
	return msgProfileFallback
}

func (m *SessionManager) flash(ctx context.Context, sid, kind, message string) {
	if err := m.store.PushFlash(ctx, sid, domain.Flash{Kind: kind, Message: message}); err != nil {
		m.log.Error().Err(err).Str("message", message).Msg("failed to queue flash")
	}
}
