package ports

import (
	"context"

	"github.com/skilltrust/portal/internal/core/domain"
)

// SessionStore persists the per-browser session record. The session manager
// is the only writer of Token/User; flash helpers may be called from
// handlers for ad-hoc notifications.
type SessionStore interface {
	// Get returns the record for sid, or domain.ErrSessionNotFound.
	Get(ctx context.Context, sid string) (*domain.SessionRecord, error)
	// Put replaces the whole record in one write.
	Put(ctx context.Context, sid string, rec *domain.SessionRecord) error
	// Delete removes the record. Deleting an absent record is not an error.
	Delete(ctx context.Context, sid string) error

	// PushFlash appends a notification, creating an anonymous record when
	// none exists (flashes may outlive a logout).
	PushFlash(ctx context.Context, sid string, flash domain.Flash) error
	// PopFlashes returns and clears all queued notifications.
	PopFlashes(ctx context.Context, sid string) ([]domain.Flash, error)
}
