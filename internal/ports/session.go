package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionData is the server-side record behind an opaque session cookie.
// The session is the sole owner of this state; a single request mutates it
// at a time.
type SessionData struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	AvatarPath   string    `json:"avatar_path,omitempty"`
	LoginTime    time.Time `json:"login_time"`
	LastActivity time.Time `json:"last_activity"`
	LastRotation time.Time `json:"last_rotation"`
}

// SessionStore keeps session records keyed by an unguessable identifier the
// store itself generates. TTLs are garbage collection only; expiry decisions
// belong to the caller's wall-clock checks.
type SessionStore interface {
	// Create stores data under a fresh random identifier and returns it.
	Create(ctx context.Context, data SessionData, ttl time.Duration) (string, error)
	// Get returns nil with no error when the identifier is unknown.
	Get(ctx context.Context, id string) (*SessionData, error)
	Save(ctx context.Context, id string, data SessionData, ttl time.Duration) error
	Destroy(ctx context.Context, id string) error
}
