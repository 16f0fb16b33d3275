package domain

import (
	"context"
	"time"
)

// Session associates an opaque server-generated identifier with a verified
// user identity. Sessions expire a fixed TTL after creation; the TTL is not
// refreshed on use.
type Session struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// SessionStore defines the data-access contract for sessions.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on a concrete store.
type SessionStore interface {
	// Create stores a new session for the given email and returns the
	// generated session identifier.
	Create(ctx context.Context, email string) (string, error)

	// Get looks up a session by identifier.
	// Returns (nil, nil) when the identifier does not resolve to a live
	// session; expired entries are removed as a side effect so an expired
	// identifier can never resolve again.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Delete removes a session. Deleting an unknown identifier is a no-op.
	Delete(ctx context.Context, sessionID string) error

	// Sweep removes all expired sessions. Backends that expire entries
	// natively may implement it as a no-op.
	Sweep(ctx context.Context) error

	// Close stops background maintenance and releases resources.
	Close() error
}
