package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/duynhne/chat-bff/internal/core/domain"
)

// MemorySessionStore implements domain.SessionStore with an in-process map.
// All sessions are lost on restart; that is an accepted limitation of this
// backend, not a bug. A janitor goroutine sweeps expired entries on a fixed
// interval for the lifetime of the store.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	ttl      time.Duration

	// now is replaceable in tests to simulate expiry.
	now func() time.Time

	stop      chan struct{}
	closeOnce sync.Once
}

// NewMemorySessionStore creates a memory-backed store and starts its janitor.
// sweepInterval <= 0 disables the janitor; Sweep can still be called directly.
func NewMemorySessionStore(ttl, sweepInterval time.Duration) *MemorySessionStore {
	s := &MemorySessionStore{
		sessions: make(map[string]*domain.Session),
		ttl:      ttl,
		now:      time.Now,
		stop:     make(chan struct{}),
	}
	if sweepInterval > 0 {
		go s.janitor(sweepInterval)
	}
	return s
}

// Create stores a new session and returns its identifier.
func (s *MemorySessionStore) Create(_ context.Context, email string) (string, error) {
	sessionID := uuid.NewString()
	s.mu.Lock()
	s.sessions[sessionID] = &domain.Session{
		ID:        sessionID,
		Email:     email,
		CreatedAt: s.now(),
	}
	s.mu.Unlock()
	return sessionID, nil
}

// Get returns the session for sessionID, or (nil, nil) when the identifier is
// unknown or past its TTL. Expired entries are removed on read.
func (s *MemorySessionStore) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	if s.now().Sub(sess.CreatedAt) > s.ttl {
		delete(s.sessions, sessionID)
		return nil, nil
	}

	copied := *sess
	return &copied, nil
}

// Delete removes a session. Unknown identifiers are ignored.
func (s *MemorySessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// Sweep removes every expired session in one bounded pass.
func (s *MemorySessionStore) Sweep(_ context.Context) error {
	now := s.now()
	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.Sub(sess.CreatedAt) > s.ttl {
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()
	return nil
}

// Close stops the janitor. Safe to call more than once.
func (s *MemorySessionStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	return nil
}

func (s *MemorySessionStore) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			_ = s.Sweep(context.Background())
		}
	}
}
