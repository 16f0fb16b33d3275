package repository

import (
	"context"
	"testing"
	"time"
)

const testTTL = 7 * 24 * time.Hour

// newTestStore returns a store with no janitor and a controllable clock.
func newTestStore(t *testing.T) (*MemorySessionStore, *time.Time) {
	t.Helper()
	store := NewMemorySessionStore(testTTL, 0)
	t.Cleanup(func() { store.Close() })

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func TestCreateAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if id == "" {
		t.Fatal("Create() returned empty session id")
	}

	sess, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sess == nil {
		t.Fatal("Get() = nil, want session")
	}
	if sess.Email != "alice@example.com" {
		t.Errorf("Get() email = %q, want %q", sess.Email, "alice@example.com")
	}
	if sess.ID != id {
		t.Errorf("Get() id = %q, want %q", sess.ID, id)
	}
}

func TestGetUnknownID(t *testing.T) {
	store, _ := newTestStore(t)

	sess, err := store.Get(context.Background(), "no-such-session")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sess != nil {
		t.Errorf("Get() = %+v, want nil", sess)
	}
}

func TestGetExpired(t *testing.T) {
	store, now := newTestStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Just inside the TTL the session still resolves.
	*now = now.Add(testTTL)
	if sess, _ := store.Get(ctx, id); sess == nil {
		t.Fatal("Get() at TTL boundary = nil, want session")
	}

	// One second past the TTL it does not, and never does again.
	*now = now.Add(time.Second)
	if sess, _ := store.Get(ctx, id); sess != nil {
		t.Fatalf("Get() past TTL = %+v, want nil", sess)
	}
	*now = now.Add(-testTTL)
	if sess, _ := store.Get(ctx, id); sess != nil {
		t.Errorf("Get() after expiry removal = %+v, want nil (no resurrection)", sess)
	}
}

func TestDeleteIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	id, _ := store.Create(ctx, "alice@example.com")
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
	if err := store.Delete(ctx, "never-existed"); err != nil {
		t.Fatalf("Delete(unknown) error = %v", err)
	}

	if sess, _ := store.Get(ctx, id); sess != nil {
		t.Errorf("Get() after Delete() = %+v, want nil", sess)
	}
}

func TestSweep(t *testing.T) {
	store, now := newTestStore(t)
	ctx := context.Background()

	oldID, _ := store.Create(ctx, "old@example.com")
	*now = now.Add(testTTL + time.Hour)
	freshID, _ := store.Create(ctx, "fresh@example.com")

	if err := store.Sweep(ctx); err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}

	if sess, _ := store.Get(ctx, oldID); sess != nil {
		t.Errorf("Get(old) after Sweep() = %+v, want nil", sess)
	}
	if sess, _ := store.Get(ctx, freshID); sess == nil {
		t.Error("Get(fresh) after Sweep() = nil, want session")
	}
}

func TestCloseIdempotent(t *testing.T) {
	store := NewMemorySessionStore(testTTL, time.Hour)
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}

func TestDistinctIDs(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	a, _ := store.Create(ctx, "alice@example.com")
	b, _ := store.Create(ctx, "alice@example.com")
	if a == b {
		t.Error("Create() returned the same id twice")
	}
}
