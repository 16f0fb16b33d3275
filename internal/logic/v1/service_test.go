package v1

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/duynhne/chat-bff/internal/core/repository"
)

func newTestService(t *testing.T, domains ...string) *AuthService {
	t.Helper()
	store := repository.NewMemorySessionStore(7*24*time.Hour, 0)
	t.Cleanup(func() { store.Close() })
	return NewAuthService(store, domains)
}

func TestLoginAllowedDomain(t *testing.T) {
	svc := newTestService(t, "example.com")

	resp, err := svc.Login(context.Background(), "Alice@Example.COM")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if resp.User.Email != "alice@example.com" {
		t.Errorf("Login() email = %q, want lowercased %q", resp.User.Email, "alice@example.com")
	}
	if resp.SessionID == "" {
		t.Fatal("Login() returned empty session id")
	}

	user, err := svc.Identify(context.Background(), resp.SessionID)
	if err != nil {
		t.Fatalf("Identify() error = %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Identify() email = %q, want %q", user.Email, "alice@example.com")
	}
}

func TestLoginAllowlistCaseInsensitive(t *testing.T) {
	svc := newTestService(t, " Example.COM ")

	if _, err := svc.Login(context.Background(), "bob@example.com"); err != nil {
		t.Errorf("Login() error = %v, want nil", err)
	}
}

func TestLoginInvalidEmail(t *testing.T) {
	svc := newTestService(t, "example.com")

	for _, email := range []string{"", "not-an-email", "missing@tld", "a b@example.com", "@example.com"} {
		_, err := svc.Login(context.Background(), email)
		if !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("Login(%q) error = %v, want ErrInvalidEmail", email, err)
		}
	}
}

func TestLoginDomainNotAllowed(t *testing.T) {
	svc := newTestService(t, "example.com")

	_, err := svc.Login(context.Background(), "eve@evil.org")
	var domainErr *DomainNotAllowedError
	if !errors.As(err, &domainErr) {
		t.Fatalf("Login() error = %v, want DomainNotAllowedError", err)
	}
	if domainErr.Domain != "evil.org" {
		t.Errorf("DomainNotAllowedError.Domain = %q, want %q", domainErr.Domain, "evil.org")
	}
}

func TestLogoutIdempotent(t *testing.T) {
	svc := newTestService(t, "example.com")
	ctx := context.Background()

	resp, err := svc.Login(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if err := svc.Logout(ctx, resp.SessionID); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if err := svc.Logout(ctx, resp.SessionID); err != nil {
		t.Fatalf("second Logout() error = %v", err)
	}
	if err := svc.Logout(ctx, ""); err != nil {
		t.Fatalf("Logout(empty) error = %v", err)
	}

	_, err = svc.Identify(ctx, resp.SessionID)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Identify() after logout error = %v, want ErrSessionNotFound", err)
	}
}

func TestIdentifyUnknownSession(t *testing.T) {
	svc := newTestService(t, "example.com")

	_, err := svc.Identify(context.Background(), "nope")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Identify() error = %v, want ErrSessionNotFound", err)
	}
}
