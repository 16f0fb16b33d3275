package v1

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/chat-bff/internal/core/domain"
	"github.com/duynhne/chat-bff/middleware"
)

// emailPattern accepts a basic local@domain.tld shape. Anything stricter is
// the upstream identity provider's problem; the BFF only gates by domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService implements the allowlist login rules and session lifecycle.
// It depends on the SessionStore interface (injected via constructor) and
// never touches a concrete backend directly.
type AuthService struct {
	sessions       domain.SessionStore
	allowedDomains map[string]struct{}
}

// NewAuthService creates an AuthService. Allowed domains are matched
// case-insensitively.
func NewAuthService(sessions domain.SessionStore, allowedDomains []string) *AuthService {
	allowed := make(map[string]struct{}, len(allowedDomains))
	for _, d := range allowedDomains {
		allowed[strings.ToLower(strings.TrimSpace(d))] = struct{}{}
	}
	return &AuthService{
		sessions:       sessions,
		allowedDomains: allowed,
	}
}

// Login validates the email shape and domain allowlist, then creates a
// session for the lowercased email. Each attempt is logged with its
// disposition.
func (s *AuthService) Login(ctx context.Context, email string) (*domain.LoginResponse, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if email == "" || !emailPattern.MatchString(email) {
		span.SetAttributes(attribute.Bool("auth.success", false))
		return nil, fmt.Errorf("validate email: %w", ErrInvalidEmail)
	}

	normalized := strings.ToLower(email)
	emailDomain := normalized[strings.LastIndex(normalized, "@")+1:]

	if _, ok := s.allowedDomains[emailDomain]; !ok {
		span.SetAttributes(
			attribute.Bool("auth.success", false),
			attribute.String("auth.domain", emailDomain),
		)
		log.Warn().
			Str("domain", emailDomain).
			Msg("Login attempt from unauthorized domain")
		return nil, fmt.Errorf("check domain allowlist: %w", &DomainNotAllowedError{Domain: emailDomain})
	}

	sessionID, err := s.sessions.Create(ctx, normalized)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("create session for %q: %w", normalized, err)
	}

	span.SetAttributes(attribute.Bool("auth.success", true))
	log.Info().Str("email", normalized).Msg("User logged in")

	return &domain.LoginResponse{
		User:      domain.User{Email: normalized},
		SessionID: sessionID,
	}, nil
}

// Logout deletes the session. Missing or unknown identifiers are not errors:
// logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	ctx, span := middleware.StartSpan(ctx, "auth.logout", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Identify resolves a session identifier to the user it belongs to.
func (s *AuthService) Identify(ctx context.Context, sessionID string) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.identify", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess == nil {
		return nil, fmt.Errorf("resolve session: %w", ErrSessionNotFound)
	}
	return &domain.User{Email: sess.Email}, nil
}
