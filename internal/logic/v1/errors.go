// Package v1 provides session and login business logic for API version 1.
//
// Error Handling:
// This package defines sentinel errors for common authentication failures.
// They should be wrapped with context using fmt.Errorf("%w") when returned
// from business logic methods, and checked in handlers with errors.Is /
// errors.As:
//
//	switch {
//	case errors.Is(err, logicv1.ErrInvalidEmail):
//	    c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
//	case errors.Is(err, logicv1.ErrSessionNotFound):
//	    c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
//	}
//
// Domain rejections carry the offending domain and are matched with
// errors.As on *DomainNotAllowedError.
package v1

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEmail indicates the submitted email is missing or does not
	// have a basic local@domain.tld shape.
	// HTTP Status: 400 Bad Request
	ErrInvalidEmail = errors.New("invalid email")

	// ErrSessionNotFound indicates the session identifier does not resolve
	// to a live session (unknown, deleted, or expired).
	// HTTP Status: 401 Unauthorized
	ErrSessionNotFound = errors.New("session not found")
)

// DomainNotAllowedError indicates the email's domain is not on the
// configured allowlist. It carries the domain so handlers can echo it back
// for user feedback.
// HTTP Status: 403 Forbidden
type DomainNotAllowedError struct {
	Domain string
}

func (e *DomainNotAllowedError) Error() string {
	return fmt.Sprintf("domain %q not allowed", e.Domain)
}
