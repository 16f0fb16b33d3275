package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/chat-bff/internal/core/domain"
)

// SessionHeader is the request header carrying the session identifier.
const SessionHeader = "X-Session-ID"

// unexported, collision-proof context key
type emailContextKeyType struct{}

var emailKey = emailContextKeyType{}

// EmailFromContext extracts the authenticated user email from a request
// context populated by SessionAuth.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok
}

// SessionAuth rejects requests that do not carry a resolvable session and
// attaches the resolved identity to the request context. It never refreshes
// the session TTL.
func SessionAuth(store domain.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No session ID provided"})
			return
		}

		sess, err := store.Get(c.Request.Context(), sessionID)
		if err != nil || sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		ctx := context.WithValue(c.Request.Context(), emailKey, sess.Email)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
