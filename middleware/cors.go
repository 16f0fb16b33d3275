package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS applies the fixed cross-origin policy: only the configured frontend
// origin is allowed, with a fixed method and header list and credentials
// enabled. OPTIONS preflights short-circuit with 204.
func CORS(frontendURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", frontendURL)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, X-Session-ID, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
