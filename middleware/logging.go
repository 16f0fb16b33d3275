package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TraceIDHeader carries the request trace identifier to and from clients.
const TraceIDHeader = "X-Trace-ID"

const traceParentHeader = "traceparent"

// traceID extracts a trace-id from W3C traceparent or X-Trace-ID headers,
// or generates a new one.
func traceID(c *gin.Context) string {
	// traceparent format: version-trace_id-parent_id-flags
	if parent := c.GetHeader(traceParentHeader); parent != "" {
		parts := strings.Split(parent, "-")
		if len(parts) >= 2 && parts[1] != "" {
			return parts[1]
		}
	}
	if id := c.GetHeader(TraceIDHeader); id != "" {
		return id
	}
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Logging logs every request with zerolog, attaches a trace-id-scoped
// sub-logger to the request context, and echoes the trace id back in the
// response headers. Responses with status >= 400 log at error level.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		id := traceID(c)
		logger := log.With().Str("trace_id", id).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Header(TraceIDHeader, id)

		c.Next()

		status := c.Writer.Status()
		var event *zerolog.Event
		if status >= 400 {
			event = logger.Error()
		} else {
			event = logger.Info()
		}
		event.
			Str("method", method).
			Str("path", path).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}
