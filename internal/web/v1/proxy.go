package v1

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/chat-bff/internal/upstream"
	"github.com/duynhne/chat-bff/middleware"
)

// ProxyHandler forwards authenticated /api requests to the Headless RAG
// service. Bodies are relayed as opaque bytes; the only BFF additions are
// the service API key and the caller's resolved email.
type ProxyHandler struct {
	client *upstream.Client
}

// NewProxyHandler creates a ProxyHandler over the given upstream client.
func NewProxyHandler(client *upstream.Client) *ProxyHandler {
	return &ProxyHandler{client: client}
}

// RegisterRoutes registers the proxied routes. The group is expected to be
// guarded by SessionAuth.
func (h *ProxyHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/rag", h.Rag)

	rg.GET("/conversations", h.passthrough("/api/conversations", "Failed to get conversations"))
	rg.POST("/conversations", h.passthrough("/api/conversations", "Failed to create conversation"))
	rg.GET("/conversations/:id", h.conversation("Failed to get conversation"))
	rg.PUT("/conversations/:id", h.conversation("Failed to update conversation"))
	rg.DELETE("/conversations/:id", h.conversation("Failed to delete conversation"))

	rg.GET("/filters", h.passthrough("/api/filters", "Failed to get filters"))
	rg.PUT("/filters", h.passthrough("/api/filters", "Failed to update filters"))

	rg.GET("/changelog", h.passthrough("/api/changelog", "Failed to get changelog"))
	rg.GET("/onboarding", h.passthrough("/api/onboarding", "Failed to get onboarding content"))
	rg.GET("/about", h.passthrough("/api/about", "Failed to get about content"))
}

// Rag handles POST /api/rag. The upstream answer is either a JSON object or
// an event stream; streamed bodies are relayed chunk by chunk without
// buffering.
func (h *ProxyHandler) Rag(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "proxy.rag", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	email, _ := middleware.EmailFromContext(ctx)

	resp, err := h.client.Stream(ctx, http.MethodPost, "/api/rag", c.Request.Body, email)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("RAG request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "RAG query failed"})
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "stream") {
		span.SetAttributes(attribute.Bool("proxy.streaming", true))
		h.relay(c, contentType, resp.Body)
		return
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "RAG query failed"})
		return
	}
	c.Data(resp.StatusCode, jsonOrDefault(contentType), data)
}

// relay forwards the upstream stream to the client as it arrives. A producer
// goroutine reads upstream chunks into a bounded channel; the consumer loop
// writes and flushes each chunk in arrival order. Cancelling the inbound
// request cancels the upstream read via the shared context. A mid-stream
// upstream failure ends the response with whatever was already written.
func (h *ProxyHandler) relay(c *gin.Context, contentType string, body io.Reader) {
	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)

	ctx := c.Request.Context()
	chunks := make(chan []byte, 1)

	go func() {
		defer close(chunks)
		buf := make([]byte, 4096)
		for {
			n, err := body.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				select {
				case chunks <- chunk:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case chunk, ok := <-chunks:
			if !ok {
				return
			}
			if _, err := c.Writer.Write(chunk); err != nil {
				return
			}
			c.Writer.Flush()
		}
	}
}

// passthrough returns a handler that forwards the request body and method to
// a fixed upstream path and mirrors the upstream status and body.
func (h *ProxyHandler) passthrough(path, errMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.forward(c, path, errMsg)
	}
}

// conversation forwards to /api/conversations/:id.
func (h *ProxyHandler) conversation(errMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.forward(c, "/api/conversations/"+c.Param("id"), errMsg)
	}
}

func (h *ProxyHandler) forward(c *gin.Context, path, errMsg string) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "proxy.forward", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("upstream.path", path),
	))
	defer span.End()

	email, _ := middleware.EmailFromContext(ctx)

	var body io.Reader
	switch c.Request.Method {
	case http.MethodPost, http.MethodPut:
		body = c.Request.Body
	}

	resp, err := h.client.Do(ctx, c.Request.Method, path, body, email)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Str("path", path).Msg("Upstream request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errMsg})
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Str("path", path).Msg("Upstream body read failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": errMsg})
		return
	}

	c.Data(resp.StatusCode, jsonOrDefault(resp.Header.Get("Content-Type")), data)
}

func jsonOrDefault(contentType string) string {
	if contentType == "" {
		return "application/json"
	}
	return contentType
}
