package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/chat-bff/internal/core/domain"
	logicv1 "github.com/duynhne/chat-bff/internal/logic/v1"
	"github.com/duynhne/chat-bff/middleware"
)

// Handler groups the HTTP handlers for the auth surface.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	auth *logicv1.AuthService
}

// NewHandler creates a new Handler with the given AuthService.
func NewHandler(auth *logicv1.AuthService) *Handler {
	return &Handler{auth: auth}
}

// RegisterRoutes registers the auth routes on the given router group.
// requireSession guards /me; login and logout stay public.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireSession gin.HandlerFunc) {
	rg.POST("/login", h.Login)
	rg.POST("/logout", h.Logout)
	rg.GET("/me", requireSession, h.Me)
}

// Login handles POST /auth/login: domain-allowlist authentication.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	logger := zerolog.Ctx(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		span.SetAttributes(attribute.Bool("request.valid", false))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	response, err := h.auth.Login(ctx, req.Email)
	if err != nil {
		span.RecordError(err)

		var domainErr *logicv1.DomainNotAllowedError
		switch {
		case errors.Is(err, logicv1.ErrInvalidEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		case errors.As(err, &domainErr):
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "Domain not authorized",
				"message": `The email domain "` + domainErr.Domain + `" is not authorized to access this application.`,
			})
		default:
			logger.Error().Err(err).Msg("Login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

// Logout handles POST /auth/logout. Always succeeds: a missing header or an
// already-gone session is not an error.
func (h *Handler) Logout(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	if err := h.auth.Logout(ctx, c.GetHeader(middleware.SessionHeader)); err != nil {
		span.RecordError(err)
		zerolog.Ctx(ctx).Error().Err(err).Msg("Logout failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me handles GET /auth/me. SessionAuth has already resolved the identity;
// this handler only echoes it back.
func (h *Handler) Me(c *gin.Context) {
	email, ok := middleware.EmailFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
		return
	}
	c.JSON(http.StatusOK, domain.MeResponse{User: domain.User{Email: email}})
}
