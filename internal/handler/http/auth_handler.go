// File: internal/handler/http/auth_handler.go
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/emilyastranova/forkmost/internal/domain/errors"
	"github.com/emilyastranova/forkmost/internal/domain/models"
	"github.com/emilyastranova/forkmost/internal/handler/http/middleware"
)

// AuthService is the gate surface the handlers drive.
type AuthService interface {
	Login(ctx context.Context, req models.LoginRequest, workspace *models.Workspace, clientIP string) (*models.LoginResult, error)
	VerifyMFALogin(ctx context.Context, req models.MFAVerifyRequest, workspace *models.Workspace, clientIP string) (*models.LoginResult, error)
	ValidateUser(ctx context.Context, email, password string, workspace *models.Workspace) (*models.User, error)
}

// AuthHandler serves the login and login-completion endpoints.
type AuthHandler struct {
	authService   AuthService
	logger        *zap.Logger
	cookieTTL     time.Duration
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService AuthService, logger *zap.Logger, cookieTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		logger:        logger,
		cookieTTL:     cookieTTL,
		secureCookies: secureCookies,
	}
}

// Login handles the primary login attempt. Depending on the user's MFA state
// it either sets the session cookie, or returns the challenge/setup metadata
// with no cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request payload", h.logger)
		return
	}

	workspace, ok := middleware.WorkspaceFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusInternalServerError, "Workspace not resolved", h.logger)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req, workspace, c.ClientIP())
	if err != nil {
		h.respondLoginError(c, err)
		return
	}

	if result.Requirements != nil {
		// Challenge or setup required: metadata only, no cookie.
		RespondWithData(c, http.StatusOK, result.Requirements)
		return
	}

	h.setAuthCookie(c, result.AuthToken)
	c.Status(http.StatusOK)
}

// VerifyMFA completes a challenged login: credentials plus second-factor code.
func (h *AuthHandler) VerifyMFA(c *gin.Context) {
	var req models.MFAVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request payload", h.logger)
		return
	}

	workspace, ok := middleware.WorkspaceFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusInternalServerError, "Workspace not resolved", h.logger)
		return
	}

	result, err := h.authService.VerifyMFALogin(c.Request.Context(), req, workspace, c.ClientIP())
	if err != nil {
		switch {
		case domainErrors.IsUnauthorized(err):
			RespondWithError(c, http.StatusUnauthorized, "Invalid credentials", h.logger)
		case domainErrors.IsBadRequest(err):
			// A wrong code on the challenge leg is an authentication failure,
			// not a malformed request.
			RespondWithError(c, http.StatusUnauthorized, "Invalid MFA code", h.logger)
		default:
			h.respondLoginError(c, err)
		}
		return
	}

	h.setAuthCookie(c, result.AuthToken)
	RespondWithData(c, http.StatusOK, gin.H{"authToken": result.AuthToken})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.cookieSecure(c),
	})
	c.Status(http.StatusOK)
}

func (h *AuthHandler) respondLoginError(c *gin.Context, err error) {
	switch {
	case domainErrors.IsUnauthorized(err):
		RespondWithError(c, http.StatusUnauthorized, "Invalid credentials", h.logger)
	case err == domainErrors.ErrRateLimitExceeded:
		RespondWithError(c, http.StatusTooManyRequests, "Too many attempts. Please try again later.", h.logger)
	default:
		RespondWithError(c, http.StatusInternalServerError, "Login failed", h.logger)
	}
}

func (h *AuthHandler) setAuthCookie(c *gin.Context, token string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.cookieTTL),
		HttpOnly: true,
		Secure:   h.cookieSecure(c),
	})
}

func (h *AuthHandler) cookieSecure(c *gin.Context) bool {
	return h.secureCookies || c.Request.TLS != nil
}

// userIDFromContext extracts the authenticated user id set by AuthMiddleware.
func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.GinContextUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// workspaceIDFromContext extracts the workspace id from the validated claims.
func workspaceIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.GinContextWorkspaceIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
