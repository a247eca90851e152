// File: internal/handler/http/mfa_handler.go
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/emilyastranova/forkmost/internal/domain/errors"
	"github.com/emilyastranova/forkmost/internal/domain/models"
	"github.com/emilyastranova/forkmost/internal/domain/repository"
	"github.com/emilyastranova/forkmost/internal/handler/http/middleware"
)

// MFAService is the enrollment surface the handlers drive.
type MFAService interface {
	GenerateSecret(user *models.User) (*models.MFASecretResponse, error)
	Enable(ctx context.Context, userID, workspaceID uuid.UUID, secret, code string) error
	Disable(ctx context.Context, userID, workspaceID uuid.UUID) error
}

// MFAHandler serves enrollment endpoints, both the pre-session setup flow
// (credentials in the body) and the in-session flow (session cookie).
type MFAHandler struct {
	authService AuthService
	mfaService  MFAService
	userRepo    repository.UserRepository
	logger      *zap.Logger
}

// NewMFAHandler creates a new MFAHandler.
func NewMFAHandler(authService AuthService, mfaService MFAService, userRepo repository.UserRepository, logger *zap.Logger) *MFAHandler {
	return &MFAHandler{
		authService: authService,
		mfaService:  mfaService,
		userRepo:    userRepo,
		logger:      logger,
	}
}

// SetupGenerate produces a fresh secret for a user who must enroll before
// their first session. Credentials are re-validated and nothing is persisted.
func (h *MFAHandler) SetupGenerate(c *gin.Context) {
	var req models.MFASetupGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request payload", h.logger)
		return
	}

	user, ok := h.validateSetupCredentials(c, req.Email, req.Password)
	if !ok {
		return
	}

	secret, err := h.mfaService.GenerateSecret(user)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, "Failed to generate MFA secret", h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, secret)
}

// SetupEnable activates MFA for a pre-session user. The submitted code must
// match the submitted secret before anything is stored.
func (h *MFAHandler) SetupEnable(c *gin.Context) {
	var req models.MFASetupEnableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request payload", h.logger)
		return
	}

	user, ok := h.validateSetupCredentials(c, req.Email, req.Password)
	if !ok {
		return
	}

	if err := h.mfaService.Enable(c.Request.Context(), user.ID, user.WorkspaceID, req.Secret, req.Token); err != nil {
		if domainErrors.IsBadRequest(err) {
			// Pre-session activation treats a bad code as an auth failure.
			RespondWithError(c, http.StatusUnauthorized, "Invalid MFA code", h.logger)
			return
		}
		RespondWithError(c, http.StatusInternalServerError, "Failed to enable MFA", h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, true)
}

// Generate produces a fresh secret for the authenticated user. Nothing is
// persisted until the matching enable call succeeds.
func (h *MFAHandler) Generate(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}

	secret, err := h.mfaService.GenerateSecret(user)
	if err != nil {
		RespondWithError(c, http.StatusInternalServerError, "Failed to generate MFA secret", h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, secret)
}

// Enable activates MFA for the authenticated user.
func (h *MFAHandler) Enable(c *gin.Context) {
	var req models.MFAEnableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, http.StatusBadRequest, "Invalid request payload", h.logger)
		return
	}

	user, ok := h.sessionUser(c)
	if !ok {
		return
	}

	if err := h.mfaService.Enable(c.Request.Context(), user.ID, user.WorkspaceID, req.Secret, req.Token); err != nil {
		if domainErrors.IsBadRequest(err) {
			RespondWithError(c, http.StatusBadRequest, "Invalid MFA code", h.logger)
			return
		}
		RespondWithError(c, http.StatusInternalServerError, "Failed to enable MFA", h.logger)
		return
	}
	RespondWithData(c, http.StatusOK, true)
}

// Disable removes the authenticated user's MFA enrollment. Disabling when
// nothing is enrolled still succeeds.
func (h *MFAHandler) Disable(c *gin.Context) {
	user, ok := h.sessionUser(c)
	if !ok {
		return
	}

	if err := h.mfaService.Disable(c.Request.Context(), user.ID, user.WorkspaceID); err != nil {
		RespondWithError(c, http.StatusInternalServerError, "Failed to disable MFA", h.logger)
		return
	}
	c.Status(http.StatusOK)
}

func (h *MFAHandler) validateSetupCredentials(c *gin.Context, email, password string) (*models.User, bool) {
	workspace, ok := middleware.WorkspaceFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusInternalServerError, "Workspace not resolved", h.logger)
		return nil, false
	}

	user, err := h.authService.ValidateUser(c.Request.Context(), email, password, workspace)
	if err != nil {
		if domainErrors.IsUnauthorized(err) {
			RespondWithError(c, http.StatusUnauthorized, "Invalid credentials", h.logger)
		} else {
			RespondWithError(c, http.StatusInternalServerError, "Failed to validate credentials", h.logger)
		}
		return nil, false
	}
	return user, true
}

func (h *MFAHandler) sessionUser(c *gin.Context) (*models.User, bool) {
	userID, ok := userIDFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "Unauthorized", h.logger)
		return nil, false
	}
	workspaceID, ok := workspaceIDFromContext(c)
	if !ok {
		RespondWithError(c, http.StatusUnauthorized, "Unauthorized", h.logger)
		return nil, false
	}

	user, err := h.userRepo.FindByID(c.Request.Context(), userID, workspaceID)
	if err != nil {
		if domainErrors.IsNotFound(err) {
			RespondWithError(c, http.StatusUnauthorized, "Unauthorized", h.logger)
		} else {
			RespondWithError(c, http.StatusInternalServerError, "Failed to load user", h.logger)
		}
		return nil, false
	}
	return user, true
}
