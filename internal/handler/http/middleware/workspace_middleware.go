// File: internal/handler/http/middleware/workspace_middleware.go
package middleware

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/emilyastranova/forkmost/internal/domain/errors"
	"github.com/emilyastranova/forkmost/internal/domain/models"
	"github.com/emilyastranova/forkmost/internal/domain/repository"
)

// GinContextWorkspaceKey is the gin context key for the resolved workspace.
const GinContextWorkspaceKey = "workspace"

// WorkspaceMiddleware resolves the tenant for the request from its host. A
// host with no matching workspace falls back to the deployment's default
// workspace, which covers single-tenant self-hosted installs.
func WorkspaceMiddleware(workspaceRepo repository.WorkspaceRepository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		hostname := c.Request.Host
		if h, _, err := net.SplitHostPort(hostname); err == nil {
			hostname = h
		}
		hostname = strings.ToLower(hostname)

		workspace, err := workspaceRepo.FindByHostname(c.Request.Context(), hostname)
		if err != nil {
			if errors.Is(err, domainErrors.ErrWorkspaceNotFound) {
				workspace, err = workspaceRepo.FindDefault(c.Request.Context())
			}
			if err != nil {
				logger.Error("Failed to resolve workspace", zap.Error(err), zap.String("hostname", hostname))
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Workspace not found"})
				return
			}
		}

		c.Set(GinContextWorkspaceKey, workspace)
		c.Next()
	}
}

// WorkspaceFromContext returns the workspace the middleware resolved.
func WorkspaceFromContext(c *gin.Context) (*models.Workspace, bool) {
	v, ok := c.Get(GinContextWorkspaceKey)
	if !ok {
		return nil, false
	}
	ws, ok := v.(*models.Workspace)
	return ws, ok
}
