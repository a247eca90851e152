// File: internal/handler/http/middleware/auth_middleware.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	domainErrors "github.com/emilyastranova/forkmost/internal/domain/errors"
	domainInterfaces "github.com/emilyastranova/forkmost/internal/domain/interfaces"
)

const (
	AuthHeaderKey  = "Authorization"
	AuthTypeBearer = "bearer"
	AuthCookieName = "authToken"

	GinContextUserIDKey      = "userID"
	GinContextWorkspaceIDKey = "workspaceID"
)

// AuthMiddleware validates the session token from the auth cookie or, as a
// fallback, a Bearer header, and stores the claims in the gin context.
func AuthMiddleware(tokenService domainInterfaces.TokenService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
			tokenString = cookie
		} else if authHeader := c.GetHeader(AuthHeaderKey); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], AuthTypeBearer) {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := tokenService.ValidateAuthToken(tokenString)
		if err != nil {
			logger.Warn("Invalid auth token", zap.Error(err))
			msg := "Invalid or expired token"
			if errors.Is(err, domainErrors.ErrExpiredToken) {
				msg = "Token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(GinContextUserIDKey, claims.UserID)
		c.Set(GinContextWorkspaceIDKey, claims.WorkspaceID)
		c.Next()
	}
}
