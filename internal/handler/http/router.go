// File: internal/handler/http/router.go
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	domainInterfaces "github.com/emilyastranova/forkmost/internal/domain/interfaces"
	"github.com/emilyastranova/forkmost/internal/domain/repository"
	"github.com/emilyastranova/forkmost/internal/handler/http/middleware"
)

// RouterConfig bundles everything the router needs.
type RouterConfig struct {
	AuthHandler    *AuthHandler
	MFAHandler     *MFAHandler
	TokenService   domainInterfaces.TokenService
	WorkspaceRepo  repository.WorkspaceRepository
	Logger         *zap.Logger
	MetricsEnabled bool
}

// NewRouter builds the gin engine with the full middleware chain and routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RecoveryMiddleware(cfg.Logger))
	router.Use(middleware.LoggingMiddleware(cfg.Logger))
	router.Use(middleware.CorsMiddleware())
	if cfg.MetricsEnabled {
		router.Use(middleware.MetricsMiddleware())
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.MetricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	api := router.Group("/api/v1")
	api.Use(middleware.WorkspaceMiddleware(cfg.WorkspaceRepo, cfg.Logger))

	auth := api.Group("/auth")
	{
		auth.POST("/login", cfg.AuthHandler.Login)
		auth.POST("/mfa/verify", cfg.AuthHandler.VerifyMFA)
		auth.POST("/mfa/setup/generate", cfg.MFAHandler.SetupGenerate)
		auth.POST("/mfa/setup/enable", cfg.MFAHandler.SetupEnable)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg.TokenService, cfg.Logger))
		{
			protected.POST("/mfa/generate", cfg.MFAHandler.Generate)
			protected.POST("/mfa/enable", cfg.MFAHandler.Enable)
			protected.POST("/mfa/disable", cfg.MFAHandler.Disable)
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}
	}

	return router
}
