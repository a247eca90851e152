// File: internal/handler/http/response.go
package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ResponseError is the error body shape of the API.
type ResponseError struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// RespondWithError sends an error response and logs it.
func RespondWithError(c *gin.Context, statusCode int, message string, logger *zap.Logger) {
	logger.Warn("API error response",
		zap.Int("status_code", statusCode),
		zap.String("error_message", message),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)

	c.JSON(statusCode, ResponseError{Error: message})
}

// RespondWithData sends a success response carrying only data.
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}
