// File: internal/handler/http/middleware/auth_middleware_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domainErrors "github.com/emilyastranova/forkmost/internal/domain/errors"
	domainInterfaces "github.com/emilyastranova/forkmost/internal/domain/interfaces"
)

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) IssueAuthToken(userID, workspaceID uuid.UUID) (string, error) {
	args := m.Called(userID, workspaceID)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateAuthToken(tokenString string) (*domainInterfaces.AuthClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainInterfaces.AuthClaims), args.Error(1)
}

func newAuthMiddlewareRouter(tokenService *MockTokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(tokenService, zap.NewNop()), func(c *gin.Context) {
		userID := c.MustGet(GinContextUserIDKey).(uuid.UUID)
		workspaceID := c.MustGet(GinContextWorkspaceIDKey).(uuid.UUID)
		c.JSON(http.StatusOK, gin.H{"userId": userID.String(), "workspaceId": workspaceID.String()})
	})
	return router
}

func TestAuthMiddleware_ValidCookie(t *testing.T) {
	tokenService := new(MockTokenService)
	claims := &domainInterfaces.AuthClaims{UserID: uuid.New(), WorkspaceID: uuid.New()}
	tokenService.On("ValidateAuthToken", "valid-token").Return(claims, nil).Once()

	router := newAuthMiddlewareRouter(tokenService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "valid-token"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), claims.UserID.String())
}

func TestAuthMiddleware_BearerFallback(t *testing.T) {
	tokenService := new(MockTokenService)
	claims := &domainInterfaces.AuthClaims{UserID: uuid.New(), WorkspaceID: uuid.New()}
	tokenService.On("ValidateAuthToken", "bearer-token").Return(claims, nil).Once()

	router := newAuthMiddlewareRouter(tokenService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, "Bearer bearer-token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	tokenService := new(MockTokenService)
	router := newAuthMiddlewareRouter(tokenService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	tokenService.AssertNotCalled(t, "ValidateAuthToken", mock.Anything)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	tokenService := new(MockTokenService)
	tokenService.On("ValidateAuthToken", "expired-token").Return(nil, domainErrors.ErrExpiredToken).Once()

	router := newAuthMiddlewareRouter(tokenService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "expired-token"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	tokenService := new(MockTokenService)
	tokenService.On("ValidateAuthToken", "garbage").Return(nil, domainErrors.ErrInvalidToken).Once()

	router := newAuthMiddlewareRouter(tokenService)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "garbage"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
