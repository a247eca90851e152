// File: internal/infrastructure/security/jwt_service.go
package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainErrors "github.com/emilyastranova/forkmost/internal/domain/errors"
	domainInterfaces "github.com/emilyastranova/forkmost/internal/domain/interfaces"
)

const authTokenType = "auth"

type authTokenClaims struct {
	WorkspaceID string `json:"workspaceId"`
	TokenType   string `json:"type"`
	jwt.RegisteredClaims
}

type jwtTokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// NewJWTTokenService creates the session issuer. Tokens are HS256-signed with
// the configured application secret and expire after ttl.
func NewJWTTokenService(secret string, ttl time.Duration, issuer string) (domainInterfaces.TokenService, error) {
	if secret == "" {
		return nil, errors.New("JWT secret must be configured")
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &jwtTokenService{secret: []byte(secret), ttl: ttl, issuer: issuer}, nil
}

func (s *jwtTokenService) IssueAuthToken(userID, workspaceID uuid.UUID) (string, error) {
	now := time.Now()
	claims := authTokenClaims{
		WorkspaceID: workspaceID.String(),
		TokenType:   authTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign auth token: %w", err)
	}
	return signed, nil
}

func (s *jwtTokenService) ValidateAuthToken(tokenString string) (*domainInterfaces.AuthClaims, error) {
	claims := &authTokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domainErrors.ErrExpiredToken
		}
		return nil, domainErrors.ErrInvalidToken
	}
	if !token.Valid || claims.TokenType != authTokenType {
		return nil, domainErrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, domainErrors.ErrInvalidToken
	}
	workspaceID, err := uuid.Parse(claims.WorkspaceID)
	if err != nil {
		return nil, domainErrors.ErrInvalidToken
	}

	return &domainInterfaces.AuthClaims{UserID: userID, WorkspaceID: workspaceID}, nil
}

var _ domainInterfaces.TokenService = (*jwtTokenService)(nil)
