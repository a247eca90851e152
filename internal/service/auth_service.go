// File: internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/emilyastranova/forkmost/internal/config"
	domainErrors "github.com/emilyastranova/forkmost/internal/domain/errors"
	domainInterfaces "github.com/emilyastranova/forkmost/internal/domain/interfaces"
	"github.com/emilyastranova/forkmost/internal/domain/models"
	"github.com/emilyastranova/forkmost/internal/domain/repository"
	"github.com/emilyastranova/forkmost/internal/events/kafka"
	"github.com/emilyastranova/forkmost/internal/utils/metrics"
	"github.com/emilyastranova/forkmost/internal/utils/rate"
)

// AuthService is the authentication gate: it validates primary credentials,
// decides whether a login attempt proceeds, must be challenged, or must enroll
// a second factor first, and issues the session token on the single terminal
// success path.
type AuthService struct {
	userRepo        repository.UserRepository
	mfaRepo         repository.UserMFARepository
	passwordService domainInterfaces.PasswordService
	totpService     domainInterfaces.TOTPService
	tokenService    domainInterfaces.TokenService
	events          *kafka.Producer
	limiter         *rate.Limiter
	rateCfg         config.RateLimitConfig
	logger          *zap.Logger

	// dummyHash is compared against on unknown-email lookups so response
	// timing does not reveal whether an account exists.
	dummyHash string
}

// NewAuthService wires the gate from its collaborators.
func NewAuthService(
	userRepo repository.UserRepository,
	mfaRepo repository.UserMFARepository,
	passwordService domainInterfaces.PasswordService,
	totpService domainInterfaces.TOTPService,
	tokenService domainInterfaces.TokenService,
	events *kafka.Producer,
	limiter *rate.Limiter,
	rateCfg config.RateLimitConfig,
	logger *zap.Logger,
) (*AuthService, error) {
	dummyHash, err := passwordService.HashPassword("forkmost-timing-equalizer")
	if err != nil {
		return nil, fmt.Errorf("failed to precompute dummy hash: %w", err)
	}
	return &AuthService{
		userRepo:        userRepo,
		mfaRepo:         mfaRepo,
		passwordService: passwordService,
		totpService:     totpService,
		tokenService:    tokenService,
		events:          events,
		limiter:         limiter,
		rateCfg:         rateCfg,
		logger:          logger,
		dummyHash:       dummyHash,
	}, nil
}

// ValidateUser checks an email/password pair against the workspace's user
// records. Unknown email and wrong password are indistinguishable: both return
// ErrInvalidCredentials, and the unknown-email path still performs a hash
// comparison.
func (s *AuthService) ValidateUser(ctx context.Context, email, password string, workspace *models.Workspace) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email, workspace.ID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			_, _ = s.passwordService.CheckPasswordHash(password, s.dummyHash)
			return nil, domainErrors.ErrInvalidCredentials
		}
		s.logger.Error("Failed to fetch user by email", zap.Error(err))
		return nil, domainErrors.ErrInternal
	}

	match, err := s.passwordService.CheckPasswordHash(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("Error checking password hash", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, domainErrors.ErrInternal
	}
	if !match {
		return nil, domainErrors.ErrInvalidCredentials
	}
	return user, nil
}

// Login runs the gate's state machine for a primary login attempt.
//
// A user with an enabled second factor gets back the challenge metadata
// without any password verification on this leg: the password is validated
// when the code is submitted, and validating it here would turn this endpoint
// into a password oracle for MFA users. A user without a factor in an
// enforcing workspace gets the setup metadata instead. Only the plain path
// verifies the password and issues a session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest, workspace *models.Workspace, clientIP string) (*models.LoginResult, error) {
	allowed, _ := s.limiter.Allow(ctx, "login:"+req.Email+":"+clientIP, s.rateCfg.LoginEmailIP)
	if !allowed {
		return nil, domainErrors.ErrRateLimitExceeded
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email, workspace.ID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrUserNotFound) {
			_, _ = s.passwordService.CheckPasswordHash(req.Password, s.dummyHash)
			s.rejectLogin(ctx, req.Email, workspace)
			return nil, domainErrors.ErrInvalidCredentials
		}
		s.logger.Error("Failed to fetch user by email during login", zap.Error(err))
		return nil, domainErrors.ErrInternal
	}

	if user.HasEnabledMFA() {
		metrics.LoginAttemptsTotal.WithLabelValues("challenge_required").Inc()
		return &models.LoginResult{
			Requirements: &models.MFARequirements{
				UserHasMFA:    true,
				RequiresSetup: false,
				IsMFAEnforced: workspace.EnforceMFA,
			},
		}, nil
	}

	if workspace.EnforceMFA {
		metrics.LoginAttemptsTotal.WithLabelValues("setup_required").Inc()
		return &models.LoginResult{
			Requirements: &models.MFARequirements{
				UserHasMFA:    false,
				RequiresSetup: true,
				IsMFAEnforced: true,
			},
		}, nil
	}

	match, err := s.passwordService.CheckPasswordHash(req.Password, user.PasswordHash)
	if err != nil {
		s.logger.Error("Error checking password hash", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, domainErrors.ErrInternal
	}
	if !match {
		s.rejectLogin(ctx, req.Email, workspace)
		return nil, domainErrors.ErrInvalidCredentials
	}

	authToken, err := s.tokenService.IssueAuthToken(user.ID, workspace.ID)
	if err != nil {
		s.logger.Error("Failed to issue auth token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, domainErrors.ErrInternal
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.publishLoginSuccess(ctx, user, workspace, false)

	return &models.LoginResult{AuthToken: authToken, User: user}, nil
}

// VerifyMFALogin completes a challenged login. Credentials are re-validated in
// full before the code is checked: the challenge leg must not be callable as a
// password-free bypass by someone who only knows an email.
func (s *AuthService) VerifyMFALogin(ctx context.Context, req models.MFAVerifyRequest, workspace *models.Workspace, clientIP string) (*models.LoginResult, error) {
	allowed, _ := s.limiter.Allow(ctx, "mfa_verify:"+req.Email+":"+clientIP, s.rateCfg.MFAVerifyEmail)
	if !allowed {
		return nil, domainErrors.ErrRateLimitExceeded
	}

	user, err := s.ValidateUser(ctx, req.Email, req.Password, workspace)
	if err != nil {
		if errors.Is(err, domainErrors.ErrInvalidCredentials) {
			s.rejectLogin(ctx, req.Email, workspace)
		}
		return nil, err
	}

	record, err := s.mfaRepo.Get(ctx, user.ID, workspace.ID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrMFANotFound) {
			metrics.MFAVerificationsTotal.WithLabelValues("not_enabled").Inc()
			return nil, domainErrors.ErrMFANotEnabled
		}
		s.logger.Error("Failed to fetch MFA record", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, domainErrors.ErrInternal
	}
	if !record.IsEnabled {
		metrics.MFAVerificationsTotal.WithLabelValues("not_enabled").Inc()
		return nil, domainErrors.ErrMFANotEnabled
	}

	valid, err := s.totpService.ValidateCode(record.Secret, req.Token)
	if err != nil {
		s.logger.Error("TOTP validation error", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, domainErrors.ErrInternal
	}
	if !valid {
		metrics.MFAVerificationsTotal.WithLabelValues("invalid_code").Inc()
		return nil, domainErrors.ErrInvalidMFACode
	}

	authToken, err := s.tokenService.IssueAuthToken(user.ID, workspace.ID)
	if err != nil {
		s.logger.Error("Failed to issue auth token after MFA", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, domainErrors.ErrInternal
	}

	metrics.MFAVerificationsTotal.WithLabelValues("success").Inc()
	s.publishLoginSuccess(ctx, user, workspace, true)

	return &models.LoginResult{AuthToken: authToken, User: user}, nil
}

func (s *AuthService) rejectLogin(ctx context.Context, email string, workspace *models.Workspace) {
	metrics.LoginAttemptsTotal.WithLabelValues("failure_credentials").Inc()
	if err := s.events.PublishEvent(ctx, kafka.EventUserLoginFailed, email, kafka.LoginFailedPayload{
		AttemptedEmail: email,
		WorkspaceID:    workspace.ID.String(),
		Timestamp:      time.Now().UTC(),
	}); err != nil {
		s.logger.Warn("Failed to publish login failed event", zap.Error(err))
	}
}

func (s *AuthService) publishLoginSuccess(ctx context.Context, user *models.User, workspace *models.Workspace, mfaUsed bool) {
	if err := s.events.PublishEvent(ctx, kafka.EventUserLoginSuccess, user.ID.String(), kafka.LoginSuccessPayload{
		UserID:      user.ID.String(),
		WorkspaceID: workspace.ID.String(),
		MFAUsed:     mfaUsed,
		Timestamp:   time.Now().UTC(),
	}); err != nil {
		s.logger.Warn("Failed to publish login success event", zap.Error(err))
	}
}
