// File: internal/service/mfa_service.go
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domainErrors "github.com/emilyastranova/forkmost/internal/domain/errors"
	domainInterfaces "github.com/emilyastranova/forkmost/internal/domain/interfaces"
	"github.com/emilyastranova/forkmost/internal/domain/models"
	"github.com/emilyastranova/forkmost/internal/domain/repository"
	"github.com/emilyastranova/forkmost/internal/events/kafka"
	"github.com/emilyastranova/forkmost/internal/utils/metrics"
)

// MFAService handles second-factor enrollment: secret generation, the
// enable step that commits a secret, and disablement.
type MFAService struct {
	mfaRepo     repository.UserMFARepository
	totpService domainInterfaces.TOTPService
	events      *kafka.Producer
	logger      *zap.Logger
}

// NewMFAService creates a new MFAService.
func NewMFAService(
	mfaRepo repository.UserMFARepository,
	totpService domainInterfaces.TOTPService,
	events *kafka.Producer,
	logger *zap.Logger,
) *MFAService {
	return &MFAService{
		mfaRepo:     mfaRepo,
		totpService: totpService,
		events:      events,
		logger:      logger,
	}
}

// GenerateSecret produces a fresh secret and enrollment URI for the user.
// Nothing is persisted: the secret only becomes the user's second factor when
// Enable validates a code against it.
func (s *MFAService) GenerateSecret(user *models.User) (*models.MFASecretResponse, error) {
	secret, otpauthURL, err := s.totpService.GenerateSecret(user.Email)
	if err != nil {
		s.logger.Error("Failed to generate TOTP secret", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, domainErrors.ErrInternal
	}
	return &models.MFASecretResponse{
		Secret:     secret,
		OtpauthURL: otpauthURL,
	}, nil
}

// Enable commits the submitted secret for (userID, workspaceID) after the
// submitted code proves the caller holds a working authenticator bound to it.
// On a non-matching code nothing is persisted. Re-enrollment overwrites the
// previous secret via the store's upsert.
func (s *MFAService) Enable(ctx context.Context, userID, workspaceID uuid.UUID, secret, code string) error {
	valid, err := s.totpService.ValidateCode(secret, code)
	if err != nil {
		s.logger.Error("TOTP validation error during enable", zap.Error(err), zap.String("user_id", userID.String()))
		return domainErrors.ErrInternal
	}
	if !valid {
		metrics.MFAEnrollmentsTotal.WithLabelValues("enable", "invalid_code").Inc()
		return domainErrors.ErrInvalidMFACode
	}

	record := &models.UserMFA{
		UserID:      userID,
		WorkspaceID: workspaceID,
		Secret:      secret,
		IsEnabled:   true,
		Method:      models.MFAMethodTOTP,
	}
	if err := s.mfaRepo.Upsert(ctx, record); err != nil {
		s.logger.Error("Failed to persist MFA record", zap.Error(err), zap.String("user_id", userID.String()))
		return domainErrors.ErrInternal
	}

	metrics.MFAEnrollmentsTotal.WithLabelValues("enable", "success").Inc()
	if err := s.events.PublishEvent(ctx, kafka.EventMFAEnabled, userID.String(), kafka.MFAStatusPayload{
		UserID:      userID.String(),
		WorkspaceID: workspaceID.String(),
		Method:      string(models.MFAMethodTOTP),
		Timestamp:   time.Now().UTC(),
	}); err != nil {
		s.logger.Warn("Failed to publish MFA enabled event", zap.Error(err))
	}
	return nil
}

// Disable removes the second-factor record. Deletion is the sole disablement
// mechanism and the call is idempotent: absence afterwards is the
// postcondition whether or not a record existed.
func (s *MFAService) Disable(ctx context.Context, userID, workspaceID uuid.UUID) error {
	if err := s.mfaRepo.Delete(ctx, userID, workspaceID); err != nil {
		s.logger.Error("Failed to delete MFA record", zap.Error(err), zap.String("user_id", userID.String()))
		return domainErrors.ErrInternal
	}

	metrics.MFAEnrollmentsTotal.WithLabelValues("disable", "success").Inc()
	if err := s.events.PublishEvent(ctx, kafka.EventMFADisabled, userID.String(), kafka.MFAStatusPayload{
		UserID:      userID.String(),
		WorkspaceID: workspaceID.String(),
		Method:      string(models.MFAMethodTOTP),
		Timestamp:   time.Now().UTC(),
	}); err != nil {
		s.logger.Warn("Failed to publish MFA disabled event", zap.Error(err))
	}
	return nil
}
