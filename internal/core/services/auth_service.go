package services

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"time"

	"github.com/lenddesk/loan_application_app/internal/apperrors"
	portssvc "github.com/lenddesk/loan_application_app/internal/core/ports/services"
	"github.com/lenddesk/loan_application_app/internal/platform/config"
	"github.com/lenddesk/loan_application_app/internal/utils"
)

// authService issues staff access tokens against the configured back-office
// credential. Acting-identity extraction proper belongs to the surrounding
// platform; this service only covers the standalone deployment case.
type authService struct {
	BaseService
	cfg *config.Config
}

// NewAuthService creates a new staff authentication service.
func NewAuthService(cfg *config.Config) portssvc.AuthSvcFacade {
	return &authService{cfg: cfg}
}

// Ensure authService implements the AuthSvcFacade interface
var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) Login(ctx context.Context, staffID string, password string) (string, time.Time, error) {
	idMatch := subtle.ConstantTimeCompare([]byte(staffID), []byte(s.cfg.StaffID)) == 1
	if !idMatch || !utils.CheckPasswordHash(password, s.cfg.StaffPasswordHash) {
		s.LogWarn(ctx, "Staff login rejected", slog.String("staff_id", staffID))
		return "", time.Time{}, apperrors.ErrUnauthorized
	}

	expiresAt := time.Now().Add(s.cfg.JWTExpiryDuration)
	token, err := utils.GenerateJWT(staffID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("staff_id", staffID))
		return "", time.Time{}, err
	}

	s.LogInfo(ctx, "Staff login succeeded", slog.String("staff_id", staffID))
	return token, expiresAt, nil
}
