// Package account exposes the profile and 2FA-management API surface. These
// operations are callers of the session core: they ride the same transport
// (credential attach, refresh-and-retry) but never write session state.
package account

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jrsteele09/go-auth-client/api"
	"github.com/jrsteele09/go-auth-client/identity"
	"github.com/jrsteele09/go-auth-client/transport"
)

const (
	profilePath     = "/users/profile"
	passwordPath    = "/users/password"
	generatePath    = "/2fa/generate"
	enablePath      = "/2fa/enable"
	disablePath     = "/2fa/disable"
	statusPath      = "/2fa/status"
	backupCodesPath = "/2fa/backup-codes"
)

// ProfileUpdate carries the mutable profile fields.
type ProfileUpdate struct {
	Name    string           `json:"name,omitempty"`
	Profile identity.Profile `json:"profile,omitempty"`
}

// PasswordChange carries a password-change request.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// TwoFactorSetup is returned when generating a new 2FA secret.
type TwoFactorSetup struct {
	Secret string `json:"secret"`
	QRCode string `json:"qrCode"`
}

// TwoFactorStatus reports whether 2FA is enabled for the account.
type TwoFactorStatus struct {
	Enabled bool   `json:"enabled"`
	Method  string `json:"method,omitempty"`
}

// BackupCodes is a freshly generated set of one-time recovery codes.
type BackupCodes struct {
	Codes []string `json:"codes"`
}

// Service wraps the account endpoints.
type Service struct {
	client *transport.Client
	log    zerolog.Logger
}

// Option defines a function type to modify the Service instance.
type Option func(*Service)

// WithLogger sets the logger used for account-level events.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.log = logger
	}
}

// NewService initializes a Service with required dependencies.
func NewService(client *transport.Client, options ...Option) (*Service, error) {
	if client == nil {
		return nil, errors.New("[NewService] transport client is required")
	}
	service := &Service{client: client, log: zerolog.Nop()}
	for _, opt := range options {
		opt(service)
	}
	return service, nil
}

// Profile fetches the current user's profile.
func (s *Service) Profile(ctx context.Context) (*identity.Identity, error) {
	var resp api.ProfileResponse
	if err := s.client.Get(ctx, profilePath, &resp); err != nil {
		s.log.Warn().Err(err).Msg("Profile fetch failed")
		return nil, err
	}
	return resp.User, nil
}

// UpdateProfile replaces the mutable profile fields and returns the updated
// identity as reported by the service.
func (s *Service) UpdateProfile(ctx context.Context, update ProfileUpdate) (*identity.Identity, error) {
	var resp api.ProfileResponse
	if err := s.client.Put(ctx, profilePath, update, &resp); err != nil {
		s.log.Warn().Err(err).Msg("Profile update failed")
		return nil, err
	}
	return resp.User, nil
}

// ChangePassword changes the account password.
func (s *Service) ChangePassword(ctx context.Context, change PasswordChange) error {
	if err := s.client.Put(ctx, passwordPath, change, nil); err != nil {
		s.log.Warn().Err(err).Msg("Password change failed")
		return err
	}
	return nil
}

// GenerateTwoFactor asks the service for a new 2FA secret and QR code.
func (s *Service) GenerateTwoFactor(ctx context.Context) (*TwoFactorSetup, error) {
	var resp TwoFactorSetup
	if err := s.client.Post(ctx, generatePath, nil, &resp); err != nil {
		s.log.Warn().Err(err).Msg("2FA secret generation failed")
		return nil, err
	}
	return &resp, nil
}

// EnableTwoFactor turns 2FA on after the user proves possession of the
// secret with a valid code.
func (s *Service) EnableTwoFactor(ctx context.Context, secret, code string) error {
	body := map[string]string{"secret": secret, "token": code}
	if err := s.client.Put(ctx, enablePath, body, nil); err != nil {
		s.log.Warn().Err(err).Msg("Enabling 2FA failed")
		return err
	}
	return nil
}

// DisableTwoFactor turns 2FA off; the service requires the password as
// confirmation.
func (s *Service) DisableTwoFactor(ctx context.Context, password string) error {
	body := map[string]string{"password": password}
	if err := s.client.Put(ctx, disablePath, body, nil); err != nil {
		s.log.Warn().Err(err).Msg("Disabling 2FA failed")
		return err
	}
	return nil
}

// TwoFactorStatus reports the account's 2FA state.
func (s *Service) TwoFactorStatus(ctx context.Context) (*TwoFactorStatus, error) {
	var resp TwoFactorStatus
	if err := s.client.Get(ctx, statusPath, &resp); err != nil {
		s.log.Warn().Err(err).Msg("2FA status fetch failed")
		return nil, err
	}
	return &resp, nil
}

// GenerateBackupCodes creates a fresh set of recovery codes, invalidating
// any previous set.
func (s *Service) GenerateBackupCodes(ctx context.Context) (*BackupCodes, error) {
	var resp BackupCodes
	if err := s.client.Post(ctx, backupCodesPath, nil, &resp); err != nil {
		s.log.Warn().Err(err).Msg("Backup code generation failed")
		return nil, err
	}
	return &resp, nil
}
