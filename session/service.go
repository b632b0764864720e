package session

import (
	"context"

	"github.com/pkg/errors"

	"github.com/jrsteele09/go-auth-client/api"
	clienterrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

// Stateless account-recovery operations. These talk to the remote service
// directly and never touch SessionState.

const (
	forgotPasswordPath  = "/auth/forgot-password"
	resetPasswordPath   = "/auth/reset-password/"
	verifyEmailPath     = "/auth/verify-email/"
	forgotFallback      = "Password reset request failed"
	resetFallback       = "Password reset failed"
	verifyEmailFallback = "Email verification failed"
)

// ForgotPassword asks the service to email a password-reset link.
func (m *Manager) ForgotPassword(ctx context.Context, email string) (string, error) {
	if err := ValidateEmail(email); err != nil {
		return "", err
	}

	var resp api.MessageResponse
	if err := m.client.Post(ctx, forgotPasswordPath, api.ForgotPasswordRequest{Email: email}, &resp); err != nil {
		return "", errors.New(remoteMessage(err, forgotFallback))
	}
	return resp.Message, nil
}

// ResetPassword sets a new password using the emailed reset token.
func (m *Manager) ResetPassword(ctx context.Context, token, password string) (string, error) {
	if token == "" {
		return "", clienterrors.Wrapf(clienterrors.ErrValidation, "reset token is required")
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return "", err
	}

	var resp api.MessageResponse
	if err := m.client.Post(ctx, resetPasswordPath+escapePathToken(token), api.ResetPasswordRequest{Password: password}, &resp); err != nil {
		return "", errors.New(remoteMessage(err, resetFallback))
	}
	return resp.Message, nil
}

// VerifyEmail confirms an email address using the emailed verification token.
func (m *Manager) VerifyEmail(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", clienterrors.Wrapf(clienterrors.ErrValidation, "verification token is required")
	}

	var resp api.MessageResponse
	if err := m.client.Get(ctx, verifyEmailPath+escapePathToken(token), &resp); err != nil {
		return "", errors.New(remoteMessage(err, verifyEmailFallback))
	}
	return resp.Message, nil
}
