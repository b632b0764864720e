// Package api defines the wire types of the remote auth service's HTTP
// contract. The service is an opaque endpoint; these are the request and
// response bodies it documents, nothing more.
package api

import (
	"github.com/jrsteele09/go-auth-client/identity"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /auth/login. The service answers
// one of two shapes: a full session (AccessToken + User) or a step-up marker
// (RequiresTwoFactor + UserID).
type LoginResponse struct {
	Success           bool               `json:"success,omitempty"`
	AccessToken       string             `json:"accessToken,omitempty"`
	User              *identity.Identity `json:"user,omitempty"`
	RequiresTwoFactor bool               `json:"requiresTwoFactor,omitempty"`
	UserID            string             `json:"userId,omitempty"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// MessageResponse is the generic {success, message} body shared by
// register, forgot-password, reset-password and verify-email.
type MessageResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

// RefreshResponse is the success body of POST /auth/refresh-token.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// ProfileResponse is the success body of GET /users/profile.
type ProfileResponse struct {
	User *identity.Identity `json:"user"`
}

// VerifyRequest is the body of POST /2fa/verify during login step-up.
type VerifyRequest struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

// VerifyResponse is the success body of POST /2fa/verify.
type VerifyResponse struct {
	Success     bool               `json:"success,omitempty"`
	AccessToken string             `json:"accessToken,omitempty"`
	User        *identity.Identity `json:"user,omitempty"`
}

// ForgotPasswordRequest is the body of POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the body of POST /auth/reset-password/:token.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}
