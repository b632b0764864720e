package identity

import (
	"time"
)

// RoleType represents the authenticated user's role as reported by the
// remote service.
type RoleType string

const (
	RoleAdmin RoleType = "admin"
	RoleUser  RoleType = "user"
)

// Profile holds the optional profile fields attached to an identity.
type Profile struct {
	Avatar   string `json:"avatar,omitempty"`   // URL of the user's avatar image
	Bio      string `json:"bio,omitempty"`      // Short free-form biography
	Phone    string `json:"phone,omitempty"`    // Contact phone number
	Location string `json:"location,omitempty"` // Free-form location string
}

// Identity is the authenticated user's account data held client-side. It is
// owned by the session manager: replaced wholesale on bootstrap/login
// success, cleared on logout, and never partially mutated anywhere else.
type Identity struct {
	ID               string    `json:"id,omitempty"`               // Unique identifier for the user
	Name             string    `json:"name,omitempty"`             // Display name
	Email            string    `json:"email,omitempty"`            // User's email address
	Role             RoleType  `json:"role,omitempty"`             // Role reported by the service
	Profile          Profile   `json:"profile"`                    // Optional profile fields
	EmailVerified    bool      `json:"isEmailVerified,omitempty"`  // Has the email address been verified
	TwoFactorEnabled bool      `json:"twoFactorEnabled,omitempty"` // Is a second factor configured
	CreatedAt        time.Time `json:"createdAt"`                  // Account creation time
	UpdatedAt        time.Time `json:"updatedAt"`                  // Last account update time
}
