package session

import (
	"regexp"
	"strings"
	"unicode"

	clienterrors "github.com/jrsteele09/go-auth-client/internal/errors"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks the email shape locally so malformed input never
// reaches the network.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return clienterrors.Wrapf(clienterrors.ErrValidation, "email is required")
	}
	if !emailPattern.MatchString(email) {
		return clienterrors.Wrapf(clienterrors.ErrValidation, "invalid email address")
	}
	return nil
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
// - Contains at least one special character
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return clienterrors.Wrapf(clienterrors.ErrValidation, "password must be at least 8 characters long")
	}

	var (
		hasUpper   bool
		hasLower   bool
		hasNumber  bool
		hasSpecial bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case strings.ContainsRune("!@#$%^&*()", char):
			hasSpecial = true
		}
	}

	if !hasUpper {
		return clienterrors.Wrapf(clienterrors.ErrValidation, "password must contain at least one uppercase letter")
	}
	if !hasLower {
		return clienterrors.Wrapf(clienterrors.ErrValidation, "password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return clienterrors.Wrapf(clienterrors.ErrValidation, "password must contain at least one number")
	}
	if !hasSpecial {
		return clienterrors.Wrapf(clienterrors.ErrValidation, "password must contain at least one special character")
	}
	return nil
}
