package validation

import (
	"errors"
	"strings"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 12 characters")
	ErrPasswordTooLong  = errors.New("password must not exceed 72 characters")
	ErrPasswordCommon   = errors.New("password is too common, please choose a stronger one")
)

var commonPasswordPatterns = []string{
	"password", "123456", "qwerty", "admin", "letmein",
	"welcome", "monkey", "dragon", "master", "sunshine",
	"horizons",
}

// ValidatePassword enforces a 12 character minimum and rejects common
// patterns. bcrypt ignores everything past 72 bytes, so longer input is
// refused rather than silently truncated.
func ValidatePassword(password string) error {
	switch {
	case len(password) < 12:
		return ErrPasswordTooShort
	case len(password) > 72:
		return ErrPasswordTooLong
	}

	lower := strings.ToLower(password)
	for _, pattern := range commonPasswordPatterns {
		if strings.Contains(lower, pattern) {
			return ErrPasswordCommon
		}
	}

	return nil
}
