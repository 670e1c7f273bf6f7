package session

import (
	"unicode"

	interrors "github.com/aionx/connect-dashboard/internal/errors"
)

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
// Checked client-side before the backend is called.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return interrors.Validationf("password must be at least 8 characters long")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return interrors.Validationf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return interrors.Validationf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return interrors.Validationf("password must contain at least one number")
	}

	return nil
}
