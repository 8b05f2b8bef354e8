package validation

import "unicode"

// ValidatePassword enforces the password policy for new passwords
// (signup, reset, change). Login never runs these checks. Rules are
// evaluated in order and the first failure is returned.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return Error("Password must be at least 6 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if !hasUpper {
		return Error("Password must contain at least one uppercase letter")
	}
	if !hasLower {
		return Error("Password must contain at least one lowercase letter")
	}
	if !hasDigit {
		return Error("Password must contain at least one number")
	}
	if !hasSpecial {
		return Error("Password must contain at least one special character")
	}

	return nil
}
