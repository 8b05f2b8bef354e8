package validation

import "regexp"

// Intentionally loose: one @, a dot somewhere in the domain, no spaces.
// The verification email is the real proof of ownership.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail checks the basic shape of an email address.
func ValidateEmail(email string) error {
	if email == "" {
		return Error("Email is required")
	}

	if len(email) > 254 {
		return Error("Email address is too long")
	}

	if !emailPattern.MatchString(email) {
		return Error("Invalid email address")
	}

	return nil
}
