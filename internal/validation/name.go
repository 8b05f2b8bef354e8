package validation

import "strings"

// ValidateName validates a display name.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return Error("Name is required")
	}

	if len(trimmed) > 100 {
		return Error("Name is too long (max 100 characters)")
	}

	return nil
}
