package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds item and wall identifiers.
const maxIDLength = 128

// ValidateID validates an item or wall identifier for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty identifiers
//   - No control characters or whitespace
//   - No path separators (identifiers are used as file names and keys)
//   - Maximum length of 128 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "%s id too long (max %d characters)", kind, maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "%s id contains invalid characters", kind)
		}
	}

	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return New(ErrCodeInvalidInput, "%s id contains path characters: %q", kind, id)
	}

	return nil
}

// ValidateName validates a human-readable wall or artwork name.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}

	const maxNameLength = 256
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}

	for _, r := range name {
		if r == '\x00' || (unicode.IsControl(r) && r != '\t') {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}

	return nil
}
