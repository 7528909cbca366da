package errors

import (
	"net/mail"
	"strings"
	"unicode"
)

// maxIDLength bounds member identifiers accepted from tree files and requests.
const maxIDLength = 128

// ValidateMemberID validates a member identifier.
//
// Identifiers end up in SVG element ids and segment keys, so the rules are
// conservative:
//   - No empty identifiers
//   - No whitespace or control characters
//   - Maximum length of 128 characters
func ValidateMemberID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidTree, "member id cannot be empty")
	}

	if len(id) > maxIDLength {
		return New(ErrCodeInvalidTree, "member id too long (max %d characters)", maxIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidTree, "member id %q contains whitespace or control characters", id)
		}
	}

	return nil
}

// ValidateEmail validates an invite email address.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return New(ErrCodeInvalidPayload, "email cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return New(ErrCodeInvalidPayload, "invalid email address: %q", email)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
