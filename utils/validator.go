// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
	"unicode"
)

// MinPasswordLength is the shortest password accepted for an account.
const MinPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)

// NormalizeEmail is the canonical form used to store and look up accounts.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the normalized form of email.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(NormalizeEmail(email))
}

// ValidatePassword returns a reason when password is too weak.
func ValidatePassword(password string) (bool, string) {
	if len(password) < MinPasswordLength {
		return false, "Password must be at least 8 characters"
	}
	if strings.TrimSpace(password) == "" {
		return false, "Password must not be blank"
	}
	return true, ""
}

// SanitizeInput trims free text and drops control characters. Newlines and
// tabs are kept so abstracts keep their layout.
func SanitizeInput(input string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == '\r':
			return -1
		case unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, input)
	return strings.TrimSpace(cleaned)
}
