package utils

import (
	"regexp"
	"strings"
)

// MinPasswordLength is the single password policy used for both
// registration and password change.
const MinPasswordLength = 8

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{3,64}$`)

// ValidateEmail validates an email address
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateUsername validates a username
func ValidateUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

// ValidatePassword validates a password against the minimum length policy
func ValidatePassword(password string) bool {
	return len(password) >= MinPasswordLength
}

// SanitizeEmail sanitizes an email address
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SanitizeName trims surrounding whitespace from a name
func SanitizeName(name string) string {
	return strings.TrimSpace(name)
}
