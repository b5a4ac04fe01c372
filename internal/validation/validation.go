// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"warbler/internal/models"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if username == "" {
		return models.NewValidationError("username is required")
	}
	if len(username) > 30 {
		return models.NewValidationError("username must not exceed 30 characters")
	}
	if !usernameRegex.MatchString(username) {
		return models.NewValidationError("username can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if email == "" {
		return models.NewValidationError("email is required")
	}
	if len(email) > 254 {
		return models.NewValidationError("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return models.NewValidationError("invalid email format")
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return models.NewValidationError("password is required")
	}
	if len(password) < 6 {
		return models.NewValidationError("password must be at least 6 characters long")
	}
	if len(password) > 128 {
		return models.NewValidationError("password must not exceed 128 characters")
	}
	return nil
}

// ValidateMessageText checks message text against the length bound.
// Length is measured in runes so multibyte text is not over-counted.
func ValidateMessageText(text string) error {
	if strings.TrimSpace(text) == "" {
		return models.NewValidationError("message text is required")
	}
	if utf8.RuneCountInString(text) > models.MaxMessageLength {
		return models.NewValidationError(fmt.Sprintf("message text must not exceed %d characters", models.MaxMessageLength))
	}
	return nil
}
