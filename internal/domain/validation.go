package domain

import (
	"fmt"
	"net/mail"
	"strings"
)

const (
	minNameLength     = 3
	maxNameLength     = 100
	minPasswordLength = 6
	maxPasswordLength = 255
)

// NormalizeEmail canonicalizes an address before lookup or persistence so
// uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	switch {
	case trimmed == "":
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	case len(trimmed) < minNameLength:
		return fmt.Errorf("%w: name must be at least %d characters", ErrInvalidInput, minNameLength)
	case len(trimmed) > maxNameLength:
		return fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, maxNameLength)
	}
	return nil
}

func ValidateEmail(email string) error {
	trimmed := NormalizeEmail(email)
	if trimmed == "" {
		return fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	}
	return nil
}

func ValidatePassword(password string) error {
	switch {
	case password == "":
		return fmt.Errorf("%w: password is required", ErrInvalidInput)
	case len(password) < minPasswordLength:
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	case len(password) > maxPasswordLength:
		return fmt.Errorf("%w: password must be at most %d characters", ErrInvalidInput, maxPasswordLength)
	}
	return nil
}

func ValidatePasswordConfirmation(password, confirmation string) error {
	if confirmation == "" {
		return fmt.Errorf("%w: password confirmation is required", ErrInvalidInput)
	}
	if password != confirmation {
		return fmt.Errorf("%w: passwords do not match", ErrInvalidInput)
	}
	return nil
}
