package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether email or password failed.
	// The reason is to prevent account-enumeration side channels.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInactiveAccount is deliberately specific: deactivated users get a
	// different message than failed credentials.
	ErrInactiveAccount = errors.New("account is inactive, contact the administrator")
	// ErrDuplicateEmail surfaces the storage uniqueness invariant as a
	// user-correctable conflict.
	ErrDuplicateEmail = errors.New("email is already registered")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthorized    = errors.New("not authenticated")
	ErrSessionExpired  = errors.New("session expired")
	// ErrLockedOut signals the brute-force throttle tripped.
	ErrLockedOut = errors.New("too many failed login attempts")
)

// LockedOutError carries the wait hint shown to the user.
type LockedOutError struct {
	RetryAfter time.Duration
}

func (e *LockedOutError) Error() string {
	minutes := int((e.RetryAfter + time.Minute - 1) / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("too many failed login attempts, try again in %d minutes", minutes)
}

func (e *LockedOutError) Is(target error) bool { return target == ErrLockedOut }

// ValidationErrors accumulates every user-correctable violation found in a
// submission, so forms can show all problems at once instead of the first.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	switch len(v) {
	case 0:
		return "invalid input"
	case 1:
		return v[0]
	default:
		out := v[0]
		for _, msg := range v[1:] {
			out += "; " + msg
		}
		return out
	}
}

func (v ValidationErrors) Is(target error) bool { return target == ErrInvalidInput }
