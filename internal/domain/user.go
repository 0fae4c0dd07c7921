package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the credential-bearing identity stored by the system.
// Only auth-relevant and profile-display state lives here; rendering
// concerns stay outside the core.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	AvatarPath   string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// LoginAttempt is one row of the append-only attempt ledger.
// Rows are never updated or deleted; the lockout check only runs
// rolling-window aggregates over them.
type LoginAttempt struct {
	ID          int64
	Email       string
	IPAddress   string
	Succeeded   bool
	AttemptedAt time.Time
}
