package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/EduardoFATECOU/sistema-login/internal/domain"
)

// CreateUserParams captures registration inputs at the persistence boundary.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepository defines persistence operations for user records.
// All implementations must use parameterized statements; user input never
// reaches query text.
type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.User, error)
	// EmailTaken reports whether another user already owns the address.
	// Pass uuid.Nil as excluding when no user should be exempt.
	EmailTaken(ctx context.Context, email string, excluding uuid.UUID) (bool, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, name, email string, updatedAt time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, updatedAt time.Time) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	List(ctx context.Context) ([]domain.User, error)
	CountActive(ctx context.Context) (int64, error)
}

// LoginAttemptRepository stores credential-check outcomes used by the
// brute-force throttle. The ledger is append-only.
type LoginAttemptRepository interface {
	Record(ctx context.Context, attempt domain.LoginAttempt) error
	// CountFailures counts failed attempts for the (email, address) pair
	// newer than since.
	CountFailures(ctx context.Context, email, ipAddress string, since time.Time) (int64, error)
}

// RememberTokenRepository persists hashed long-lived login tokens.
// Raw tokens never touch storage; callers hash before lookup.
type RememberTokenRepository interface {
	Create(ctx context.Context, userID uuid.UUID, tokenHash string, createdAt, expiresAt time.Time) error
	// Consume removes the token and returns its owner. Tokens are single
	// use; expired or unknown hashes yield domain.ErrNotFound.
	Consume(ctx context.Context, tokenHash string, now time.Time) (uuid.UUID, error)
	DeleteByHash(ctx context.Context, tokenHash string) error
}
