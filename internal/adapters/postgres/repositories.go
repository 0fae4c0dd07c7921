package postgres

import (
	"gorm.io/gorm"

	"github.com/EduardoFATECOU/sistema-login/internal/ports"
)

// Repositories bundles every Postgres-backed port implementation so the
// composition root wires storage in one call.
type Repositories struct {
	Users          ports.UserRepository
	LoginAttempts  ports.LoginAttemptRepository
	RememberTokens ports.RememberTokenRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:          &userRepository{db: db},
		LoginAttempts:  &loginAttemptRepository{db: db},
		RememberTokens: &rememberTokenRepository{db: db},
	}
}
