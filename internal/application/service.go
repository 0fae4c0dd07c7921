package application

import (
	"time"

	"github.com/EduardoFATECOU/sistema-login/internal/ports"
)

// Config carries the tunable auth-flow policy knobs.
type Config struct {
	SessionTimeout   time.Duration
	RotationInterval time.Duration
	LockoutWindow    time.Duration
	MaxLoginAttempts int64
	RememberLifetime time.Duration
	DefaultLanding   string
}

// Service is the auth flow controller plus session manager. It orchestrates
// the credential store, attempt ledger, session store and hasher; the HTTP
// adapter stays a thin translation layer on top of it.
type Service struct {
	cfg            Config
	users          ports.UserRepository
	attempts       ports.LoginAttemptRepository
	rememberTokens ports.RememberTokenRepository
	sessions       ports.SessionStore
	hasher         ports.PasswordHasher
	// dummyDigest keeps password verification constant-time for unknown
	// emails: Compare always runs against some digest.
	dummyDigest string
	nowFn       func() time.Time
}

type Dependencies struct {
	Config         Config
	Users          ports.UserRepository
	Attempts       ports.LoginAttemptRepository
	RememberTokens ports.RememberTokenRepository
	Sessions       ports.SessionStore
	Hasher         ports.PasswordHasher
	// Now overrides the clock; nil means time.Now in UTC.
	Now func() time.Time
}

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = 30 * time.Minute
	}
	if cfg.RotationInterval <= 0 {
		cfg.RotationInterval = 5 * time.Minute
	}
	if cfg.LockoutWindow <= 0 {
		cfg.LockoutWindow = 15 * time.Minute
	}
	if cfg.MaxLoginAttempts <= 0 {
		cfg.MaxLoginAttempts = 5
	}
	if cfg.RememberLifetime <= 0 {
		cfg.RememberLifetime = 30 * 24 * time.Hour
	}
	if cfg.DefaultLanding == "" {
		cfg.DefaultLanding = "/dashboard"
	}
	nowFn := deps.Now
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}

	dummy, _ := deps.Hasher.Hash(randomHex(16))

	return &Service{
		cfg:            cfg,
		users:          deps.Users,
		attempts:       deps.Attempts,
		rememberTokens: deps.RememberTokens,
		sessions:       deps.Sessions,
		hasher:         deps.Hasher,
		dummyDigest:    dummy,
		nowFn:          nowFn,
	}
}

// sessionTTL pads the idle timeout so the store does not garbage-collect a
// record the wall-clock check would still accept.
func (s *Service) sessionTTL() time.Duration {
	return s.cfg.SessionTimeout + 5*time.Minute
}
