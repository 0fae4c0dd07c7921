package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/EduardoFATECOU/sistema-login/internal/domain"
)

// Login runs the full credential check: input validation, brute-force
// throttle, user lookup, constant-time password verification, ledger write,
// and session establishment.
func (s *Service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var verrs domain.ValidationErrors
	if err := domain.ValidateEmail(req.Email); err != nil {
		verrs = append(verrs, userMessage(err))
	}
	if req.Password == "" {
		verrs = append(verrs, "password is required")
	}
	if len(verrs) > 0 {
		return LoginResponse{}, verrs
	}

	email := domain.NormalizeEmail(req.Email)
	now := s.nowFn()

	// Throttle check is fail-open: a broken ledger read is logged but must
	// not lock every user out of the system.
	failures, err := s.attempts.CountFailures(ctx, email, req.IPAddress, now.Add(-s.cfg.LockoutWindow))
	if err != nil {
		slog.Default().WarnContext(ctx, "failed to read login attempt ledger",
			"operation", "login_lockout_check",
			"outcome", "failure",
			"error", err,
		)
	} else if failures >= s.cfg.MaxLoginAttempts {
		slog.Default().WarnContext(ctx, "login blocked by lockout",
			"operation", "login",
			"outcome", "blocked",
			"email", email,
			"failed_attempts", failures,
		)
		return LoginResponse{}, &domain.LockedOutError{RetryAfter: s.cfg.LockoutWindow}
	}

	user, err := s.users.GetByEmail(ctx, email)
	var outcome error
	switch {
	case errors.Is(err, domain.ErrNotFound):
		// Burn the same hashing work as the wrong-password branch so the
		// two failures are indistinguishable by timing.
		_ = s.hasher.Compare(s.dummyDigest, req.Password)
		outcome = domain.ErrInvalidCredentials
	case err != nil:
		// Credential-check path is fail-closed.
		return LoginResponse{}, fmt.Errorf("look up user: %w", err)
	case !user.Active:
		outcome = domain.ErrInactiveAccount
	case s.hasher.Compare(user.PasswordHash, req.Password) != nil:
		outcome = domain.ErrInvalidCredentials
	}

	// The ledger records the credential-check outcome for every submission
	// that reached it, success included.
	s.recordAttempt(ctx, email, req.IPAddress, outcome == nil)

	if outcome != nil {
		return LoginResponse{}, outcome
	}

	// Anti-fixation: whatever identifier the client presented before
	// authenticating is dead from here on.
	if req.PriorSessionID != "" {
		_ = s.sessions.Destroy(ctx, req.PriorSessionID)
	}

	sessionID, err := s.StartSession(ctx, user)
	if err != nil {
		return LoginResponse{}, fmt.Errorf("start session: %w", err)
	}

	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		slog.Default().WarnContext(ctx, "failed to update last login",
			"operation", "login",
			"outcome", "degraded",
			"user_id", user.ID,
			"error", err,
		)
	}

	res := LoginResponse{
		SessionID: sessionID,
		Redirect:  s.loginRedirect(req.Target),
		User:      ProfileBrief{ID: user.ID, Name: user.Name, Email: user.Email},
	}

	if req.Remember {
		token, expiresAt, err := s.issueRememberToken(ctx, user.ID)
		if err != nil {
			// Remember-me is a convenience; its failure never blocks the
			// login that just succeeded.
			slog.Default().WarnContext(ctx, "failed to issue remember token",
				"operation", "login",
				"outcome", "degraded",
				"user_id", user.ID,
				"error", err,
			)
		} else {
			res.RememberToken = token
			res.RememberExpiresAt = expiresAt
		}
	}

	slog.Default().InfoContext(ctx, "login succeeded",
		"operation", "login",
		"outcome", "success",
		"user_id", user.ID,
	)
	return res, nil
}

// Logout tears down the session and the device's remember token. It is
// idempotent: logging out while anonymous still yields the login redirect.
func (s *Service) Logout(ctx context.Context, sessionID, rememberToken string) (string, error) {
	if sessionID != "" {
		if err := s.sessions.Destroy(ctx, sessionID); err != nil {
			slog.Default().WarnContext(ctx, "failed to destroy session",
				"operation", "logout",
				"outcome", "degraded",
				"error", err,
			)
		}
	}
	if rememberToken != "" {
		if err := s.rememberTokens.DeleteByHash(ctx, hashToken(rememberToken)); err != nil {
			slog.Default().WarnContext(ctx, "failed to delete remember token",
				"operation", "logout",
				"outcome", "degraded",
				"error", err,
			)
		}
	}
	return "/login?logout=1", nil
}

// ResumeFromRememberToken trades a valid remember cookie for a fresh session
// when no session exists. Tokens are single use: the presented one is burned
// and a replacement issued.
func (s *Service) ResumeFromRememberToken(ctx context.Context, rawToken string) (ResumeResult, error) {
	if rawToken == "" {
		return ResumeResult{}, domain.ErrUnauthorized
	}
	now := s.nowFn()

	userID, err := s.rememberTokens.Consume(ctx, hashToken(rawToken), now)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ResumeResult{}, domain.ErrUnauthorized
		}
		return ResumeResult{}, fmt.Errorf("consume remember token: %w", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil || !user.Active {
		return ResumeResult{}, domain.ErrUnauthorized
	}

	sessionID, err := s.StartSession(ctx, user)
	if err != nil {
		return ResumeResult{}, fmt.Errorf("start session: %w", err)
	}
	if err := s.users.TouchLastLogin(ctx, user.ID, now); err != nil {
		slog.Default().WarnContext(ctx, "failed to update last login",
			"operation", "remember_resume",
			"outcome", "degraded",
			"user_id", user.ID,
			"error", err,
		)
	}

	res := ResumeResult{SessionID: sessionID}
	token, expiresAt, err := s.issueRememberToken(ctx, user.ID)
	if err != nil {
		slog.Default().WarnContext(ctx, "failed to rotate remember token",
			"operation", "remember_resume",
			"outcome", "degraded",
			"user_id", user.ID,
			"error", err,
		)
	} else {
		res.RememberToken = token
		res.RememberExpiresAt = expiresAt
	}
	return res, nil
}

// issueRememberToken mints a 256-bit opaque token and stores only its hash.
func (s *Service) issueRememberToken(ctx context.Context, userID uuid.UUID) (string, time.Time, error) {
	raw := randomHex(32)
	now := s.nowFn()
	expiresAt := now.Add(s.cfg.RememberLifetime)
	if err := s.rememberTokens.Create(ctx, userID, hashToken(raw), now, expiresAt); err != nil {
		return "", time.Time{}, err
	}
	return raw, expiresAt, nil
}

func (s *Service) loginRedirect(target string) string {
	if target != "" && target[0] == '/' && !hasSchemeRelativePrefix(target) {
		return target
	}
	return s.cfg.DefaultLanding
}

// hasSchemeRelativePrefix rejects //host targets that would leave the site.
func hasSchemeRelativePrefix(target string) bool {
	return len(target) > 1 && target[0] == '/' && target[1] == '/'
}
