package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/EduardoFATECOU/sistema-login/internal/domain"
	"github.com/EduardoFATECOU/sistema-login/internal/ports"
)

// AuthenticatedSession is the result of a successful session check. When the
// identifier was rotated the adapter must replace the client's cookie.
type AuthenticatedSession struct {
	ID      string
	Data    ports.SessionData
	Rotated bool
}

// StartSession binds a user identity to a brand-new session identifier.
// Callers destroy any prior identifier first; identity is never written to
// an identifier the client chose.
func (s *Service) StartSession(ctx context.Context, user domain.User) (string, error) {
	now := s.nowFn()
	return s.sessions.Create(ctx, ports.SessionData{
		UserID:       user.ID,
		Name:         user.Name,
		Email:        user.Email,
		AvatarPath:   user.AvatarPath,
		LoginTime:    now,
		LastActivity: now,
		LastRotation: now,
	}, s.sessionTTL())
}

// Authenticate validates the presented session identifier and advances the
// session state machine: idle expiry, identifier rotation, activity refresh.
//
// Returned errors: domain.ErrUnauthorized when the identifier is unknown or
// the bound user no longer exists or was deactivated; domain.ErrSessionExpired
// when the idle timeout elapsed (the record is destroyed before returning).
func (s *Service) Authenticate(ctx context.Context, sessionID string) (AuthenticatedSession, error) {
	if sessionID == "" {
		return AuthenticatedSession{}, domain.ErrUnauthorized
	}
	data, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return AuthenticatedSession{}, fmt.Errorf("load session: %w", err)
	}
	if data == nil {
		return AuthenticatedSession{}, domain.ErrUnauthorized
	}

	now := s.nowFn()
	if now.Sub(data.LastActivity) > s.cfg.SessionTimeout {
		_ = s.sessions.Destroy(ctx, sessionID)
		return AuthenticatedSession{}, domain.ErrSessionExpired
	}

	// A session outliving its user is destroyed on sight.
	user, err := s.users.GetByID(ctx, data.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			_ = s.sessions.Destroy(ctx, sessionID)
			return AuthenticatedSession{}, domain.ErrUnauthorized
		}
		return AuthenticatedSession{}, fmt.Errorf("load session user: %w", err)
	}
	if !user.Active {
		_ = s.sessions.Destroy(ctx, sessionID)
		return AuthenticatedSession{}, domain.ErrUnauthorized
	}

	data.LastActivity = now

	if now.Sub(data.LastRotation) > s.cfg.RotationInterval {
		data.LastRotation = now
		newID, err := s.sessions.Create(ctx, *data, s.sessionTTL())
		if err != nil {
			return AuthenticatedSession{}, fmt.Errorf("rotate session: %w", err)
		}
		if err := s.sessions.Destroy(ctx, sessionID); err != nil {
			slog.Default().WarnContext(ctx, "failed to drop rotated session",
				"operation", "session_rotate",
				"outcome", "degraded",
				"error", err,
			)
		}
		return AuthenticatedSession{ID: newID, Data: *data, Rotated: true}, nil
	}

	if err := s.sessions.Save(ctx, sessionID, *data, s.sessionTTL()); err != nil {
		return AuthenticatedSession{}, fmt.Errorf("refresh session: %w", err)
	}
	return AuthenticatedSession{ID: sessionID, Data: *data}, nil
}

// KeepAlive refreshes last-activity for an active-but-quiet client. It is
// the same state machine as any other authenticated access; the returned
// deadline tells the pinging client when the refreshed session would idle
// out.
func (s *Service) KeepAlive(ctx context.Context, sessionID string) (AuthenticatedSession, time.Time, error) {
	session, err := s.Authenticate(ctx, sessionID)
	if err != nil {
		return AuthenticatedSession{}, time.Time{}, err
	}
	return session, session.Data.LastActivity.Add(s.cfg.SessionTimeout), nil
}
