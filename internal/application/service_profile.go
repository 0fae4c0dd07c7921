package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/EduardoFATECOU/sistema-login/internal/domain"
	"github.com/EduardoFATECOU/sistema-login/internal/ports"
)

func (s *Service) GetProfile(ctx context.Context, session ports.SessionData) (ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return ProfileResponse{}, err
	}
	return toProfileResponse(user), nil
}

// UpdateProfile edits name/email and, when a new password is supplied, the
// stored hash. Validation accumulates; the password change is gated on the
// current password verifying against the stored digest.
func (s *Service) UpdateProfile(ctx context.Context, sessionID string, session ports.SessionData, req UpdateProfileRequest) (ProfileResponse, error) {
	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return ProfileResponse{}, err
	}

	var verrs domain.ValidationErrors
	if err := domain.ValidateName(req.Name); err != nil {
		verrs = append(verrs, userMessage(err))
	}
	email := domain.NormalizeEmail(req.Email)
	if err := domain.ValidateEmail(req.Email); err != nil {
		verrs = append(verrs, userMessage(err))
	} else {
		taken, err := s.users.EmailTaken(ctx, email, user.ID)
		if err != nil {
			return ProfileResponse{}, fmt.Errorf("check email availability: %w", err)
		}
		if taken {
			verrs = append(verrs, "email is already in use by another user")
		}
	}

	changePassword := req.NewPassword != ""
	if changePassword {
		if req.CurrentPassword == "" {
			verrs = append(verrs, "current password is required to change the password")
		} else if s.hasher.Compare(user.PasswordHash, req.CurrentPassword) != nil {
			verrs = append(verrs, "current password is incorrect")
		}
		if err := domain.ValidatePassword(req.NewPassword); err != nil {
			verrs = append(verrs, userMessage(err))
		}
		if err := domain.ValidatePasswordConfirmation(req.NewPassword, req.ConfirmNewPassword); err != nil {
			verrs = append(verrs, userMessage(err))
		}
	}
	if len(verrs) > 0 {
		return ProfileResponse{}, verrs
	}

	now := s.nowFn()
	name := trimmed(req.Name)
	if err := s.users.UpdateProfile(ctx, user.ID, name, email, now); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			// Concurrent claim of the same address between the pre-check
			// and the write.
			return ProfileResponse{}, domain.ValidationErrors{"email is already in use by another user"}
		}
		return ProfileResponse{}, err
	}

	// The stored hash is only ever overwritten by an explicit, verified
	// password change.
	if changePassword {
		hash, err := s.hasher.Hash(req.NewPassword)
		if err != nil {
			return ProfileResponse{}, fmt.Errorf("hash new password: %w", err)
		}
		if err := s.users.UpdatePassword(ctx, user.ID, hash, now); err != nil {
			return ProfileResponse{}, err
		}
	}

	// Keep the in-session display identity consistent with storage.
	session.Name = name
	session.Email = email
	if err := s.sessions.Save(ctx, sessionID, session, s.sessionTTL()); err != nil {
		slog.Default().WarnContext(ctx, "failed to refresh session identity",
			"operation", "update_profile",
			"outcome", "degraded",
			"user_id", user.ID,
			"error", err,
		)
	}

	slog.Default().InfoContext(ctx, "profile updated",
		"operation", "update_profile",
		"outcome", "success",
		"user_id", user.ID,
		"password_changed", changePassword,
	)

	updated, err := s.users.GetByID(ctx, user.ID)
	if err != nil {
		return ProfileResponse{}, err
	}
	return toProfileResponse(updated), nil
}

// ListUsers returns every registered user, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]UserSummary, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, UserSummary{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email,
			Active:      u.Active,
			CreatedAt:   u.CreatedAt,
			LastLoginAt: u.LastLoginAt,
		})
	}
	return out, nil
}

// Dashboard aggregates the caller's profile with the active-account count.
func (s *Service) Dashboard(ctx context.Context, session ports.SessionData) (DashboardResponse, error) {
	profile, err := s.GetProfile(ctx, session)
	if err != nil {
		return DashboardResponse{}, err
	}
	active, err := s.users.CountActive(ctx)
	if err != nil {
		return DashboardResponse{}, err
	}
	return DashboardResponse{Profile: profile, ActiveUsers: active}, nil
}
